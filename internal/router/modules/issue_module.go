package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/spaceboard/internal/interface/http"
)

// IssueModule wires issues and their comments. Static segments
// (sidebar, search, suggestions) take precedence over :id.
type IssueModule struct {
	Issues   *handlers.IssueHandler
	Comments *handlers.CommentHandler
	Auth     gin.HandlerFunc
}

func NewIssueModule(issues *handlers.IssueHandler, comments *handlers.CommentHandler, auth gin.HandlerFunc) *IssueModule {
	return &IssueModule{Issues: issues, Comments: comments, Auth: auth}
}

func (m *IssueModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/issues", protected(m.Auth)...)
	{
		g.GET("", m.Issues.ListMine)
		g.GET("/sidebar", m.Issues.Sidebar)
		g.GET("/search", m.Issues.Search)
		g.GET("/suggestions", m.Issues.Suggestions)
		g.GET("/:id", m.Issues.Get)
		g.PUT("/:id", m.Issues.Update)
		g.DELETE("/:id", m.Issues.Delete)
		g.POST("/:id/attachments", m.Issues.AddAttachment)

		g.POST("/:id/comments", m.Comments.Create)
		g.GET("/:id/comments", m.Comments.List)
		g.PUT("/:id/comments/:commentId", m.Comments.Update)
		g.DELETE("/:id/comments/:commentId", m.Comments.Delete)
	}
}
