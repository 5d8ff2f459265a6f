package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/spaceboard/internal/interface/http"
)

type SpaceModule struct {
	Handler *handlers.SpaceHandler
	Issues  *handlers.IssueHandler
	Auth    gin.HandlerFunc
}

func NewSpaceModule(h *handlers.SpaceHandler, issues *handlers.IssueHandler, auth gin.HandlerFunc) *SpaceModule {
	return &SpaceModule{Handler: h, Issues: issues, Auth: auth}
}

func (m *SpaceModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/spaces", protected(m.Auth)...)
	{
		g.POST("", m.Handler.Create)
		g.GET("", m.Handler.List)
		g.GET("/:id", m.Handler.Get)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.POST("/:id/members", m.Handler.AddMember)
		g.GET("/:id/members", m.Handler.Members)
		g.DELETE("/:id/members/:memberId", m.Handler.RemoveMember)
		g.GET("/:id/issues", m.Handler.Issues)
		g.POST("/:id/issues", m.Issues.Create)
	}
}
