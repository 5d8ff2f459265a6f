package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/pkg/response"
)

type SpaceService interface {
	Create(ctx context.Context, userID string, in application.SpaceInput) (*entity.Space, error)
	List(ctx context.Context, userID string) ([]entity.Space, error)
	Get(ctx context.Context, userID, id string) (*entity.Space, error)
	Update(ctx context.Context, userID, id string, in application.SpaceInput) (*entity.Space, error)
	Delete(ctx context.Context, userID, id string) error
	AddMember(ctx context.Context, userID, id, email string) (*entity.Space, error)
	RemoveMember(ctx context.Context, userID, id, memberID string) (*entity.Space, error)
	Members(ctx context.Context, userID, id string) ([]entity.UserSummary, error)
	ListIssues(ctx context.Context, userID, id, projectID string) ([]entity.Issue, error)
}

type SpaceHandler struct {
	Svc SpaceService
}

func NewSpaceHandler(svc SpaceService) *SpaceHandler { return &SpaceHandler{Svc: svc} }

type spaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type memberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *SpaceHandler) Create(c *gin.Context) {
	var req spaceRequest
	if !bind(c, &req) {
		return
	}
	sp, err := h.Svc.Create(c.Request.Context(), currentUser(c), application.SpaceInput{Name: req.Name, Description: req.Description})
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusCreated, sp, "space created")
}

func (h *SpaceHandler) List(c *gin.Context) {
	spaces, err := h.Svc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, spaces, "spaces")
}

func (h *SpaceHandler) Get(c *gin.Context) {
	sp, err := h.Svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, sp, "space")
}

func (h *SpaceHandler) Update(c *gin.Context) {
	var req spaceRequest
	if !bind(c, &req) {
		return
	}
	sp, err := h.Svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), application.SpaceInput{Name: req.Name, Description: req.Description})
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, sp, "space updated")
}

func (h *SpaceHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, map[string]any{"deleted": true}, "space deleted")
}

func (h *SpaceHandler) AddMember(c *gin.Context) {
	var req memberRequest
	if !bind(c, &req) {
		return
	}
	sp, err := h.Svc.AddMember(c.Request.Context(), currentUser(c), c.Param("id"), req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, sp, "member added")
}

func (h *SpaceHandler) RemoveMember(c *gin.Context) {
	sp, err := h.Svc.RemoveMember(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("memberId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, sp, "member removed")
}

func (h *SpaceHandler) Members(c *gin.Context) {
	members, err := h.Svc.Members(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, members, "members")
}

// Issues lists the space's issues, optionally narrowed by ?projectId=.
func (h *SpaceHandler) Issues(c *gin.Context) {
	issues, err := h.Svc.ListIssues(c.Request.Context(), currentUser(c), c.Param("id"), c.Query("projectId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, issues, "issues")
}
