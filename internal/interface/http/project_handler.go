package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/pkg/response"
)

type ProjectService interface {
	Create(ctx context.Context, userID string, in application.ProjectInput) (*entity.Project, error)
	List(ctx context.Context, userID, spaceID string) ([]entity.Project, error)
	Get(ctx context.Context, userID, id string) (*entity.Project, error)
	Update(ctx context.Context, userID, id string, in application.ProjectInput) (*entity.Project, error)
	Delete(ctx context.Context, userID, id string) error
	AddMember(ctx context.Context, userID, id, email string) (*entity.Project, error)
	RemoveMember(ctx context.Context, userID, id, memberID string) (*entity.Project, error)
	UpdateKanbanStatuses(ctx context.Context, userID, id string, statuses []string) (*entity.Project, error)
}

type ProjectHandler struct {
	Svc ProjectService
}

func NewProjectHandler(svc ProjectService) *ProjectHandler { return &ProjectHandler{Svc: svc} }

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IssueKey    string `json:"issue_key"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	SpaceID     string `json:"space_id"`
}

func (r projectRequest) input() application.ProjectInput {
	return application.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		IssueKey:    r.IssueKey,
		Color:       r.Color,
		SpaceID:     r.SpaceID,
	}
}

type kanbanRequest struct {
	Statuses []string `json:"kanban_statuses" binding:"required,min=1"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), currentUser(c), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusCreated, p, "project created")
}

// List returns the caller's projects, optionally within ?spaceId=.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Svc.List(c.Request.Context(), currentUser(c), c.Query("spaceId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, projects, "projects")
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, p, "project")
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, p, "project updated")
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, map[string]any{"deleted": true}, "project deleted")
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req memberRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Svc.AddMember(c.Request.Context(), currentUser(c), c.Param("id"), req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, p, "member added")
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	p, err := h.Svc.RemoveMember(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, p, "member removed")
}

func (h *ProjectHandler) UpdateKanban(c *gin.Context) {
	var req kanbanRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Svc.UpdateKanbanStatuses(c.Request.Context(), currentUser(c), c.Param("id"), req.Statuses)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, p, "kanban statuses updated")
}
