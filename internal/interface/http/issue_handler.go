package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/pkg/response"
)

type IssueService interface {
	Create(ctx context.Context, userID, spaceID string, in application.CreateIssueInput) (*entity.Issue, error)
	Get(ctx context.Context, userID, ref string) (*entity.Issue, error)
	Update(ctx context.Context, userID, ref string, in application.UpdateIssueInput) (*entity.Issue, error)
	Delete(ctx context.Context, userID, ref string) error
	ListMine(ctx context.Context, userID string) ([]entity.Issue, error)
	Sidebar(ctx context.Context, userID string) ([]entity.Issue, error)
	Search(ctx context.Context, userID string, in application.SearchInput) ([]entity.Issue, error)
	Suggestions(ctx context.Context, userID, keyword string) ([]entity.Issue, error)
	AddAttachment(ctx context.Context, userID, ref string, file application.Attachment) (string, error)
}

type IssueHandler struct {
	Svc            IssueService
	MaxUploadBytes int64
}

func NewIssueHandler(svc IssueService, maxUploadBytes int64) *IssueHandler {
	return &IssueHandler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

type createIssueRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,issuestatus"`
	Priority    string `json:"priority" binding:"omitempty,issuepriority"`
	AssigneeID  string `json:"assignee_id"`
	Team        string `json:"team" binding:"issueteam"`
	DueDate     string `json:"due_date"`
	ReporterID  string `json:"reporter_id"`
}

type updateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,issuestatus"`
	Priority    *string `json:"priority" binding:"omitempty,issuepriority"`
	AssigneeID  *string `json:"assignee_id"`
	Team        *string `json:"team" binding:"omitempty,issueteam"`
	DueDate     *string `json:"due_date"`
	ReporterID  *string `json:"reporter_id"`
}

// parseDueDate accepts RFC 3339 or a bare YYYY-MM-DD date.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.Validation("due_date must be RFC 3339 or YYYY-MM-DD")
}

func (h *IssueHandler) Create(c *gin.Context) {
	var req createIssueRequest
	if !bind(c, &req) {
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		response.Fail(c, err)
		return
	}
	issue, err := h.Svc.Create(c.Request.Context(), currentUser(c), c.Param("id"), application.CreateIssueInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.IssueStatus(req.Status),
		Priority:    entity.IssuePriority(req.Priority),
		AssigneeID:  req.AssigneeID,
		Team:        entity.Team(req.Team),
		DueDate:     due,
		ReporterID:  req.ReporterID,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusCreated, issue, "issue created")
}

// Get accepts either the human id (ET-001) or the internal id.
func (h *IssueHandler) Get(c *gin.Context) {
	issue, err := h.Svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, issue, "issue")
}

func (h *IssueHandler) Update(c *gin.Context) {
	var req updateIssueRequest
	if !bind(c, &req) {
		return
	}
	in := application.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		ReporterID:  req.ReporterID,
	}
	if req.Status != nil {
		st := entity.IssueStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		p := entity.IssuePriority(*req.Priority)
		in.Priority = &p
	}
	if req.Team != nil {
		t := entity.Team(*req.Team)
		in.Team = &t
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			response.Fail(c, err)
			return
		}
		in.DueDate = due
	}

	issue, err := h.Svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, issue, "issue updated")
}

func (h *IssueHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, map[string]any{"deleted": true}, "issue deleted")
}

func (h *IssueHandler) ListMine(c *gin.Context) {
	issues, err := h.Svc.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, issues, "issues")
}

func (h *IssueHandler) Sidebar(c *gin.Context) {
	issues, err := h.Svc.Sidebar(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, issues, "issues")
}

// Search reads keyword, status, priority, assignee and project from the query string.
func (h *IssueHandler) Search(c *gin.Context) {
	issues, err := h.Svc.Search(c.Request.Context(), currentUser(c), application.SearchInput{
		Keyword:    c.Query("keyword"),
		Status:     entity.IssueStatus(c.Query("status")),
		Priority:   entity.IssuePriority(c.Query("priority")),
		AssigneeID: c.Query("assignee"),
		ProjectID:  c.Query("project"),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, issues, "issues")
}

func (h *IssueHandler) Suggestions(c *gin.Context) {
	issues, err := h.Svc.Suggestions(c.Request.Context(), currentUser(c), c.Query("keyword"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, issues, "suggestions")
}

// AddAttachment expects a multipart "attachment" file field.
func (h *IssueHandler) AddAttachment(c *gin.Context) {
	fh, ok := formFile(c, "attachment", h.MaxUploadBytes)
	if !ok {
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer f.Close()

	url, err := h.Svc.AddAttachment(c.Request.Context(), currentUser(c), c.Param("id"), application.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusCreated, map[string]any{"url": url}, "attachment added")
}
