package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/pkg/response"
)

type CommentService interface {
	Create(ctx context.Context, userID, issueRef, text string) (*entity.Comment, error)
	List(ctx context.Context, userID, issueRef string) ([]entity.Comment, error)
	Update(ctx context.Context, userID, issueRef, commentID, text string) (*entity.Comment, error)
	Delete(ctx context.Context, userID, issueRef, commentID string) error
}

type CommentHandler struct {
	Svc CommentService
}

func NewCommentHandler(svc CommentService) *CommentHandler { return &CommentHandler{Svc: svc} }

type commentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.Svc.Create(c.Request.Context(), currentUser(c), c.Param("id"), req.Text)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusCreated, cm, "comment added")
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.Svc.List(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, comments, "comments")
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.Svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("commentId"), req.Text)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, cm, "comment updated")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("commentId")); err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, map[string]any{"deleted": true}, "comment deleted")
}
