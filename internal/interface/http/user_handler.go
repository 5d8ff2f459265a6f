package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/pkg/response"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in application.UpdateProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UploadProfilePicture(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error)
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type UserHandler struct {
	Svc            UserService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewUserHandler(svc UserService, logger *logrus.Logger, maxUploadBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, u, "profile")
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, users, "users")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), currentUser(c), application.UpdateProfileInput{Name: req.Name, Email: req.Email})
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, u, "profile updated")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, map[string]any{"updated": true}, "password updated")
}

// UploadPhoto expects a multipart "profilePicture" file field.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	fh, ok := formFile(c, "profilePicture", h.MaxUploadBytes)
	if !ok {
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer f.Close()

	u, err := h.Svc.UploadProfilePicture(c.Request.Context(), currentUser(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	reply(c, http.StatusOK, u, "profile picture updated")
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	replyList(c, res, "users")
}
