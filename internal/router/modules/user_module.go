package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/spaceboard/internal/interface/http"
)

// UserModule wires the profile and user directory routes under /api/auth.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth", protected(m.Auth)...)
	{
		auth.GET("/users", m.Handler.ListUsers)
		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/password", m.Handler.ChangePassword)
		auth.PUT("/profile/photo", m.Handler.UploadPhoto)
	}
}
