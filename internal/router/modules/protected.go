package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/container"
	"github.com/oksasatya/spaceboard/internal/interface/middleware"
)

// protected is the middleware chain shared by every authenticated route:
// the auth check, then a softer per-IP and a per-user limiter.
func protected(auth gin.HandlerFunc) []gin.HandlerFunc {
	rdb := container.GetRedis()
	return []gin.HandlerFunc{
		auth,
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	}
}
