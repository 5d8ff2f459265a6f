package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/container"
	"github.com/oksasatya/spaceboard/internal/interface/middleware"
)

type MetricsModule struct {
	Handler http.Handler
}

func NewMetricsModule(h http.Handler) *MetricsModule { return &MetricsModule{Handler: h} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Prometheus scrape endpoint, rate-limited per IP; private networks bypass the limit
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Handler))
}
