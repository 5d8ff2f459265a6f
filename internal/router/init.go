package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/container"
	"github.com/oksasatya/spaceboard/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/spaceboard/internal/infrastructure/postgres"
	"github.com/oksasatya/spaceboard/internal/infrastructure/search"
	"github.com/oksasatya/spaceboard/internal/infrastructure/storage"
	handlers "github.com/oksasatya/spaceboard/internal/interface/http"
	"github.com/oksasatya/spaceboard/internal/interface/middleware"
	"github.com/oksasatya/spaceboard/internal/router/modules"
)

// Services groups the use-case services built from the container.
type Services struct {
	Users    *application.UserService
	Spaces   *application.SpaceService
	Projects *application.ProjectService
	Issues   *application.IssueService
	Comments *application.CommentService
}

// optional integrations are left as nil interfaces when not configured
func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	spaces := pginfra.NewSpaceRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	issues := pginfra.NewIssueRepository(pool)
	comments := pginfra.NewCommentRepository(pool)

	var (
		issueIndex application.IssueIndex
		userIndex  application.UserIndex
		notifier   application.Notifier
	)
	if es := container.GetES(); es != nil {
		issueIndex = search.NewIssueIndex(es, cfg.ESIssuesIndex)
		userIndex = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = notify.NewEmailNotifier(pub, cfg, logger)
	}
	blobs := storage.NewGCSStore(container.GetGCS(), cfg.GCSBucket)

	issueSvc := application.NewIssueService(issues, comments, spaces, projects, users, issueIndex, blobs, notifier, logger, cfg.UploadMaxBytes)
	if m := container.GetMetrics(); m != nil {
		issueSvc.Metrics = m
	}

	return Services{
		Users:    application.NewUserService(users, container.GetJWT(), blobs, container.GetRedis(), logger, userIndex),
		Spaces:   application.NewSpaceService(spaces, users, issues, notifier, logger),
		Projects: application.NewProjectService(projects, spaces, users, notifier, logger),
		Issues:   issueSvc,
		Comments: application.NewCommentService(comments, issues, spaces, projects, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildServices()
	auth := middleware.Auth(container.GetRedis(), container.GetJWT())

	issueHandler := handlers.NewIssueHandler(svc.Issues, cfg.UploadMaxBytes)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, container.GetLogger(), cfg.UploadMaxBytes), auth))
	r.Add(modules.NewSpaceModule(handlers.NewSpaceHandler(svc.Spaces), issueHandler, auth))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(svc.Projects), auth))
	r.Add(modules.NewIssueModule(issueHandler, handlers.NewCommentHandler(svc.Comments), auth))

	if m := container.GetMetrics(); m != nil {
		r.Use(middleware.Metrics(m))
		r.Add(modules.NewMetricsModule(m.Handler()))
	}
	r.Add(healthModule{})
}

type healthModule struct{}

func (healthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
}
