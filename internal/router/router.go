package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bursary-portal/bursary-api/internal/handler"
	"github.com/bursary-portal/bursary-api/internal/middleware"
	"github.com/bursary-portal/bursary-api/internal/models"
	"github.com/bursary-portal/bursary-api/internal/service"
	"github.com/bursary-portal/bursary-api/pkg/config"
	"github.com/bursary-portal/bursary-api/pkg/logger"
	corsmiddleware "github.com/bursary-portal/bursary-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bursary-portal/bursary-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler mounted by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Student      *handler.StudentHandler
	Admin        *handler.AdminHandler
	Bursary      *handler.BursaryHandler
	Application  *handler.ApplicationHandler
	Document     *handler.DocumentHandler
	Message      *handler.MessageHandler
	Conversation *handler.ConversationHandler
}

// Dependencies are the cross-cutting pieces the router mounts around handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	UploadsDir  string
}

// New assembles the gin engine: ambient middleware, public endpoints and the
// token-guarded API surface under the configured prefix.
func New(deps Dependencies, h Handlers) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Uploaded documents are served statically; metadata access control
	// lives on the API routes.
	r.Static("/uploads", deps.UploadsDir)

	api := r.Group(deps.Config.APIPrefix)

	api.POST("/register/student", h.Auth.RegisterStudent)
	api.POST("/register/admin", h.Auth.RegisterAdmin)
	api.POST("/login", h.Auth.Login)
	api.GET("/bursaries/available", h.Bursary.ListAvailable)

	auth := api.Group("")
	auth.Use(middleware.JWT(deps.AuthService))
	{
		auth.GET("/students/:id", h.Student.Profile)
		auth.PUT("/students/:id", h.Student.UpdateProfile)
		auth.GET("/admins/:id", h.Admin.Profile)
		auth.PUT("/admins/:id", h.Admin.UpdateProfile)
		auth.GET("/admins", h.Admin.List)

		auth.GET("/bursaries/:id", h.Bursary.Get)

		auth.POST("/applications", h.Application.Submit)
		auth.POST("/applications/withdraw", h.Application.Withdraw)
		auth.GET("/applications", h.Application.ListByStudent)

		auth.POST("/documents/upload", h.Document.Upload)
		auth.GET("/documents/:id", h.Document.Get)
		auth.DELETE("/documents/delete/:id", h.Document.Delete)
		auth.GET("/documents/student/:id", h.Document.ListByStudent)
		auth.GET("/documents/application/:id", h.Document.ListByApplication)

		auth.POST("/messages/send", h.Message.Send)
		auth.GET("/messages/conversation/:id", h.Message.History)
		auth.POST("/messages/mark-read", h.Message.MarkRead)

		auth.POST("/conversations/initiate", h.Conversation.Initiate)
		auth.GET("/conversations/student/:id", h.Conversation.ListByStudent)
		auth.GET("/conversations/admin/:id", h.Conversation.ListByAdmin)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(deps.AuthService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/bursaries", h.Bursary.ListAll)
		admin.POST("/bursaries", h.Bursary.Create)
		admin.PUT("/bursaries/:id", h.Bursary.Update)
		admin.DELETE("/bursaries/:id", h.Bursary.Delete)

		admin.GET("/students", h.Student.List)

		admin.POST("/applications/status/update", h.Application.UpdateStatus)
		admin.GET("/applications/admin/all", h.Application.ListAll)
		admin.GET("/applications/admin/export", h.Application.Export)
	}

	return r
}
