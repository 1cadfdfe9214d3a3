package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/bursary-portal/bursary-api/api/swagger"
	"github.com/bursary-portal/bursary-api/internal/handler"
	"github.com/bursary-portal/bursary-api/internal/repository"
	"github.com/bursary-portal/bursary-api/internal/router"
	"github.com/bursary-portal/bursary-api/internal/service"
	"github.com/bursary-portal/bursary-api/pkg/config"
	"github.com/bursary-portal/bursary-api/pkg/database"
	"github.com/bursary-portal/bursary-api/pkg/logger"
	"github.com/bursary-portal/bursary-api/pkg/mailer"
	"github.com/bursary-portal/bursary-api/pkg/storage"
)

// @title Bursary Portal API
// @version 1.0.0
// @description Bursary listings, applications, documents and messaging
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init uploads storage", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	smtpMailer := mailer.New(cfg.Mail, logr)
	notifications := service.NewNotificationService(smtpMailer, cfg.Mailer, metrics, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	bursaryRepo := repository.NewBursaryRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authService := service.NewAuthService(studentRepo, adminRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	studentService := service.NewStudentService(studentRepo, validate, logr)
	adminService := service.NewAdminService(adminRepo, validate, logr)
	bursaryService := service.NewBursaryService(bursaryRepo, validate, logr)
	applicationService := service.NewApplicationService(applicationRepo, notifications, metrics, validate, logr)
	documentService := service.NewDocumentService(documentRepo, store, logr)
	conversationService := service.NewConversationService(conversationRepo, logr)
	messageService := service.NewMessageService(messageRepo, studentRepo, adminRepo, validate, logr)

	engine := router.New(router.Dependencies{
		Config:      cfg,
		Logger:      logr,
		AuthService: authService,
		Metrics:     metrics,
		UploadsDir:  store.BaseDir(),
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Student:      handler.NewStudentHandler(studentService),
		Admin:        handler.NewAdminHandler(adminService),
		Bursary:      handler.NewBursaryHandler(bursaryService),
		Application:  handler.NewApplicationHandler(applicationService),
		Document:     handler.NewDocumentHandler(documentService),
		Message:      handler.NewMessageHandler(messageService),
		Conversation: handler.NewConversationHandler(conversationService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
