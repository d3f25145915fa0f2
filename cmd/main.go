package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/handler"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/internal/scheduler"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/AbdiAhmed6457/job-portal/pkg/config"
	"github.com/AbdiAhmed6457/job-portal/pkg/database"
	"github.com/AbdiAhmed6457/job-portal/pkg/jwtutil"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/pkg/ratelimit"
	"github.com/AbdiAhmed6457/job-portal/pkg/storage"
	"github.com/AbdiAhmed6457/job-portal/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "job-portal"

// multipart overhead allowed on top of the CV size limit
const uploadSlack = 1 << 20

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting job portal...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.Models()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rate limiter is optional; without Redis every apply is allowed
	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.Redis.Addr != "" {
		client, err := ratelimit.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client, serviceName+":ratelimit:")
		log.Info("Apply rate limiter enabled", zap.Int("per_minute", cfg.RateLimit.ApplyPerMinute))
	}

	store, err := storage.NewOSFileStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Repositories
	users := repository.NewUserRepository(db)
	companies := repository.NewCompanyRepository(db)
	jobs := repository.NewJobRepository(db)
	applications := repository.NewApplicationRepository(db)
	profiles := repository.NewStudentProfileRepository(db)
	audits := repository.NewAuditRepository(db)

	// Services
	cvPolicy := service.CVPolicy{MaxBytes: cfg.Upload.MaxCVBytes}
	sweeper := service.NewSweeper(jobs, nil)
	authService := service.NewAuthService(users, tokens)
	companyService := service.NewCompanyService(companies, users)
	jobService := service.NewJobService(jobs, companies, sweeper)
	applicationService := service.NewApplicationService(applications, jobs, companies, store, cvPolicy, limiter,
		service.ApplyLimit{Limit: cfg.RateLimit.ApplyPerMinute, Window: time.Minute})
	profileService := service.NewProfileService(profiles, store, cvPolicy)
	auditService := service.NewAuditService(audits)

	created, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("email", cfg.Admin.Email))
	}

	// Background expiration sweep
	var cron *scheduler.Scheduler
	if cfg.Sweeper.Enabled {
		cron = scheduler.New(log)
		if err := cron.AddSweep(cfg.Sweeper.Schedule, sweeper); err != nil {
			log.Fatal("Failed to schedule expiration sweep", zap.Error(err))
		}
		cron.Start()
		log.Info("Expiration sweep scheduled", zap.String("schedule", cfg.Sweeper.Schedule))
	}

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
	}))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)
	companyHandler := handler.NewCompanyHandler(companyService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	adminHandler := handler.NewAdminHandler(jobService, auditService)
	profileHandler := handler.NewProfileHandler(profileService)

	jwtAuth := middleware.JWTAuthMiddleware(tokens)
	optionalAuth := middleware.OptionalAuthMiddleware(tokens)
	uploadLimit := handler.UploadLimit(fmt.Sprintf("%dK", (cfg.Upload.MaxCVBytes+uploadSlack)/1024))
	recruiterOrAdmin := middleware.RequireRoles(model.RoleRecruiter, model.RoleAdmin)

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET(cfg.Metrics.Path, echo.WrapHandler(prometheus.GetPrometheusHandler()))

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, jwtAuth)

	jobsGroup := e.Group("/jobs")
	jobsGroup.GET("", jobHandler.List, optionalAuth)
	jobsGroup.GET("/mine", jobHandler.Mine, jwtAuth, middleware.RequireRoles(model.RoleRecruiter))
	jobsGroup.GET("/:id", jobHandler.Get, optionalAuth)
	jobsGroup.POST("", jobHandler.Create, jwtAuth, middleware.RequireRoles(model.RoleRecruiter))
	jobsGroup.PUT("/:id", jobHandler.Update, jwtAuth, recruiterOrAdmin)
	jobsGroup.PUT("/:id/status", jobHandler.SetStatus, jwtAuth, middleware.RequireRoles(model.RoleAdmin))
	jobsGroup.DELETE("/:id", jobHandler.Delete, jwtAuth, recruiterOrAdmin)

	companiesGroup := e.Group("/companies", jwtAuth)
	companiesGroup.POST("", companyHandler.Create, recruiterOrAdmin)
	companiesGroup.GET("/mine", companyHandler.Mine, middleware.RequireRoles(model.RoleRecruiter))
	companiesGroup.GET("", companyHandler.List, middleware.RequireRoles(model.RoleAdmin))
	companiesGroup.PUT("/:id/status", companyHandler.SetStatus, middleware.RequireRoles(model.RoleAdmin))

	applicationsGroup := e.Group("/applications", jwtAuth)
	applicationsGroup.POST("", applicationHandler.Apply, uploadLimit, middleware.RequireRoles(model.RoleStudent))
	applicationsGroup.GET("", applicationHandler.List)
	applicationsGroup.PUT("/:id/status", applicationHandler.SetStatus, recruiterOrAdmin)
	applicationsGroup.GET("/:id/cv", applicationHandler.DownloadCV, recruiterOrAdmin)

	admin := e.Group("/admin", jwtAuth, middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/jobs/pending", adminHandler.PendingJobs)
	admin.GET("/jobs/stats", adminHandler.JobStats)
	admin.GET("/audit-logs", adminHandler.AuditLogs)

	studentOnly := middleware.RequireRoles(model.RoleStudent)
	profile := e.Group("/student-profile", jwtAuth)
	profile.GET("/me", profileHandler.Get, studentOnly)
	profile.PUT("/me", profileHandler.Upsert, studentOnly)
	profile.POST("/me/cv", profileHandler.UploadCV, uploadLimit, studentOnly)
	profile.GET("/:id/cv", profileHandler.DownloadCV, recruiterOrAdmin)

	// Start server
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if cron != nil {
		if err := cron.Stop(shutdownCtx); err != nil {
			log.Warn("Expiration sweep did not stop in time", zap.Error(err))
		}
	}
}
