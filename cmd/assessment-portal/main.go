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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/advisor-assessment/api/swagger"
	"github.com/noah-isme/advisor-assessment/internal/handler"
	"github.com/noah-isme/advisor-assessment/internal/middleware"
	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/internal/repository"
	"github.com/noah-isme/advisor-assessment/internal/service"
	"github.com/noah-isme/advisor-assessment/internal/view"
	"github.com/noah-isme/advisor-assessment/pkg/cache"
	"github.com/noah-isme/advisor-assessment/pkg/config"
	"github.com/noah-isme/advisor-assessment/pkg/database"
	"github.com/noah-isme/advisor-assessment/pkg/export"
	"github.com/noah-isme/advisor-assessment/pkg/logger"
	corsmiddleware "github.com/noah-isme/advisor-assessment/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/advisor-assessment/pkg/middleware/requestid"
)

// @title Advisor Assessment Portal
// @version 1.0.0
// @description Students rate their academic advisors each round; staff read the averages.
// @BasePath /api
// @schemes http https

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database unavailable", "error", err)
	}
	defer db.Close() //nolint:errcheck

	checks := map[string]handler.Pinger{"postgres": db.PingContext}

	var cacheRepo service.CacheRepository
	if cfg.Calculations.StatusCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, calculation status kept in memory", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Calculations.StatusTTL, logr, cfg.Calculations.StatusCacheEnabled)

	clients := database.NewFactory(db)
	accountRepo := repository.NewAccountRepository(clients)
	identityRepo := repository.NewIdentityRepository(clients)
	roundRepo := repository.NewRoundRepository(clients)
	answerRepo := repository.NewAnswerRepository(clients)
	profileRepo := repository.NewProfileRepository(clients)
	statsRepo := repository.NewStatisticsRepository(clients)

	roleSvc := service.NewRoleService(identityRepo, logr)
	authSvc := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{SessionTTL: cfg.Session.TTL})
	calculationSvc := service.NewCalculationService(service.CalculationServiceParams{
		Roles:   roleSvc,
		Answers: answerRepo,
		Stats:   statsRepo,
		Cache:   cacheSvc,
		Metrics: metricsSvc,
		Logger:  logr,
		Config:  service.CalculationServiceConfig{StatusTTL: cfg.Calculations.StatusTTL},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Identity: roleSvc,
		Profiles: profileRepo,
		Rounds:   roundRepo,
		Answers:  answerRepo,
		Stats:    statsRepo,
		Logger:   logr,
	})
	evaluationSvc := service.NewEvaluationService(roleSvc, profileRepo, roundRepo, answerRepo, validate, logr)
	roundSvc := service.NewRoundService(roundRepo, calculationSvc, validate, logr)
	if cfg.Reports.FontPath == "" {
		logr.Warn("REPORT_FONT_PATH not set, PDF reports fall back to a font without Thai glyphs")
	}
	reportSvc := service.NewReportService(dashboardSvc, roleSvc, export.NewCSVExporter(), export.NewPDFExporter(cfg.Reports.FontPath), logr)

	authHandler := handler.NewAuthHandler(authSvc, roleSvc, cfg.Session.CookieSecure)
	calculationHandler := handler.NewCalculationHandler(calculationSvc, validate)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc)
	roundHandler := handler.NewRoundHandler(roundSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Session(clients))
	r.SetHTMLTemplate(view.Must())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	r.GET("/", authHandler.Root)
	r.GET(models.LoginPath, authHandler.LoginPage)
	r.GET("/logout", authHandler.LogoutPage)

	student := r.Group("/dashboard", middleware.Area(roleSvc, models.RoleStudent))
	student.GET("", dashboardHandler.Student)
	student.GET("/evaluate/:roundId/:teacherId", evaluationHandler.Form)

	teacher := r.Group("/dashboard-teacher", middleware.Area(roleSvc, models.RoleTeacher))
	teacher.GET("", dashboardHandler.Teacher)
	teacher.GET("/report/:roundId/print", reportHandler.TeacherPrint)

	admin := r.Group("/admin", middleware.Area(roleSvc, models.RoleAdmin))
	admin.GET("", dashboardHandler.Admin)
	admin.GET("/statistics/:roundId/print", reportHandler.StatisticsPrint)
	admin.GET("/statistics/:roundId/export", reportHandler.StatisticsExport)

	executive := r.Group("/dashboard-executive", middleware.Area(roleSvc, models.RoleExecutive))
	executive.GET("", dashboardHandler.Executive)

	api := r.Group(cfg.APIPrefix)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	// The trigger answers 401/403 in its own flat shape, so it checks the role itself.
	api.POST("/calculate-averages", calculationHandler.Trigger)
	api.GET("/calculate-averages", calculationHandler.Trigger)

	adminAPI := api.Group("", middleware.RequireRole(roleSvc, models.RoleAdmin))
	adminAPI.GET("/calculate-averages/:roundId/status", calculationHandler.Status)
	adminAPI.GET("/rounds", roundHandler.List)
	adminAPI.POST("/rounds", roundHandler.Create)
	adminAPI.PUT("/rounds/:roundId", roundHandler.Update)
	adminAPI.DELETE("/rounds/:roundId", roundHandler.Delete)
	adminAPI.GET("/rounds/:roundId/questions", roundHandler.Questions)
	adminAPI.POST("/rounds/:roundId/questions", roundHandler.AddQuestion)
	adminAPI.DELETE("/questions/:id", roundHandler.DeleteQuestion)
	adminAPI.GET("/system/metrics", metricsHandler.Snapshot)

	studentAPI := api.Group("", middleware.RequireRole(roleSvc, models.RoleStudent))
	studentAPI.POST("/evaluations", evaluationHandler.Submit)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
