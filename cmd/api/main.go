package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/handler"
	"github.com/routinepro/routine-pro-api/internal/middleware"
	"github.com/routinepro/routine-pro-api/internal/repository"
	"github.com/routinepro/routine-pro-api/internal/service"
	"github.com/routinepro/routine-pro-api/pkg/cache"
	"github.com/routinepro/routine-pro-api/pkg/config"
	"github.com/routinepro/routine-pro-api/pkg/database"
	"github.com/routinepro/routine-pro-api/pkg/logger"
	corsmiddleware "github.com/routinepro/routine-pro-api/pkg/middleware/cors"
	reqidmiddleware "github.com/routinepro/routine-pro-api/pkg/middleware/requestid"
)

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

	// Postgres and Redis are optional: the engine and selection flows work
	// entirely in memory, persistence just survives restarts.
	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	validate := validator.New()

	var catalogStore *repository.CatalogRepository
	if db != nil {
		catalogStore = repository.NewCatalogRepository(db)
	}
	sessionStore := repository.NewSessionRepository(redisClient, logr, cfg.Routines.SessionTTL)

	metricsSvc := service.NewMetricsService()
	remapSvc := service.NewRemapService(validate, logr, cfg.Remap.FeatureEnabled)
	authSvc := service.NewAuthService(validate, logr, service.AuthServiceConfig{
		JWTSecret:         cfg.Auth.JWTSecret,
		TokenExpiration:   cfg.Auth.TokenExpiration,
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
	})

	var catalogSvc *service.CatalogService
	if catalogStore != nil {
		catalogSvc = service.NewCatalogService(catalogStore, validate, logr, service.CatalogServiceConfig{MaxUploadRows: cfg.Catalog.MaxUploadRows})
	} else {
		catalogSvc = service.NewCatalogService(nil, validate, logr, service.CatalogServiceConfig{MaxUploadRows: cfg.Catalog.MaxUploadRows})
	}
	sessionSvc := service.NewSessionService(catalogSvc, sessionStore, validate, logr, service.SessionServiceConfig{MaxSelection: cfg.Routines.MaxSelection})
	routineSvc := service.NewRoutineService(sessionSvc, remapSvc, metricsSvc, validate, logr, service.RoutineServiceConfig{ResultTTL: cfg.Routines.ResultTTL})

	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogSvc.Warm(warmCtx); err != nil {
		logr.Warn("catalog warm-up failed", zap.Error(err))
	}
	cancel()

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, routineSvc)
	selectionHandler := handler.NewSelectionHandler(sessionSvc, routineSvc)
	routineHandler := handler.NewRoutineHandler(routineSvc)
	remapHandler := handler.NewRemapHandler(remapSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/catalog", catalogHandler.List)
		api.GET("/catalog/meta", catalogHandler.Meta)

		api.GET("/selection", selectionHandler.Get)
		api.POST("/selection", selectionHandler.Add)
		api.DELETE("/selection", selectionHandler.Clear)
		api.DELETE("/selection/:index", selectionHandler.Remove)
		api.PUT("/selection/:index/section", selectionHandler.Reselect)
		api.POST("/selection/:index/pin", selectionHandler.TogglePin)
		api.POST("/selection/manual", selectionHandler.AddManual)
		api.PUT("/selection/manual/:index", selectionHandler.UpdateManual)
		api.PUT("/selection/remap", selectionHandler.SetCustomRemap)

		api.POST("/routines/generate", routineHandler.Generate)
		api.GET("/routines/results/:id", routineHandler.Browse)
		api.GET("/routines/results/:id/export", routineHandler.Export)
		api.GET("/routines/conflicts", routineHandler.Conflicts)
		api.GET("/routines/effective-times", routineHandler.EffectiveTimes)

		api.GET("/remap", remapHandler.Settings)

		admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireAdmin())
		{
			admin.POST("/catalog/import", catalogHandler.Import)
			admin.POST("/catalog/import-csv", catalogHandler.ImportCSV)
			admin.PUT("/remap", remapHandler.Upload)
			admin.PUT("/remap/toggle", remapHandler.Toggle)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
