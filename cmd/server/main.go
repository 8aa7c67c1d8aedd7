package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-control-plane/internal/adapters/primary/http/handlers"
	"model-control-plane/internal/adapters/primary/http/middleware"
	"model-control-plane/internal/adapters/secondary/kserve"
	"model-control-plane/internal/adapters/secondary/postgres"
	"model-control-plane/internal/adapters/secondary/rediscache"
	"model-control-plane/internal/config"
	output "model-control-plane/internal/core/ports/output"
	"model-control-plane/internal/core/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate db: %v", err)
		}
		log.Info("database schema up to date")
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	modelRepo := postgres.NewModelRepository(pool)
	versionRepo := postgres.NewModelVersionRepository(pool)
	artifactRepo := postgres.NewArtifactRepository(pool)
	runRepo := postgres.NewPipelineRunRepository(pool)
	deploymentRepo := postgres.NewDeploymentRepository(pool)

	// Version Cache (Optional - based on config)
	var versionCache output.VersionCache
	if cfg.Redis.Enabled {
		versionCache = rediscache.NewVersionCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		log.Info("Redis version cache initialized")
	} else {
		log.Info("Redis version cache disabled")
	}

	// KServe Client (Optional - based on config)
	var servingClient output.ServingClient
	if cfg.Kubernetes.Enabled {
		client, err := kserve.NewKServeClient(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("KServe client init failed (continuing without K8s integration): %v", err)
		} else {
			servingClient = client
			log.Info("KServe client initialized")
		}
	} else {
		log.Info("KServe integration disabled")
	}

	// Core Services (Application Layer)
	modelSvc := services.NewModelService(modelRepo, versionRepo, versionCache)
	versionSvc := services.NewModelVersionService(versionRepo, modelRepo, versionCache)
	artifactSvc := services.NewArtifactService(artifactRepo, versionRepo)
	runSvc := services.NewPipelineRunService(runRepo, versionRepo)
	deploySvc := services.NewDeployService(deploymentRepo, modelRepo, versionRepo, artifactRepo, servingClient)
	lineageSvc := services.NewLineageService(versionRepo, artifactRepo, runRepo)

	// Deployment status sync worker (Optional - based on config)
	var syncWorker *services.DeploymentSyncWorker
	if cfg.Sync.Enabled && servingClient != nil {
		syncWorker = services.NewDeploymentSyncWorker(deploymentRepo, servingClient, cfg.Sync.Interval, cfg.Sync.Concurrency)
		syncWorker.Start(context.Background())
		log.Info("deployment sync worker started")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(modelSvc, versionSvc, artifactSvc, runSvc, deploySvc, lineageSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	if cfg.CORS.Enabled {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORS.Origins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Workspace-ID", "X-Request-ID")
		router.Use(cors.New(corsCfg))
	}

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	if syncWorker != nil {
		syncWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
