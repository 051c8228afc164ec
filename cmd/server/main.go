package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifeos/agent-api/internal/agent"
	"github.com/lifeos/agent-api/internal/chat"
	"github.com/lifeos/agent-api/internal/config"
	"github.com/lifeos/agent-api/internal/events"
	"github.com/lifeos/agent-api/internal/logger"
	"github.com/lifeos/agent-api/internal/metrics"
	"github.com/lifeos/agent-api/internal/records"
	"github.com/lifeos/agent-api/internal/save"
	"github.com/lifeos/agent-api/internal/storage/pg"
	"github.com/lifeos/agent-api/internal/streaming"
	"github.com/rs/cors"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	gin.SetMode(cfg.GinMode)

	db, err := pg.InitDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	classifierCfg, err := config.LoadClassifierConfig(cfg.ClassifierConfigPath)
	if err != nil {
		log.Error("failed to load classifier config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	classifier := agent.NewClassifier(classifierCfg)

	// Event bus is optional: a broken NATS never blocks the API.
	nc, err := events.Connect(cfg.NatsURL, log)
	if err != nil {
		log.Warn("event bus unavailable, continuing without it", slog.String("error", err.Error()))
	}
	publisher := events.NewPublisher(nc, log)
	defer publisher.Close()

	streamClient := streaming.NewClient(
		cfg.OrchestratorURL,
		time.Duration(cfg.StreamReadTimeoutMinutes)*time.Minute,
		log,
	)

	// Saves loop back to this server's own records endpoints unless a
	// separate records deployment is configured.
	recordsBase := cfg.RecordsAPIURL
	if recordsBase == "" {
		recordsBase = "http://localhost:" + cfg.Port
	}
	saver := save.NewOrchestrator(save.NewRecordsClient(recordsBase, log), log)

	recordsService := records.NewService(db.DB, log)
	chatService := chat.NewService(db.DB, log)

	recordsHandler := records.NewHandler(recordsService)
	chatHandler := chat.NewHandler(chatService, streamClient, classifier, saver, publisher, log)

	sweeper := chat.NewRetentionSweeper(chatService, cfg.SessionRetentionDays, cfg.RetentionCronSpec, log)
	if err := sweeper.Start(); err != nil {
		log.Error("failed to start retention sweeper", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api/v1")
	recordsHandler.RegisterRoutes(api)
	chatHandler.RegisterRoutes(api)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization"},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler.Handler(router),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()
	log.Info("agent API listening",
		slog.String("port", cfg.Port),
		slog.String("orchestrator", cfg.OrchestratorURL))

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server exited")
}
