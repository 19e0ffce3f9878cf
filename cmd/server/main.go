package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"ember-server/internal/config"
	"ember-server/internal/handler"
	"ember-server/internal/middleware"
	"ember-server/internal/service"
	"ember-server/internal/storage"
	"ember-server/internal/ws"
	sharedLogger "ember-server/pkg/logger"
)

func main() {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// 2. Инициализация логгера
	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("port", cfg.ServerPort),
		zap.String("db_path", cfg.DBPath),
	)

	// 3. Хранилище состояния
	repo, err := storage.NewBoltStateRepository(cfg.DBPath, logger.Named("BoltStateRepository"))
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close state store", zap.Error(err))
		}
	}()

	// 4. Сервис состояния: поднимаем сохранённое состояние до приёма трафика
	stateService := service.NewStateService(repo, logger.Named("StateService"))
	stateService.Initialize(context.Background())

	// 5. WebSocket-менеджер для рассылки снапшотов
	hub := ws.NewManager(logger.Named("WSManager"))

	stateHandler := handler.NewStateHandler(stateService, hub, cfg.GetAllowedOrigins(), logger.Named("StateHandler"))

	// 6. Настройка Gin
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true

	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Prometheus-метрики
	p := ginprometheus.NewPrometheus("gin")

	// CORS
	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) == 0 {
		logger.Warn("CORS_ALLOWED_ORIGINS is not set, falling back to localhost defaults")
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Health check
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	stateHandler.RegisterRoutes(router)

	// Регистрируем экспортёр после роутов, чтобы он видел их полный список
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
