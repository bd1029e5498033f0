// Package bootstrap wires configuration, infrastructure, services, handlers
// and background workers into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/vinay-ml/RetroSphere/internal/handler/http"
	wsHandler "github.com/vinay-ml/RetroSphere/internal/handler/websocket"
	"github.com/vinay-ml/RetroSphere/internal/hub"
	gormpersistence "github.com/vinay-ml/RetroSphere/internal/infra/persistence/gorm"
	"github.com/vinay-ml/RetroSphere/internal/infra/setup"
	redisstate "github.com/vinay-ml/RetroSphere/internal/infra/state/redis"
	"github.com/vinay-ml/RetroSphere/internal/middleware"
	"github.com/vinay-ml/RetroSphere/internal/service"
	"github.com/vinay-ml/RetroSphere/internal/tasks"
	"github.com/vinay-ml/RetroSphere/internal/worker"
)

// Config holds everything loaded from the environment.
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ServerPort      string
	LogLevel        string
	AppEnv          string // development/production
	KeyPrefix       string // Redis key namespace
	RateLimitMax    int
	RateLimitWindow time.Duration
	CacheTTL        time.Duration
	CORSOrigin      string
	KeepAliveURL    string        // external URL the keepalive task pings; empty disables it
	BoardRetention  time.Duration // boards idle longer than this get cleaned up
}

// LoadConfig reads configuration from the environment, preferring a local
// .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // optional; plain env vars work too

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
		CORSOrigin:    os.Getenv("CORS_ALLOWED_ORIGIN"),
		KeepAliveURL:  os.Getenv("KEEPALIVE_URL"),
		// Defaults.
		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
		CacheTTL:        10 * time.Minute,
		BoardRetention:  30 * 24 * time.Hour,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB")) // empty means DB 0

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rs:"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}

	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if max, err := strconv.Atoi(v); err == nil && max > 0 {
			cfg.RateLimitMax = max
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.RateLimitWindow = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.CacheTTL = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("BOARD_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.BoardRetention = time.Duration(days) * 24 * time.Hour
		}
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App holds the assembled application components.
type App struct {
	Config         *Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	AsynqClient    *asynq.Client
	AsynqServer    *worker.WorkerServer
	Hub            *hub.Hub
	HttpServer     *http.Server
	redisClientOpt asynq.RedisClientOpt
	scheduler      *asynq.Scheduler
}

// NewApp creates and wires all application components.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Asynq client initialized")

	log.Info("Initializing repositories...")
	boardRepo := gormpersistence.NewGormBoardRepository(db)
	boardCache := redisstate.NewRedisBoardCache(redisClient, cfg.KeyPrefix)

	log.Info("Initializing hub...")
	hubInstance := hub.NewHub(hub.NewPresenceTracker())

	log.Info("Initializing services...")
	boardService := service.NewBoardService(boardRepo, boardCache, hubInstance, cfg.CacheTTL)
	feedbackService := service.NewFeedbackService(boardRepo, boardCache, hubInstance, cfg.CacheTTL)
	membershipService := service.NewMembershipService(boardRepo, boardCache, hubInstance, cfg.CacheTTL)

	log.Info("Initializing handlers...")
	boardHandler := httpHandler.NewBoardHandler(boardService)
	feedbackHandler := httpHandler.NewFeedbackHandler(feedbackService, boardService)
	commentHandler := httpHandler.NewCommentHandler(feedbackService)
	memberHandler := httpHandler.NewMemberHandler(membershipService)
	webSocketHandler := wsHandler.NewWebSocketHandler(hubInstance, boardService, cfg.CORSOrigin)

	log.Info("Initializing worker server...")
	workerServer := worker.NewWorkerServer(redisClientOpt, boardRepo, boardCache, hubInstance, log)

	log.Info("Setting up Gin router...")
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.RateLimit(redisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))

	boardRoutes := router.Group("/boards")
	{
		boardRoutes.POST("", boardHandler.Create)
		boardRoutes.GET("", boardHandler.List)
		boardRoutes.GET("/:boardId", boardHandler.Get)
		boardRoutes.PUT("/:boardId", boardHandler.Update)
		boardRoutes.DELETE("/:boardId", boardHandler.Delete)

		boardRoutes.POST("/:boardId/feedback", feedbackHandler.Add)
		boardRoutes.GET("/:boardId/feedback", feedbackHandler.List)
		boardRoutes.PUT("/:boardId/feedback/:feedbackId", feedbackHandler.Update)
		boardRoutes.DELETE("/:boardId/feedback/:feedbackId", feedbackHandler.Delete)
		boardRoutes.POST("/:boardId/feedback/:feedbackId/like", feedbackHandler.Like)
		boardRoutes.POST("/:boardId/feedback/:feedbackId/dislike", feedbackHandler.Dislike)

		boardRoutes.POST("/:boardId/feedback/:feedbackId/comments", commentHandler.Add)
		boardRoutes.PUT("/:boardId/feedback/:feedbackId/comments/:commentId", commentHandler.Update)
		boardRoutes.DELETE("/:boardId/feedback/:feedbackId/comments/:commentId", commentHandler.Delete)
		boardRoutes.POST("/:boardId/feedback/:feedbackId/comments/:commentId/like", commentHandler.Like)
		boardRoutes.POST("/:boardId/feedback/:feedbackId/comments/:commentId/dislike", commentHandler.Dislike)
	}
	router.POST("/join/:boardId", memberHandler.Join)
	router.GET("/ws", webSocketHandler.HandleConnection)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	app := &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		AsynqServer:    workerServer,
		Hub:            hubInstance,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}
	log.Info("Application assembled successfully")
	return app, nil
}

// Start launches the hub, the worker, the periodic tasks and the HTTP server.
func (a *App) Start() {
	a.Log.Info("Starting application background routines...")
	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

func (a *App) registerPeriodicTasks() {
	a.scheduler = asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})

	if a.Config.KeepAliveURL != "" {
		payload, err := tasks.NewBoardKeepAliveTask(a.Config.KeepAliveURL)
		if err != nil {
			a.Log.Errorf("Failed to create keepalive task payload: %v", err)
		} else {
			task := asynq.NewTask(tasks.TypeBoardKeepAlive, payload)
			entryID, err := a.scheduler.Register("@every 10m", task, asynq.Queue("low"))
			if err != nil {
				a.Log.Errorf("Could not register keepalive task: %v", err)
			} else {
				a.Log.Infof("Keepalive task registered (EntryID: %s)", entryID)
			}
		}
	}

	payload, err := tasks.NewBoardCleanupTask(a.Config.BoardRetention)
	if err != nil {
		a.Log.Errorf("Failed to create cleanup task payload: %v", err)
	} else {
		task := asynq.NewTask(tasks.TypeBoardCleanup, payload)
		entryID, err := a.scheduler.Register("@daily", task, asynq.Queue("default"))
		if err != nil {
			a.Log.Errorf("Could not register cleanup task: %v", err)
		} else {
			a.Log.Infof("Cleanup task registered (EntryID: %s)", entryID)
		}
	}

	go func() {
		a.Log.Info("Asynq scheduler starting...")
		if err := a.scheduler.Run(); err != nil {
			if !errors.Is(err, asynq.ErrServerClosed) {
				a.Log.Errorf("Asynq scheduler Run() failed: %v", err)
			} else {
				a.Log.Info("Asynq scheduler stopped.")
			}
		}
	}()
}

// Shutdown stops all components gracefully.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.scheduler != nil {
		a.scheduler.Shutdown()
	}
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	a.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware logs one line per handled request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage != "" {
			entry.Error(errorMessage)
		} else if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request handled")
		}
	}
}
