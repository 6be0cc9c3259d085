package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	gormpersistence "todolist-web/internal/infra/persistence/gorm"
	"todolist-web/internal/infra/setup"
	redisstate "todolist-web/internal/infra/state/redis"
	"todolist-web/internal/repository"
	"todolist-web/internal/service"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client // 未配置 REDIS_ADDR 时为 nil
	HttpServer  *http.Server
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		// 使用标准输出记录启动时错误，因为 logrus 可能还未完全配置
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger (各层通过 logrus 包级函数记录日志，这里配置标准 Logger)
	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel) // cfg.LogLevel 已被 LoadConfig 验证
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Infof("Logger initialized (Level: %s, Env: %s)", logLevel.String(), cfg.AppEnv)

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")

	var redisClient *redis.Client
	var sessions repository.SessionStore = repository.NopSessionStore{}
	if cfg.RedisAddr != "" {
		redisClient, err = setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		sessions = redisstate.NewRedisSessionStore(redisClient, cfg.KeyPrefix)
	} else {
		log.Warn("REDIS_ADDR not set: logout only clears the cookie and rate limiting is disabled")
	}

	// 4. 初始化 Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	listRepo := gormpersistence.NewGormTodoListRepository(db)
	taskRepo := gormpersistence.NewGormTaskRepository(db)

	// 5. 初始化 Services
	hasher, err := service.NewPasswordHasher(cfg.PasswordHasher, cfg.PBKDF2Iterations)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	authService, err := service.NewAuthService(userRepo, sessions, hasher, cfg.SecretKey, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	todoService := service.NewTodoService(listRepo, taskRepo)
	log.Info("Services initialized")

	// 6. 初始化 Gin Engine 和路由
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router, err := NewRouter(cfg, log, authService, todoService, redisClient)
	if err != nil {
		return nil, err
	}
	log.Info("Router setup complete")

	// 7. 初始化 HTTP Server
	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		HttpServer:  httpServer,
	}, nil
}

// Start 在后台 Goroutine 中启动 HTTP 服务器
func (a *App) Start() {
	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 优雅关闭 HTTP 服务器，等待进行中的请求完成
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 关闭 Redis 连接
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		} else {
			a.Log.Info("Redis connection closed.")
		}
	}

	// 3. 关闭数据库连接池
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		} else {
			a.Log.Info("Database connection closed.")
		}
	}

	a.Log.Info("Application shutdown complete.")
}
