package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	httpHandler "todolist-web/internal/handler/http"
	"todolist-web/internal/middleware"
	"todolist-web/internal/service"
	"todolist-web/internal/web"
)

// NewRouter 组装 Gin Engine：中间件、模板和页面路由。
// redisClient 为 nil 时不启用速率限制。
func NewRouter(cfg *Config, log *logrus.Logger, authService *service.AuthService, todoService *service.TodoService, redisClient *redis.Client) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))

	// --- 应用其他中间件 ---
	if redisClient != nil && cfg.RateLimitMax > 0 && cfg.RateLimitWindow > 0 {
		router.Use(middleware.RateLimit(redisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
		log.Infof("Rate limit enabled (%d requests / %s)", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	secure := cfg.IsProduction()
	router.Use(middleware.Flash(cfg.SecretKey, secure))
	router.Use(middleware.Session(authService, secure))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// --- 设置路由 ---
	authHandler := httpHandler.NewAuthHandler(authService, secure)
	todoHandler := httpHandler.NewTodoHandler(todoService)
	httpHandler.RegisterRoutes(router, authHandler, todoHandler)
	return router, nil
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next() // 处理请求
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

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
