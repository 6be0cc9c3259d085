package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/service"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	DatabaseURL      string
	SecretKey        string
	ServerPort       string
	LogLevel         string
	AppEnv           string // 应用环境 (development/production)
	SessionTTL       time.Duration
	PasswordHasher   string // pbkdf2 / bcrypt
	PBKDF2Iterations int
	RedisAddr        string // 为空时不启用 Redis
	RedisPassword    string
	RedisDB          int
	KeyPrefix        string // Redis Key 前缀
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// IsProduction 生产环境使用 JSON 日志、release 模式和 Secure Cookie
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load() // 忽略错误，允许只使用环境变量

	cfg := &Config{
		DatabaseURL:    firstEnv("DATABASE_URL", "JAWSDB_URL"),
		SecretKey:      firstEnv("SECRET_KEY", "SECRETKEY"),
		ServerPort:     firstEnv("SERVER_PORT", "PORT"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		AppEnv:         os.Getenv("APP_ENV"),
		PasswordHasher: strings.ToLower(os.Getenv("PASSWORD_HASHER")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:      os.Getenv("REDIS_KEY_PREFIX"),
	}

	// --- 必填项检查 ---
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("environment variable DATABASE_URL must be set")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("environment variable SECRET_KEY must be set")
	}

	// --- 数值项 ---
	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	ttlHours, err := intEnv("SESSION_TTL_HOURS", 720)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour
	if cfg.PBKDF2Iterations, err = intEnv("PBKDF2_ITERATIONS", service.DefaultPBKDF2Iterations); err != nil {
		return nil, err
	}
	if cfg.RateLimitMax, err = intEnv("RATE_LIMIT_MAX", 100); err != nil {
		return nil, err
	}
	windowSeconds, err := intEnv("RATE_LIMIT_WINDOW_SECONDS", 1)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitWindow = time.Duration(windowSeconds) * time.Second

	// --- 设置其他默认值 ---
	if cfg.ServerPort == "" {
		cfg.ServerPort = "5000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development" // 默认开发环境
	}
	if cfg.PasswordHasher == "" {
		cfg.PasswordHasher = "pbkdf2"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "todo:" // 默认 key 前缀
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info" // 修正配置值
	}

	return cfg, nil
}

// firstEnv 返回第一个非空的环境变量
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("environment variable %s must be a non-negative integer, got %q", key, raw)
	}
	return v, nil
}
