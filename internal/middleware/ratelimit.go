package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// incrWindowScript 计数加一，只在窗口的第一次请求时设置过期时间。
// 没有 TTL 的旧 key 也补上过期时间，避免计数永不重置。
var incrWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) == -1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RateLimit 返回一个 Gin 中间件，用于基于客户端 IP 地址进行速率限制。
// redisClient: 用于存储计数器的 Redis 客户端实例，必须提供。
// maxRequests: 在指定时间窗口内允许的最大请求数。
// window: 速率限制的时间窗口。
func RateLimit(redisClient *redis.Client, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window < time.Millisecond {
		panic("window duration must be at least 1ms for RateLimit middleware")
	}

	return func(c *gin.Context) {
		key := keyPrefix + "ratelimit:" + c.ClientIP()
		ctx := c.Request.Context()

		// 固定窗口：过期时间从窗口内第一次请求开始计算，后续请求不会顺延
		count, err := incrWindowScript.Run(ctx, redisClient, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			// Redis 不可用时放行请求，只记录错误
			logrus.WithError(err).Error("RateLimit: Redis script failed")
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			logrus.WithFields(logrus.Fields{"client_ip": c.ClientIP(), "count": count}).Warn("RateLimit: too many requests")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(window.Seconds()))))
			c.String(http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
