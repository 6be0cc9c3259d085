package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/domain"
	"todolist-web/internal/service"
)

const (
	// SessionCookieName 是保存会话令牌的 Cookie 名
	SessionCookieName = "session"
	currentUserKey    = "current_user"
)

// SessionResolver 把会话令牌解析为用户 (由 service.AuthService 实现)。
// 令牌本身无效时返回 service.ErrInvalidSession，其他错误视为暂时故障。
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// Session 返回一个 Gin 中间件：从 Cookie 中读取会话令牌并解析出当前用户，
// 放入请求上下文。没有令牌或令牌无效时请求以匿名身份继续。
func Session(resolver SessionResolver, secure bool) gin.HandlerFunc {
	if resolver == nil {
		panic("SessionResolver cannot be nil for Session middleware")
	}
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidSession) {
				// 无效或已注销的令牌：清除 Cookie，按匿名处理
				logrus.WithError(err).Debug("Session middleware: dropping invalid session")
				ClearSessionCookie(c, secure)
			} else {
				// 存储暂时不可用：保留 Cookie，本次请求按匿名处理
				logrus.WithError(err).Error("Session middleware: failed to resolve session, keeping cookie")
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		logrus.WithField("user_id", user.ID).Debug("Session middleware: user authenticated via cookie")
		c.Next()
	}
}

// CurrentUser 返回当前请求的已认证用户
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// RequireLogin 对匿名请求闪现提示并重定向到登录页
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			logrus.WithField("path", c.Request.URL.Path).Debug("RequireLogin: anonymous request redirected to login")
			AddFlash(c, FlashError, "Please log in first.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie 写入会话 Cookie，有效期与令牌一致
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie 删除会话 Cookie
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// ErrNoSession 表示请求没有携带会话 Cookie
var ErrNoSession = errors.New("no session cookie")

// SessionToken 返回请求携带的会话令牌
func SessionToken(c *gin.Context) (string, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return "", ErrNoSession
	}
	return token, nil
}
