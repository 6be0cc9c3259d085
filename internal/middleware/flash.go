package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// 闪现消息类别
const (
	FlashError = "error"
	FlashInfo  = "info"
)

const (
	flashCookieName = "flash"
	flashJarKey     = "flash_jar"
	flashTTL        = 5 * time.Minute
)

// FlashMessage 是一次性显示的提示消息
type FlashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashClaims struct {
	Messages []FlashMessage `json:"messages"`
	jwt.RegisteredClaims
}

// flashJar 保存本次请求读到的消息和新加入的消息
type flashJar struct {
	secret   []byte
	secure   bool
	incoming []FlashMessage
	pending  []FlashMessage
}

// Flash 返回一个 Gin 中间件：读取签名的闪现 Cookie，供 AddFlash / PopFlashes 使用。
// 签名无效或过期的 Cookie 会被忽略。
func Flash(secret string, secure bool) gin.HandlerFunc {
	if secret == "" {
		panic("secret cannot be empty for Flash middleware")
	}
	key := []byte(secret)
	return func(c *gin.Context) {
		jar := &flashJar{secret: key, secure: secure}
		if raw, err := c.Cookie(flashCookieName); err == nil && raw != "" {
			claims := &flashClaims{}
			parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return key, nil }); err == nil {
				jar.incoming = claims.Messages
			} else {
				logrus.WithError(err).Debug("Flash middleware: ignoring invalid flash cookie")
			}
		}
		c.Set(flashJarKey, jar)
		c.Next()
	}
}

// AddFlash 添加一条消息，下一个渲染的页面会显示它
func AddFlash(c *gin.Context, category, message string) {
	jar := getJar(c)
	if jar == nil {
		return
	}
	jar.pending = append(jar.pending, FlashMessage{Category: category, Message: message})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Messages: jar.pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(flashTTL)),
		},
	}).SignedString(jar.secret)
	if err != nil {
		logrus.WithError(err).Error("AddFlash: failed to sign flash cookie")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, token, int(flashTTL.Seconds()), "/", "", jar.secure, true)
}

// PopFlashes 返回所有待显示的消息并清除闪现 Cookie
func PopFlashes(c *gin.Context) []FlashMessage {
	jar := getJar(c)
	if jar == nil {
		return nil
	}
	messages := append(jar.incoming, jar.pending...)
	if len(messages) == 0 {
		return nil
	}
	jar.incoming, jar.pending = nil, nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, "", -1, "/", "", jar.secure, true)
	return messages
}

func getJar(c *gin.Context) *flashJar {
	v, ok := c.Get(flashJarKey)
	if !ok {
		logrus.Warn("Flash jar missing from context, is the Flash middleware installed?")
		return nil
	}
	jar, _ := v.(*flashJar)
	return jar
}
