package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/domain"
	"todolist-web/internal/middleware"
	"todolist-web/internal/service"
)

// AuthHandler 封装了注册、登录和退出登录的 HTTP 处理逻辑
type AuthHandler struct {
	authService   *service.AuthService
	secureCookies bool
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// ShowLogin 渲染登录页
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In"})
}

// Login 处理登录表单
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	// 1. 绑定并校验表单，失败时带字段错误重新渲染
	if fieldErrors := bindForm(c, &form); len(fieldErrors) > 0 {
		render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Log In",
			"Form":   map[string]string{"email": form.Email},
			"Errors": fieldErrors,
		})
		return
	}

	// 2. 校验邮箱和密码
	user, err := h.authService.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			middleware.AddFlash(c, middleware.FlashError, "Email doesn't exist. try again")
			redirect(c, "/login")
		case errors.Is(err, service.ErrIncorrectPassword):
			middleware.AddFlash(c, middleware.FlashError, "Incorrect Password")
			redirect(c, "/login")
		default:
			HandleServiceError(c, err)
		}
		return
	}

	// 3. 建立会话
	h.startSession(c, user)
}

// ShowRegister 渲染注册页
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register 处理注册表单，成功后直接登录
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if fieldErrors := bindForm(c, &form); len(fieldErrors) > 0 {
		render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Register",
			"Form":   map[string]string{"email": form.Email, "username": form.Username},
			"Errors": fieldErrors,
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), form.Email, form.Password, form.Username)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			middleware.AddFlash(c, middleware.FlashError, "You've already signed up with this email, log in instead!")
			redirect(c, "/login")
			return
		}
		HandleServiceError(c, err)
		return
	}

	h.startSession(c, user)
}

// Logout 注销当前会话并清除 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := middleware.SessionToken(c); err == nil {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			// 注销记录失败时仍然清除 Cookie
			logrus.WithError(err).Error("Handler.Logout: failed to revoke session")
		}
	}
	middleware.ClearSessionCookie(c, h.secureCookies)
	redirect(c, "/")
}

// startSession 签发会话令牌、写入 Cookie 并重定向到首页
func (h *AuthHandler) startSession(c *gin.Context, user *domain.User) {
	token, expiresAt, err := h.authService.IssueSession(user)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Handler: failed to issue session")
		HandleServiceError(c, err)
		return
	}
	middleware.SetSessionCookie(c, token, expiresAt, h.secureCookies)
	logrus.WithField("user_id", user.ID).Info("Handler: session started")
	redirect(c, "/")
}
