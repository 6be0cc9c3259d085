package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist-web/internal/middleware"
)

// render 渲染页面，并补充所有模板共用的数据：登录状态、当前用户和闪现消息
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user, loggedIn := middleware.CurrentUser(c)
	data["LoggedIn"] = loggedIn
	data["CurrentUser"] = user
	data["Flashes"] = middleware.PopFlashes(c)
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(status, name, data)
}

// ErrorPage 渲染错误页
func ErrorPage(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

// redirect 使用 302，POST 之后浏览器会以 GET 跟随
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
