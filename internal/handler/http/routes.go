package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist-web/internal/middleware"
)

// RegisterRoutes 注册所有页面路由。
// 修改数据的路由都要求登录；依赖 Session 和 Flash 中间件已安装在上层。
func RegisterRoutes(r gin.IRouter, authHandler *AuthHandler, todoHandler *TodoHandler) {
	r.GET("/", todoHandler.Home)
	r.GET("/list/:listId", todoHandler.ShowList)

	authed := r.Group("/", middleware.RequireLogin())
	{
		authed.POST("/", todoHandler.CreateList)
		authed.POST("/add/:listId", todoHandler.AddTask)
		authed.GET("/done/:taskId/:listId", todoHandler.DoneTask)
		authed.GET("/delete/:taskId/:listId", todoHandler.DeleteTask)
		authed.GET("/delete_list/:listId", todoHandler.DeleteList)
	}

	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)

	r.GET("/ping", Ping)
}

// Ping 健康检查
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
