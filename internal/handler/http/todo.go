package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/middleware"
	"todolist-web/internal/service"
)

// TodoHandler 封装了清单和任务的 HTTP 处理逻辑
type TodoHandler struct {
	todoService *service.TodoService
}

// NewTodoHandler 创建 TodoHandler 实例
func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// Home 渲染首页：所有清单以及新建清单表单
func (h *TodoHandler) Home(c *gin.Context) {
	h.renderHome(c, http.StatusOK, gin.H{})
}

// CreateList 处理新建清单表单
func (h *TodoHandler) CreateList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c) // RequireLogin 已保证存在

	var form ListForm
	if fieldErrors := bindForm(c, &form); len(fieldErrors) > 0 {
		h.renderHome(c, http.StatusBadRequest, gin.H{
			"Form":   map[string]string{"title": form.Title},
			"Errors": fieldErrors,
		})
		return
	}

	if _, err := h.todoService.CreateList(c.Request.Context(), user.ID, form.Title); err != nil {
		if errors.Is(err, service.ErrListTitleTaken) {
			middleware.AddFlash(c, middleware.FlashError, "You already have this list!")
			redirect(c, "/")
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirect(c, "/")
}

// ShowList 渲染清单详情 (首页布局 + 任务列表)
func (h *TodoHandler) ShowList(c *gin.Context) {
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	detail, err := h.todoService.GetList(c.Request.Context(), listID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	user, loggedIn := middleware.CurrentUser(c)
	h.renderHome(c, http.StatusOK, gin.H{
		"Title":   detail.List.Title,
		"List":    detail.List,
		"Tasks":   detail.Tasks,
		"CanEdit": loggedIn && detail.List.OwnedBy(user.ID),
	})
}

// AddTask 在清单中添加任务
func (h *TodoHandler) AddTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}

	var form TaskForm
	if fieldErrors := bindForm(c, &form); len(fieldErrors) > 0 {
		middleware.AddFlash(c, middleware.FlashError, "Task title: "+firstError(fieldErrors))
		redirect(c, listURL(listID))
		return
	}

	if _, err := h.todoService.AddTask(c.Request.Context(), user.ID, listID, form.Title); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirect(c, listURL(listID))
}

// DoneTask 翻转任务的完成状态
func (h *TodoHandler) DoneTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	taskID, listID, ok := taskAndListIDs(c)
	if !ok {
		return
	}
	if _, err := h.todoService.ToggleTask(c.Request.Context(), user.ID, taskID, listID); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirect(c, listURL(listID))
}

// DeleteTask 删除任务
func (h *TodoHandler) DeleteTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	taskID, listID, ok := taskAndListIDs(c)
	if !ok {
		return
	}
	if err := h.todoService.DeleteTask(c.Request.Context(), user.ID, taskID, listID); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirect(c, listURL(listID))
}

// DeleteList 删除清单及其所有任务
func (h *TodoHandler) DeleteList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	if err := h.todoService.DeleteList(c.Request.Context(), user.ID, listID); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirect(c, "/")
}

// renderHome 加载全部清单后渲染 index.html
func (h *TodoHandler) renderHome(c *gin.Context, status int, data gin.H) {
	lists, err := h.todoService.AllLists(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	data["Lists"] = lists
	render(c, status, "index.html", data)
}

// --- 私有辅助函数 ---

// pathID 解析路径中的正整数 ID，非法时渲染 404
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logrus.WithField(name, raw).Debug("Invalid id in path")
		ErrorPage(c, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return uint(id), true
}

func taskAndListIDs(c *gin.Context) (uint, uint, bool) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return 0, 0, false
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return 0, 0, false
	}
	return taskID, listID, true
}

func listURL(listID uint) string {
	return fmt.Sprintf("/list/%d", listID)
}

func firstError(fieldErrors map[string]string) string {
	for _, msg := range fieldErrors {
		return msg
	}
	return ""
}
