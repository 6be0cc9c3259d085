package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/service"
)

// HandleServiceError 把 Service 层错误映射为错误页
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrListNotFound):
		ErrorPage(c, http.StatusNotFound, "This to-do list does not exist.")
	case errors.Is(err, service.ErrTaskNotFound):
		ErrorPage(c, http.StatusNotFound, "This task does not exist.")
	case errors.Is(err, service.ErrForbidden):
		ErrorPage(c, http.StatusForbidden, "This to-do list belongs to another user.")
	case errors.Is(err, service.ErrInvalidInput):
		ErrorPage(c, http.StatusBadRequest, "Invalid input.")
	default:
		// 记录内部错误，页面上不暴露细节
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled internal server error")
		ErrorPage(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
