package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// RegisterForm 是注册表单
type RegisterForm struct {
	Email    string `form:"email" binding:"required,notblank,max=191"`
	Password string `form:"password" binding:"required,notblank"`
	Username string `form:"username" binding:"required,notblank,max=100"`
}

// LoginForm 是登录表单
type LoginForm struct {
	Email    string `form:"email" binding:"required,notblank"`
	Password string `form:"password" binding:"required,notblank"`
}

// ListForm 是新建清单表单
type ListForm struct {
	Title string `form:"title" binding:"required,notblank,max=100"`
}

// TaskForm 是新建任务表单
type TaskForm struct {
	Title string `form:"title" binding:"required,notblank,max=200"`
}

var setupValidatorOnce sync.Once

// setupValidator 让校验错误使用表单字段名，并注册 notblank 规则 (只含空白也视为空)
func setupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logrus.Error("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			logrus.WithError(err).Error("failed to register notblank validation")
		}
	})
}

// bindForm 绑定并校验表单。
// 返回字段名到错误提示的映射，为空表示校验通过。
func bindForm(c *gin.Context, form interface{}) map[string]string {
	setupValidator()
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil
	}

	fieldErrors := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, exists := fieldErrors[fe.Field()]; !exists {
				fieldErrors[fe.Field()] = validationMessage(fe)
			}
		}
		return fieldErrors
	}
	// 非校验错误 (例如请求体无法解析)
	logrus.WithError(err).Warn("bindForm: malformed form submission")
	fieldErrors["_form"] = "Invalid form submission."
	return fieldErrors
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
