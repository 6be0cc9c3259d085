// Package web 内嵌了页面模板。
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 解析全部内嵌模板，供 gin.Engine.SetHTMLTemplate 使用
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"dict": dict,
	}).ParseFS(templateFS, "templates/*.html")
}

// dict 把键值对组装成 map，用于给子模板传多个参数
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
