package chrome

import (
	"context"
	"regexp"
	"strings"

	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/types"
)

// Browser 一个浏览器实例,可以并发地打开多个页面
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page 单个标签页,同一时间只由一个 goroutine 使用
type Page interface {
	// LoadAndCapture 导航到 url,等待 DOMContentLoaded,
	// 返回第一个 URL 匹配 urlPattern 的响应。超时由 ctx 控制
	LoadAndCapture(ctx context.Context, url, urlPattern string) (*types.NetworkResponse, error)
	Close() error
}

// globPattern 不含通配符的模式按子串匹配处理
func globPattern(urlPattern string) string {
	if strings.Contains(urlPattern, "*") {
		return urlPattern
	}
	return "*" + urlPattern + "*"
}

// compilePattern 把 glob 模式转换为正则, * 匹配任意字符
func compilePattern(urlPattern string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(globPattern(urlPattern))
	return regexp.MustCompile("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
}
