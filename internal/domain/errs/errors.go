package errs

import (
	"errors"
	"fmt"
)

// Kind 抓取错误的分类
type Kind string

const (
	KindNavigation       Kind = "navigation"
	KindResponseNotFound Kind = "response_not_found"
	KindMalformedPayload Kind = "malformed_payload"
	KindDetailFetch      Kind = "detail_fetch"
)

// 用 errors.Is 判断分类, 例如 errors.Is(err, errs.ErrResponseNotFound)
var (
	ErrNavigation       = errors.New("navigation failure")
	ErrResponseNotFound = errors.New("response not found")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrDetailFetch      = errors.New("detail fetch failure")
)

// CrawlError 带分类和上下文的抓取错误
type CrawlError struct {
	Kind    Kind
	URL     string
	Message string
	Err     error
}

func (e *CrawlError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CrawlError) Unwrap() error {
	return e.Err
}

// Is 让 CrawlError 与对应分类的哨兵错误匹配
func (e *CrawlError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindNavigation:
		return ErrNavigation
	case KindResponseNotFound:
		return ErrResponseNotFound
	case KindMalformedPayload:
		return ErrMalformedPayload
	case KindDetailFetch:
		return ErrDetailFetch
	default:
		return nil
	}
}

func New(kind Kind, url, message string, err error) *CrawlError {
	return &CrawlError{Kind: kind, URL: url, Message: message, Err: err}
}

// NewNavigation 页面导航没有完成
func NewNavigation(url string, err error) *CrawlError {
	return New(KindNavigation, url, "导航失败", err)
}

// NewResponseNotFound 超时前没有等到匹配 urlPattern 的响应
func NewResponseNotFound(url, urlPattern string, err error) *CrawlError {
	return New(KindResponseNotFound, url, fmt.Sprintf("未捕获到匹配 %q 的响应", urlPattern), err)
}

// NewMalformedPayload 响应体不是预期的JSON结构
func NewMalformedPayload(url, message string, err error) *CrawlError {
	return New(KindMalformedPayload, url, message, err)
}

// NewDetailFetch 单条记录的详情抓取失败
func NewDetailFetch(url string, docID int64, err error) *CrawlError {
	return New(KindDetailFetch, url, fmt.Sprintf("详情抓取失败 docid=%d", docID), err)
}

// KindOf 返回错误链上第一个 CrawlError 的分类
func KindOf(err error) (Kind, bool) {
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
