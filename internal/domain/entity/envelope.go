package entity

import (
	"errors"
	"fmt"
)

// Envelope 接口统一的外层结构 { msg, status, success, obj }
type Envelope[T any] struct {
	Msg     string `json:"msg"`
	Status  any    `json:"status"`
	Success bool   `json:"success"`
	Obj     *T     `json:"obj"`
}

// Validate 检查外层结构是否可用
func (e *Envelope[T]) Validate() error {
	if !e.Success {
		return fmt.Errorf("API返回失败: status=%v msg=%q", e.Status, e.Msg)
	}
	if e.Obj == nil {
		return errors.New("API返回缺少 obj 字段")
	}
	return nil
}

// RecordPage 列表接口的 obj
type RecordPage struct {
	Records []RawRecord `json:"records"`
	Total   int         `json:"total"`
}

// DetailContent 详情接口的 obj
type DetailContent struct {
	// 无html标签的正文
	Content string `json:"content"`
	// 带html标签的正文
	HTMLContent string `json:"htmlcontent"`
}
