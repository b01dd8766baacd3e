package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/chrome"
)

// capture 在 page 上导航到 url,等待匹配 urlPattern 的响应并解析为 Envelope[T]。
// 页面保持打开,由调用方关闭
func capture[T any](ctx context.Context, page chrome.Page, url, urlPattern string, timeout time.Duration) (*entity.Envelope[T], error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := page.LoadAndCapture(ctx, url, urlPattern)
	if err != nil {
		return nil, err
	}
	if resp.Status >= 400 {
		return nil, errs.NewMalformedPayload(resp.Url, fmt.Sprintf("响应状态码 %d", resp.Status), nil)
	}

	var env entity.Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, errs.NewMalformedPayload(resp.Url, "JSON解析失败", err)
	}
	if err := env.Validate(); err != nil {
		return nil, errs.NewMalformedPayload(resp.Url, "响应结构不符合预期", err)
	}
	return &env, nil
}
