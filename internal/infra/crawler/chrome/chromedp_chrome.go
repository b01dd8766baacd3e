package chrome

import (
	"context"
	"fmt"
	"sync"

	"github.com/LouYuanbo1/rczpfeed/internal/config"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/types"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpBrowser struct {
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	browserCtx    context.Context
	browserCtxFuc context.CancelFunc
	log           *logger.Logger
}

type chromedpPage struct {
	pageCtx    context.Context
	pageCtxFuc context.CancelFunc
	log        *logger.Logger
}

// InitChromedpBrowser 启动浏览器, ctx 结束时浏览器随之退出
func InitChromedpBrowser(ctx context.Context, cfg *config.Config) (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
	)
	if cfg.Chromedp.DisableBlinkFeatures != "" {
		opts = append(opts, chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures))
	}
	if cfg.Chromedp.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Chromedp.UserDataDir))
	}
	if cfg.Chromedp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Chromedp.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	// 空的 Run 会真正启动浏览器
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	return &chromedpBrowser{
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		browserCtx:    browserCtx,
		browserCtxFuc: cancelBrowser,
		log:           logger.For("chromedp"),
	}, nil
}

func (cb *chromedpBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// 以浏览器上下文为父上下文创建的新上下文对应一个新标签页
	pageCtx, cancelPage := chromedp.NewContext(cb.browserCtx)
	if err := chromedp.Run(pageCtx, network.Enable()); err != nil {
		cancelPage()
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	return &chromedpPage{pageCtx: pageCtx, pageCtxFuc: cancelPage, log: cb.log}, nil
}

func (cb *chromedpBrowser) Close() error {
	cb.browserCtxFuc()
	cb.allocCtxFuc()
	return nil
}

func (cp *chromedpPage) LoadAndCapture(ctx context.Context, url, urlPattern string) (*types.NetworkResponse, error) {
	// runCtx 同时受页面生命周期和调用方的超时控制,取消它不会关闭标签页
	runCtx, cancel := context.WithCancel(cp.pageCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	matcher := compilePattern(urlPattern)
	respCh := make(chan *types.NetworkResponse, 1)
	var requestCache sync.Map

	chromedp.ListenTarget(runCtx, func(ev any) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if matcher.MatchString(ev.Response.URL) {
				requestCache.Store(ev.RequestID, ev.Response)
			}
		case *network.EventLoadingFinished:
			cached, ok := requestCache.LoadAndDelete(ev.RequestID)
			if !ok {
				return
			}
			// 监听回调中不能同步执行 CDP 命令
			go cp.fetchBody(runCtx, ev.RequestID, cached.(*network.Response), urlPattern, respCh)
		}
	})

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return nil, errs.NewResponseNotFound(url, urlPattern, ctx.Err())
		}
		return nil, errs.NewNavigation(url, err)
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-runCtx.Done():
		cause := ctx.Err()
		if cause == nil {
			cause = runCtx.Err()
		}
		return nil, errs.NewResponseNotFound(url, urlPattern, cause)
	}
}

func (cp *chromedpPage) fetchBody(ctx context.Context, requestID network.RequestID, resp *network.Response, urlPattern string, respCh chan<- *types.NetworkResponse) {
	c := chromedp.FromContext(ctx)
	body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(ctx, c.Target))
	if err != nil {
		cp.log.Warn().Err(err).Str("request_id", string(requestID)).Msg("get response body failed")
		return
	}
	select {
	case respCh <- &types.NetworkResponse{
		Url:        resp.URL,
		UrlPattern: urlPattern,
		Status:     int(resp.Status),
		Body:       body,
	}:
	default:
	}
}

// Close 取消页面上下文即关闭标签页
func (cp *chromedpPage) Close() error {
	cp.pageCtxFuc()
	return nil
}
