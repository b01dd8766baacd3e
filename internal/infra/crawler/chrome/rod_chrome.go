package chrome

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/config"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/options"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/types"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodBrowser struct {
	browser *rod.Browser
	// 被拦截的请求由这个客户端代为发出
	client *http.Client
	log    *logger.Logger
}

type rodPage struct {
	page   *rod.Page
	client *http.Client
	log    *logger.Logger
}

// InitRodBrowser 启动浏览器并建立连接
func InitRodBrowser(cfg *config.Config) (Browser, error) {
	l := options.CreateLauncher(cfg.Rod.UserMode,
		options.WithBin(cfg.Rod.Bin),
		options.WithUserDataDir(cfg.Rod.UserDataDir),
		options.WithHeadless(cfg.Rod.Headless),
		options.WithDisableBlinkFeatures(cfg.Rod.DisableBlinkFeatures),
		options.WithIncognito(cfg.Rod.Incognito),
		options.WithDisableDevShmUsage(cfg.Rod.DisableDevShmUsage),
		options.WithNoSandbox(cfg.Rod.NoSandbox),
		options.WithUserAgent(cfg.Rod.UserAgent),
		options.WithLeakless(cfg.Rod.Leakless),
		options.WithDisableBackgroundNetworking(cfg.Rod.DisableBackgroundNetworking),
		options.WithDisableBackgroundTimerThrottling(cfg.Rod.DisableBackgroundTimerThrottling),
		options.WithRemoteDebuggingPort(cfg.Rod.RemoteDebuggingPort),
	)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	log := logger.For("rod")
	log.Info().Str("control_url", controlURL).Msg("browser launched")

	browser := rod.New().
		ControlURL(controlURL).
		Trace(cfg.Rod.Trace)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	return &rodBrowser{
		browser: browser,
		client:  &http.Client{Timeout: cfg.DetailTimeout() + cfg.ListingTimeout()},
		log:     log,
	}, nil
}

func (rb *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := stealth.Page(rb.browser)
	if err != nil {
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	return &rodPage{page: page, client: rb.client, log: rb.log}, nil
}

func (rb *rodBrowser) Close() error {
	return rb.browser.Close()
}

func (rp *rodPage) LoadAndCapture(ctx context.Context, url, urlPattern string) (*types.NetworkResponse, error) {
	respCh := make(chan *types.NetworkResponse, 1)

	router := rp.page.HijackRequests()
	err := router.Add(globPattern(urlPattern), "", func(hijack *rod.Hijack) {
		if err := hijack.LoadResponse(rp.client, true); err != nil {
			rp.log.Warn().Err(err).Str("url", hijack.Request.URL().String()).Msg("load hijacked response failed")
			hijack.Response.Fail(proto.NetworkErrorReasonFailed)
			return
		}
		resp := &types.NetworkResponse{
			Url:        hijack.Request.URL().String(),
			UrlPattern: urlPattern,
			Status:     hijack.Response.Payload().ResponseCode,
			Body:       []byte(hijack.Response.Body()),
		}
		// 只保留第一个匹配的响应
		select {
		case respCh <- resp:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("设置响应拦截失败: %w", err)
	}
	go router.Run()
	defer func() {
		if err := router.Stop(); err != nil {
			rp.log.Debug().Err(err).Msg("stop hijack router")
		}
	}()

	page := rp.page.Context(ctx)
	waitDOM := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	start := time.Now()
	if err := page.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return nil, errs.NewResponseNotFound(url, urlPattern, ctx.Err())
		}
		return nil, errs.NewNavigation(url, err)
	}
	waitDOM()
	rp.log.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Msg("dom content loaded")

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return nil, errs.NewResponseNotFound(url, urlPattern, ctx.Err())
	}
}

func (rp *rodPage) Close() error {
	return rp.page.Close()
}
