package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/types"
)

const testBaseURL = "https://rczp.example.com/"

// fakeRoute 某个页面地址对应的行为
type fakeRoute struct {
	body   string
	navErr error
	// 为 true 时永远等不到响应,直到 ctx 结束
	hang  bool
	delay time.Duration
}

// fakeBrowser 记录页面的打开、关闭和导航次数
type fakeBrowser struct {
	mu          sync.Mutex
	routes      map[string]fakeRoute
	navigations map[string]int

	opened  atomic.Int32
	closed  atomic.Int32
	live    atomic.Int32
	maxLive atomic.Int32
	newErr  error
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{routes: map[string]fakeRoute{}, navigations: map[string]int{}}
}

func (b *fakeBrowser) route(url string, r fakeRoute) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[url] = r
}

func (b *fakeBrowser) navCount(url string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.navigations[url]
}

func (b *fakeBrowser) totalNavigations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.navigations {
		total += n
	}
	return total
}

func (b *fakeBrowser) NewPage(ctx context.Context) (chrome.Page, error) {
	if b.newErr != nil {
		return nil, b.newErr
	}
	b.opened.Add(1)
	live := b.live.Add(1)
	for {
		cur := b.maxLive.Load()
		if live <= cur || b.maxLive.CompareAndSwap(cur, live) {
			break
		}
	}
	return &fakePage{browser: b}, nil
}

func (b *fakeBrowser) Close() error { return nil }

type fakePage struct {
	browser *fakeBrowser
	closed  atomic.Bool
}

func (p *fakePage) LoadAndCapture(ctx context.Context, url, urlPattern string) (*types.NetworkResponse, error) {
	b := p.browser
	b.mu.Lock()
	b.navigations[url]++
	r, ok := b.routes[url]
	b.mu.Unlock()

	if !ok || r.hang {
		<-ctx.Done()
		return nil, errs.NewResponseNotFound(url, urlPattern, ctx.Err())
	}
	if r.navErr != nil {
		return nil, errs.NewNavigation(url, r.navErr)
	}
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, errs.NewResponseNotFound(url, urlPattern, ctx.Err())
		}
	}
	return &types.NetworkResponse{
		Url:        testBaseURL + "api/" + urlPattern,
		UrlPattern: urlPattern,
		Status:     200,
		Body:       []byte(r.body),
	}, nil
}

func (p *fakePage) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return errors.New("page closed twice")
	}
	p.browser.closed.Add(1)
	p.browser.live.Add(-1)
	return nil
}

type testRecord struct {
	ID      int64
	Parent  int64
	State   any
	Title   string
	Organ   string
	Pub     int64
	Oper    int64
	Invalid string
}

func listingBody(records ...testRecord) string {
	raw := make([]map[string]any, 0, len(records))
	for _, r := range records {
		raw = append(raw, map[string]any{
			"docid":       r.ID,
			"parentId":    r.Parent,
			"infostate":   r.State,
			"doctitle":    r.Title,
			"organ":       r.Organ,
			"docpubtime":  r.Pub,
			"opertime":    r.Oper,
			"invalidtime": r.Invalid,
			"gwcounts":    "3",
			"gwsums":      "10",
		})
	}
	body, _ := json.Marshal(map[string]any{
		"msg":     "",
		"status":  "200",
		"success": true,
		"obj":     map[string]any{"records": raw, "total": len(raw)},
	})
	return string(body)
}

func detailBody(html string) string {
	body, _ := json.Marshal(map[string]any{
		"msg":     "",
		"status":  "200",
		"success": true,
		"obj":     map[string]any{"content": "plain", "htmlcontent": html},
	})
	return string(body)
}

func detailURL(ch *Channel, parent, id int64) string {
	return fmt.Sprintf("%s%s?parentId=%d&%s=%d", testBaseURL, ch.detailPath, parent, ch.detailIDParam, id)
}
