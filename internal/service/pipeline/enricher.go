package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/cache"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DetailEnricher 为进行中的记录抓取详情正文
type DetailEnricher struct {
	browser chrome.Browser
	cache   *cache.ReadThrough
	cleaner *ContentCleaner
	baseURL string
	timeout time.Duration
	// 同时打开的详情页上限, <=0 不限制
	maxPages int
	log      *logger.Logger
}

// DefaultDetailTimeout timeout 未设置时使用,详情抓取不随单个请求取消,必须有上限
const DefaultDetailTimeout = 20 * time.Second

func NewDetailEnricher(browser chrome.Browser, rt *cache.ReadThrough, baseURL string, timeout time.Duration, maxPages int) *DetailEnricher {
	if timeout <= 0 {
		timeout = DefaultDetailTimeout
	}
	return &DetailEnricher{
		browser:  browser,
		cache:    rt,
		cleaner:  NewContentCleaner(baseURL),
		baseURL:  baseURL,
		timeout:  timeout,
		maxPages: maxPages,
		log:      logger.For("enricher"),
	}
}

// EnrichAll 并发处理所有记录,返回结果与输入顺序一致。
// 单条失败只影响该条的描述
func (e *DetailEnricher) EnrichAll(ctx context.Context, ch *Channel, records []entity.RawRecord) []model.FeedItem {
	items := make([]model.FeedItem, len(records))
	var g errgroup.Group
	if e.maxPages > 0 {
		g.SetLimit(e.maxPages)
	}
	for i := range records {
		g.Go(func() error {
			items[i] = e.Enrich(ctx, ch, &records[i])
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (e *DetailEnricher) Enrich(ctx context.Context, ch *Channel, r *entity.RawRecord) model.FeedItem {
	item := baseItem(ch, e.baseURL, r)
	item.Updated = ch.openUpdated(r)

	desc, err := e.cache.TryGet(ctx, ch.CacheKey(r), func(ctx context.Context) (string, error) {
		return e.fetchDetail(ctx, ch, item.Link, r.DocID)
	})
	if err != nil {
		e.log.Warn().Err(err).
			Str("channel", ch.Name).
			Int64("docid", r.DocID).
			Msg("detail fetch failed, using degraded description")
		item.Description = DegradedDescription(err)
		item.Degraded = true
		return item
	}
	item.Description = desc
	return item
}

func (e *DetailEnricher) fetchDetail(ctx context.Context, ch *Channel, link string, docID int64) (string, error) {
	page, err := e.browser.NewPage(ctx)
	if err != nil {
		return "", errs.NewDetailFetch(link, docID, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			e.log.Debug().Err(err).Str("url", link).Msg("close detail page")
		}
	}()

	start := time.Now()
	env, err := capture[entity.DetailContent](ctx, page, link, ch.DetailPattern, e.timeout)
	if err != nil {
		return "", errs.NewDetailFetch(link, docID, err)
	}
	e.log.Debug().
		Str("channel", ch.Name).
		Int64("docid", docID).
		Dur("elapsed", time.Since(start)).
		Msg("detail fetched")
	return e.cleaner.Clean(env.Obj), nil
}

// DegradedDescription 详情抓取失败时的占位描述
func DegradedDescription(err error) string {
	return fmt.Sprintf("详情内容获取失败（%s），请访问原文链接查看。", failureReason(err))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrResponseNotFound), errors.Is(err, context.DeadlineExceeded):
		return "等待详情数据超时"
	case errors.Is(err, errs.ErrNavigation):
		return "页面打开失败"
	case errors.Is(err, errs.ErrMalformedPayload):
		return "详情数据格式错误"
	case errors.Is(err, context.Canceled):
		return "请求已取消"
	default:
		return "未知错误"
	}
}
