package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/cache"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
)

// Archiver 保存每次生成的 feed,失败不影响返回结果
type Archiver interface {
	Archive(ctx context.Context, channel string, feed *model.Feed) error
}

type Options struct {
	BaseURL        string
	SiteTitle      string
	ListingTimeout time.Duration
	DetailTimeout  time.Duration
	MaxDetailPages int
	// 可为空
	Archiver       Archiver
	ArchiveTimeout time.Duration
}

// FeedService 列表页抓取、分类、详情补全、组装
type FeedService struct {
	browser  chrome.Browser
	enricher *DetailEnricher
	channels map[string]*Channel
	order    []*Channel
	opts     Options
	archives sync.WaitGroup
	log      *logger.Logger
}

func NewFeedService(browser chrome.Browser, rt *cache.ReadThrough, opts Options, channels ...*Channel) *FeedService {
	if len(channels) == 0 {
		channels = DefaultChannels()
	}
	if opts.ArchiveTimeout <= 0 {
		opts.ArchiveTimeout = 30 * time.Second
	}
	byName := make(map[string]*Channel, len(channels))
	for _, ch := range channels {
		byName[ch.Name] = ch
	}
	return &FeedService{
		browser:  browser,
		enricher: NewDetailEnricher(browser, rt, opts.BaseURL, opts.DetailTimeout, opts.MaxDetailPages),
		channels: byName,
		order:    channels,
		opts:     opts,
		log:      logger.For("pipeline"),
	}
}

// Channels 按注册顺序返回
func (s *FeedService) Channels() []*Channel {
	return s.order
}

func (s *FeedService) Channel(name string) (*Channel, bool) {
	ch, ok := s.channels[name]
	return ch, ok
}

// Run 列表阶段的错误直接返回;详情阶段的错误只降级对应条目
func (s *FeedService) Run(ctx context.Context, channelName string) (*model.Feed, error) {
	ch, ok := s.channels[channelName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channelName)
	}
	start := time.Now()
	log := s.log.WithField("channel", ch.Name)

	records, err := s.fetchListing(ctx, ch)
	if err != nil {
		log.Error().Err(err).Msg("listing stage failed")
		return nil, err
	}

	open, closed, unknown := Classify(records)
	if len(unknown) > 0 {
		ids := make([]int64, 0, len(unknown))
		for _, r := range unknown {
			ids = append(ids, r.DocID)
		}
		log.Warn().Int("count", len(unknown)).Ints64("docids", ids).Msg("dropping records with unknown infostate")
	}

	closedItems := ClosedItems(ch, s.opts.BaseURL, closed)
	enriched := s.enricher.EnrichAll(ctx, ch, open)

	feed := Assemble(s.opts.SiteTitle+"|"+ch.DisplayName, ch.ListURL(s.opts.BaseURL), enriched, closedItems)
	feed.Description = fmt.Sprintf("%s %s", s.opts.SiteTitle, ch.DisplayName)

	log.Info().
		Int("open", len(open)).
		Int("closed", len(closed)).
		Int("items", len(feed.Item)).
		Dur("elapsed", time.Since(start)).
		Msg("feed built")

	s.archive(ctx, ch.Name, feed)
	return feed, nil
}

func (s *FeedService) fetchListing(ctx context.Context, ch *Channel) ([]entity.RawRecord, error) {
	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("打开列表页失败: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close listing page")
		}
	}()

	env, err := capture[entity.RecordPage](ctx, page, ch.ListURL(s.opts.BaseURL), ch.ListPattern, s.opts.ListingTimeout)
	if err != nil {
		return nil, err
	}
	return env.Obj.Records, nil
}

func (s *FeedService) archive(ctx context.Context, channel string, feed *model.Feed) {
	if s.opts.Archiver == nil || len(feed.Item) == 0 {
		return
	}
	s.archives.Add(1)
	go func() {
		defer s.archives.Done()
		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ArchiveTimeout)
		defer cancel()
		if err := s.opts.Archiver.Archive(archiveCtx, channel, feed); err != nil {
			s.log.Warn().Err(err).Str("channel", channel).Msg("archive feed failed")
		}
	}()
}

// Wait 等待进行中的归档完成
func (s *FeedService) Wait() {
	s.archives.Wait()
}
