package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/api"
	"github.com/LouYuanbo1/rczpfeed/internal/config"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/cache"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/embedding"
	"github.com/LouYuanbo1/rczpfeed/internal/infra/persistence/es"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/LouYuanbo1/rczpfeed/internal/service/archive"
	"github.com/LouYuanbo1/rczpfeed/internal/service/pipeline"
)

// 未指定 --config 时使用的内置配置
//
//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	log := logger.For("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	browser, err := initBrowser(ctx, cfg)
	if err != nil {
		return err
	}
	defer browser.Close()

	store, err := cache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("初始化缓存失败: %w", err)
	}
	readThrough := cache.NewReadThrough(store, cfg.CacheTTL())
	defer readThrough.Close()

	pipelineOpts := pipeline.Options{
		BaseURL:        cfg.Site.BaseURL,
		SiteTitle:      cfg.Site.Title,
		ListingTimeout: cfg.ListingTimeout(),
		DetailTimeout:  cfg.DetailTimeout(),
		MaxDetailPages: cfg.Browser.MaxDetailPages,
	}
	if cfg.Elasticsearch.Enabled {
		archiver, err := initArchiver(ctx, cfg)
		if err != nil {
			return err
		}
		pipelineOpts.Archiver = archiver
	}
	service := pipeline.NewFeedService(browser, readThrough, pipelineOpts)
	defer service.Wait()

	log.Info().
		Str("driver", cfg.Browser.Driver).
		Str("cache", cfg.Cache.Type).
		Bool("archive", cfg.Elasticsearch.Enabled).
		Msg("feed service ready")

	if opts.Once != "" {
		return runOnce(ctx, service, opts.Once)
	}
	return serve(ctx, cfg, service)
}

func loadConfig(opts *config.Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.LoadFile(opts.ConfigFile)
	} else {
		cfg, err = config.ParseConfig(appConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := opts.Apply(cfg); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}

func initBrowser(ctx context.Context, cfg *config.Config) (chrome.Browser, error) {
	switch cfg.Browser.Driver {
	case "chromedp":
		return chrome.InitChromedpBrowser(ctx, cfg)
	default:
		return chrome.InitRodBrowser(cfg)
	}
}

func initArchiver(ctx context.Context, cfg *config.Config) (*archive.Service, error) {
	esClient, err := es.InitTypedEsClient(cfg, &model.ItemDoc{})
	if err != nil {
		return nil, err
	}
	var embedder embedding.Embedder
	if cfg.Embedder.Enabled {
		embedder, err = embedding.InitOllamaEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	svc := archive.NewService(esClient, embedder)
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := svc.Init(initCtx); err != nil {
		return nil, fmt.Errorf("初始化归档索引失败: %w", err)
	}
	count, err := svc.Count(initCtx)
	if err != nil {
		return nil, fmt.Errorf("查询归档索引失败: %w", err)
	}
	logger.For("main").Info().
		Str("index", cfg.Elasticsearch.Index).
		Int64("docs", count).
		Bool("embedding", embedder != nil).
		Msg("archive ready")
	return svc, nil
}

func runOnce(ctx context.Context, service *pipeline.FeedService, channel string) error {
	feed, err := service.Run(ctx, channel)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(feed)
}

func serve(ctx context.Context, cfg *config.Config, service *pipeline.FeedService) error {
	log := logger.For("main")
	// 详情页可能分多批抓取,整体超时留出余量
	requestTimeout := cfg.ListingTimeout() + 3*cfg.DetailTimeout()
	handler := api.NewHandler(service, requestTimeout)
	httpServer := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      api.NewServer(handler, cfg.Server.Mode),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Server.Listen).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
