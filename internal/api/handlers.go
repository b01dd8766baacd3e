package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/errs"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/LouYuanbo1/rczpfeed/internal/service/pipeline"
	"github.com/gin-gonic/gin"
)

// FeedRunner 按栏目生成 feed
type FeedRunner interface {
	Run(ctx context.Context, channel string) (*model.Feed, error)
	Channels() []*pipeline.Channel
}

type Handler struct {
	runner    FeedRunner
	generator *RSSGenerator
	// 单次请求的总超时
	timeout time.Duration
	started time.Time
	log     *logger.Logger
}

func NewHandler(runner FeedRunner, timeout time.Duration) *Handler {
	return &Handler{
		runner:    runner,
		generator: NewRSSGenerator(),
		timeout:   timeout,
		started:   time.Now(),
		log:       logger.For("api"),
	}
}

type errorFeed struct {
	Title string           `json:"title"`
	Item  []model.FeedItem `json:"item"`
	Error string           `json:"error"`
}

// GetFeed GET /china-railway/:channel?format=rss|json
func (h *Handler) GetFeed(c *gin.Context) {
	channel := c.Param("channel")
	format := c.DefaultQuery("format", "rss")
	if format != "rss" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be rss or json"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	feed, err := h.runner.Run(ctx, channel)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pipeline.ErrUnknownChannel) {
			status = http.StatusNotFound
		}
		kind, _ := errs.KindOf(err)
		h.log.Error().Err(err).Str("channel", channel).Str("kind", string(kind)).Int("status", status).Msg("feed request failed")
		h.writeError(c, status, format, channel, err)
		return
	}

	if format == "json" {
		c.JSON(http.StatusOK, feed)
		return
	}
	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, h.generator.Generate(feed, selfLink(c)))
}

func (h *Handler) writeError(c *gin.Context, status int, format, channel string, err error) {
	title := "中国铁路人才招聘网|" + channel
	if format == "json" {
		c.JSON(status, errorFeed{Title: title, Item: []model.FeedItem{}, Error: err.Error()})
		return
	}
	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(status, h.generator.GenerateError(title, selfLink(c), err.Error()))
}

// HealthCheck GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	channels := make([]gin.H, 0, len(h.runner.Channels()))
	for _, ch := range h.runner.Channels() {
		channels = append(channels, gin.H{
			"name":  ch.Name,
			"title": ch.DisplayName,
			"path":  "/china-railway/" + ch.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"service":  "rczpfeed",
		"channels": channels,
		"formats":  []string{"rss", "json"},
		"health":   "/health",
	})
}

func selfLink(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
