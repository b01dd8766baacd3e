package api

import (
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"github.com/gin-gonic/gin"
)

// NewServer mode 为空时使用 release 模式
func NewServer(handler *Handler, mode string) *gin.Engine {
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	r.GET("/", handler.Index)
	r.GET("/health", handler.HealthCheck)
	r.GET("/china-railway/:channel", handler.GetFeed)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
	return r
}

func requestLogger() gin.HandlerFunc {
	log := logger.For("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
