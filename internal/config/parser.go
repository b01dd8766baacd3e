package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "https://rczp.china-railway.com.cn/"
	DefaultListen         = ":8080"
	DefaultListingTimeout = 30
	DefaultDetailTimeout  = 20
	DefaultMaxDetailPages = 8
	DefaultCacheTTL       = 6 * 60 * 60
	DefaultIndex          = "rczp_feed_items"
)

// ParseConfig 解析JSON格式的配置
func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(byteConfig, &cfg); err != nil {
		return nil, fmt.Errorf("解析JSON配置失败: %w", err)
	}
	return finalize(&cfg)
}

// ParseYAML 解析YAML格式的配置
func ParseYAML(byteConfig []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(byteConfig, &cfg); err != nil {
		return nil, fmt.Errorf("解析YAML配置失败: %w", err)
	}
	return finalize(&cfg)
}

// LoadFile 按扩展名选择JSON或YAML解析
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseConfig(data)
	}
}

func finalize(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	for _, dir := range []*string{&cfg.Rod.UserDataDir, &cfg.Chromedp.UserDataDir} {
		if *dir == "" {
			continue
		}
		absPath, err := filepath.Abs(*dir)
		if err != nil {
			return nil, err
		}
		*dir = absPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.Site.BaseURL, "/") {
		cfg.Site.BaseURL += "/"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "中国铁路人才招聘网"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Browser.Driver == "" {
		cfg.Browser.Driver = "rod"
	}
	if cfg.Browser.ListingTimeout <= 0 {
		cfg.Browser.ListingTimeout = DefaultListingTimeout
	}
	if cfg.Browser.DetailTimeout <= 0 {
		cfg.Browser.DetailTimeout = DefaultDetailTimeout
	}
	if cfg.Browser.MaxDetailPages == 0 {
		cfg.Browser.MaxDetailPages = DefaultMaxDetailPages
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = DefaultIndex
	}
	if cfg.Embedder.BatchSize <= 0 {
		cfg.Embedder.BatchSize = 16
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate 检查互相依赖的配置项
func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case "rod", "chromedp":
	default:
		return fmt.Errorf("未知的浏览器驱动: %q", c.Browser.Driver)
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address 不能为空")
		}
	case "memcache":
		if c.Cache.Memcache.Address == "" {
			return fmt.Errorf("cache.memcache.address 不能为空")
		}
	default:
		return fmt.Errorf("未知的缓存类型: %q", c.Cache.Type)
	}
	if c.Elasticsearch.Enabled && c.Elasticsearch.Address == "" {
		return fmt.Errorf("elasticsearch.address 不能为空")
	}
	if c.Embedder.Enabled && !c.Elasticsearch.Enabled {
		return fmt.Errorf("embedder 需要同时开启 elasticsearch")
	}
	return nil
}
