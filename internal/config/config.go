package config

import "time"

type Config struct {
	Site struct {
		// 门户根地址,列表页与详情页都基于它拼接
		BaseURL string `json:"base_url" yaml:"base_url"`
		// feed 频道标题前缀
		Title string `json:"title" yaml:"title"`
	} `json:"site" yaml:"site"`

	Server struct {
		Listen string `json:"listen" yaml:"listen"`
		// gin 模式: debug / release / test
		Mode string `json:"mode" yaml:"mode"`
	} `json:"server" yaml:"server"`

	Browser struct {
		// rod 或 chromedp
		Driver string `json:"driver" yaml:"driver"`
		// 单位秒
		ListingTimeout int `json:"listing_timeout" yaml:"listing_timeout"`
		DetailTimeout  int `json:"detail_timeout" yaml:"detail_timeout"`
		// 同时打开的详情页上限,未设置时为8,负数表示不限制
		MaxDetailPages int `json:"max_detail_pages" yaml:"max_detail_pages"`
	} `json:"browser" yaml:"browser"`

	Rod struct {
		UserMode                         bool   `json:"user_mode" yaml:"user_mode"`
		Trace                            bool   `json:"trace" yaml:"trace"`
		UserDataDir                      string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless                         bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures             string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito                        bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage               bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox                        bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent                        string `json:"user_agent" yaml:"user_agent"`
		Leakless                         bool   `json:"leakless" yaml:"leakless"`
		Bin                              string `json:"bin" yaml:"bin"`
		RemoteDebuggingPort              int    `json:"remote_debugging_port" yaml:"remote_debugging_port"`
		DisableBackgroundNetworking      bool   `json:"disable_background_networking" yaml:"disable_background_networking"`
		DisableBackgroundTimerThrottling bool   `json:"disable_background_timer_throttling" yaml:"disable_background_timer_throttling"`
	} `json:"rod" yaml:"rod"`

	Chromedp struct {
		UserDataDir          string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless             bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito            bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent            string `json:"user_agent" yaml:"user_agent"`
	} `json:"chromedp" yaml:"chromedp"`

	Cache struct {
		// memory / redis / memcache
		Type string `json:"type" yaml:"type"`
		// 单位秒,0 表示不过期
		TTL   int `json:"ttl" yaml:"ttl"`
		Redis struct {
			Address  string `json:"address" yaml:"address"`
			Password string `json:"password" yaml:"password"`
			DB       int    `json:"db" yaml:"db"`
		} `json:"redis" yaml:"redis"`
		Memcache struct {
			Address string `json:"address" yaml:"address"`
		} `json:"memcache" yaml:"memcache"`
	} `json:"cache" yaml:"cache"`

	Elasticsearch struct {
		Enabled  bool   `json:"enabled" yaml:"enabled"`
		Username string `json:"username" yaml:"username"`
		Password string `json:"password" yaml:"password"`
		Address  string `json:"address" yaml:"address"`
		Index    string `json:"index" yaml:"index"`
	} `json:"elasticsearch" yaml:"elasticsearch"`

	Embedder struct {
		Enabled   bool   `json:"enabled" yaml:"enabled"`
		Host      string `json:"host" yaml:"host"`
		Port      int    `json:"port" yaml:"port"`
		Model     string `json:"model" yaml:"model"`
		BatchSize int    `json:"batch_size" yaml:"batch_size"`
	} `json:"embedder" yaml:"embedder"`

	Log struct {
		Level  string `json:"level" yaml:"level"`
		Pretty bool   `json:"pretty" yaml:"pretty"`
	} `json:"log" yaml:"log"`
}

func (c *Config) ListingTimeout() time.Duration {
	return time.Duration(c.Browser.ListingTimeout) * time.Second
}

func (c *Config) DetailTimeout() time.Duration {
	return time.Duration(c.Browser.DetailTimeout) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}
