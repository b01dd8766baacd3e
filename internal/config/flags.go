package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Options 命令行参数,未指定时从环境变量读取
type Options struct {
	ConfigFile string `short:"c" long:"config" env:"RCZP_CONFIG" description:"配置文件路径(.json/.yaml),为空时使用内置配置"`
	Listen     string `long:"listen" env:"RCZP_LISTEN" description:"HTTP监听地址,覆盖配置文件"`
	Driver     string `long:"driver" env:"RCZP_DRIVER" choice:"rod" choice:"chromedp" description:"浏览器驱动,覆盖配置文件"`
	Once       string `long:"once" description:"只抓取一次指定栏目并输出JSON,不启动服务"`
	LogLevel   string `long:"log-level" env:"LOG_LEVEL" description:"日志级别,覆盖配置文件"`
	RedisAddr  string `long:"redis-addr" env:"REDIS_ADDR" description:"设置后使用redis缓存"`
	EnvFile    string `long:"env-file" default:".env" description:".env文件路径"`
}

// ErrHelp 用户请求了 --help
var ErrHelp = errors.New("help requested")

// ParseFlags 先加载 --env-file 指定的 .env,再解析全部参数,
// 这样 .env 中的变量也能作为 env 默认值生效。已存在的环境变量不会被 .env 覆盖
func ParseFlags(args []string) (*Options, error) {
	if err := loadEnvFile(args); err != nil {
		return nil, err
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	return &opts, nil
}

// Apply 命令行参数覆盖配置文件
func (o *Options) Apply(cfg *Config) error {
	if o.Listen != "" {
		cfg.Server.Listen = o.Listen
	}
	if o.Driver != "" {
		cfg.Browser.Driver = o.Driver
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.RedisAddr != "" {
		cfg.Cache.Type = "redis"
		cfg.Cache.Redis.Address = o.RedisAddr
	}
	return cfg.Validate()
}

func loadEnvFile(args []string) error {
	var pre struct {
		EnvFile string `long:"env-file" default:".env"`
	}
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := godotenv.Load(pre.EnvFile); err != nil {
		// 默认的 .env 不存在时忽略
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", pre.EnvFile, err)
	}
	return nil
}
