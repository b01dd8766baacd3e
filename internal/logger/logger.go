package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger 对 zerolog 的简单封装
type Logger struct {
	logger zerolog.Logger
}

var (
	Default *Logger
	once    sync.Once
)

// Init 按级别初始化全局日志, pretty 为 true 时输出便于阅读的控制台格式
func Init(level string, pretty bool) {
	InitWithWriter(level, pretty, os.Stderr)
}

// InitWithWriter 与 Init 相同,但输出到指定的 writer
func InitWithWriter(level string, pretty bool, out io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	Default = &Logger{logger: zerolog.New(out).With().Timestamp().Logger()}
	once.Do(func() {})
}

func ensure() {
	once.Do(func() {
		if Default == nil {
			Default = &Logger{logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
		}
	})
}

// For 返回带 component 字段的日志
func For(component string) *Logger {
	ensure()
	return Default.WithField("component", component)
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.logger.Fatal() }

// Zerolog 返回底层的 zerolog.Logger,供需要 zerolog 原生接口的地方使用
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}
