package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/logger"
)

// CST 门户网站的时间都按北京时间解释
var CST = time.FixedZone("CST", 8*60*60)

// LifecycleState 对应接口中的 infostate 字段
type LifecycleState int

const (
	StateUnknown LifecycleState = 0
	// StateOpen 正在进行,可以查看详情
	StateOpen LifecycleState = 1
	// StateClosed 已结束,详情无法查看
	StateClosed LifecycleState = 2
)

func (s LifecycleState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// UnmarshalJSON 接口返回的 infostate 可能是数字也可能是 "1" 这样的字符串。
// 无法识别的值记为 StateUnknown,由分类阶段丢弃,不影响同一页的其他记录
func (s *LifecycleState) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*s = StateUnknown
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.For("entity").Warn().Str("infostate", string(data)).Msg("unrecognized infostate")
		*s = StateUnknown
		return nil
	}
	*s = LifecycleState(n)
	return nil
}

// Timestamp 兼容毫秒时间戳、秒时间戳以及 "2006-01-02 15:04:05" 格式的字符串
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// UnmarshalJSON 无法识别的写法解码为零值
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		ts.Time = time.Time{}
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	t, err := ParseTimestamp(raw)
	if err != nil {
		// 无法识别的时间按缺失处理
		logger.For("entity").Warn().Err(err).Msg("timestamp ignored")
		t = time.Time{}
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UnixMilli())
}

// ParseTimestamp 解析接口中出现过的各种时间写法
func ParseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n == 0 {
			return time.Time{}, nil
		}
		// 小于 1e11 的按秒处理
		if n < 1e11 {
			return time.Unix(n, 0).In(CST), nil
		}
		return time.UnixMilli(n).In(CST), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(CST), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, CST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// RawRecord 列表接口 obj.records[] 中的一条记录
type RawRecord struct {
	// 公告ID,查看详情需要
	DocID int64 `json:"docid"`
	// 查看详情需要
	ParentID    int64          `json:"parentId"`
	DocPubTime  Timestamp      `json:"docpubtime"`
	OperTime    Timestamp      `json:"opertime"`
	InvalidTime Timestamp      `json:"invalidtime"`
	DocTitle    string         `json:"doctitle"`
	Organ       string         `json:"organ"`
	InfoState   LifecycleState `json:"infostate"`
	// 岗位数和招聘人数,流水线不使用
	GwCounts json.RawMessage `json:"gwcounts,omitempty"`
	GwSums   json.RawMessage `json:"gwsums,omitempty"`
}
