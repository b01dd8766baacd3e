package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
)

var ErrUnknownChannel = errors.New("unknown channel")

// DateLayout feed 描述中日期的显示格式
const DateLayout = "01/02/2006"

// Channel 门户上的一个栏目,列表页和详情页的地址与接口各不相同
type Channel struct {
	Name        string
	DisplayName string
	// 相对于门户根地址
	ListPath      string
	ListPattern   string
	DetailPattern string

	detailPath    string
	detailIDParam string
	openUpdated   func(r *entity.RawRecord) time.Time
	closedUpdated func(r *entity.RawRecord) time.Time
	closedDesc    func(r *entity.RawRecord) string
}

// Recruitment 招聘信息
func Recruitment() *Channel {
	return &Channel{
		Name:          "recruitment",
		DisplayName:   "招聘信息",
		ListPath:      "page/recruitment/rec_info.html",
		ListPattern:   "pageList",
		DetailPattern: "getinfo",
		detailPath:    "page/platform/company_info_del.html",
		detailIDParam: "jmetazpxxid",
		openUpdated:   func(r *entity.RawRecord) time.Time { return r.OperTime.Time },
		closedUpdated: func(r *entity.RawRecord) time.Time { return r.DocPubTime.Time },
		closedDesc: func(r *entity.RawRecord) string {
			return fmt.Sprintf("该招聘的时间为 %s 至 %s，目前已结束，无法查看详细公告内容。",
				FormatDate(r.DocPubTime.Time), FormatDate(r.InvalidTime.Time))
		},
	}
}

// Dynamic 招聘动态
func Dynamic() *Channel {
	return &Channel{
		Name:          "dynamic",
		DisplayName:   "招聘动态",
		ListPath:      "page/recruitment/rec_dynamic.html",
		ListPattern:   "pagedynamic",
		DetailPattern: "getInfoZpdt",
		detailPath:    "page/platform/company_dynamic_del.html",
		detailIDParam: "jmetazpdtid",
		openUpdated:   func(r *entity.RawRecord) time.Time { return r.DocPubTime.Time },
		closedUpdated: func(r *entity.RawRecord) time.Time { return r.DocPubTime.Time },
		closedDesc: func(r *entity.RawRecord) string {
			return fmt.Sprintf("该招聘动态的有效期截止到%s，目前已结束，无法查看详细内容。",
				FormatDate(r.InvalidTime.Time))
		},
	}
}

func DefaultChannels() []*Channel {
	return []*Channel{Recruitment(), Dynamic()}
}

func (c *Channel) ListURL(baseURL string) string {
	return baseURL + c.ListPath
}

func (c *Channel) DetailURL(baseURL string, r *entity.RawRecord) string {
	return fmt.Sprintf("%s%s?parentId=%d&%s=%d", baseURL, c.detailPath, r.ParentID, c.detailIDParam, r.DocID)
}

// CacheKey 不同栏目的 docid 可能重复,需要加上栏目名
func (c *Channel) CacheKey(r *entity.RawRecord) string {
	return fmt.Sprintf("%s:%d", c.Name, r.DocID)
}

func (c *Channel) GUID(r *entity.RawRecord) string {
	return fmt.Sprintf("%s-%d", c.Name, r.DocID)
}

// FormatDate 按北京时间格式化, 零值显示为 "--"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.In(entity.CST).Format(DateLayout)
}
