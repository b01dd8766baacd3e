package pipeline

import (
	"testing"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestChannelLinks(t *testing.T) {
	r := &entity.RawRecord{DocID: 42, ParentID: 7}

	assert.Equal(t,
		"https://rczp.china-railway.com.cn/page/platform/company_info_del.html?parentId=7&jmetazpxxid=42",
		Recruitment().DetailURL("https://rczp.china-railway.com.cn/", r))
	assert.Equal(t,
		"https://rczp.china-railway.com.cn/page/platform/company_dynamic_del.html?parentId=7&jmetazpdtid=42",
		Dynamic().DetailURL("https://rczp.china-railway.com.cn/", r))
	assert.Equal(t, "https://rczp.china-railway.com.cn/page/recruitment/rec_dynamic.html",
		Dynamic().ListURL("https://rczp.china-railway.com.cn/"))

	assert.Equal(t, "recruitment:42", Recruitment().CacheKey(r))
	assert.Equal(t, "dynamic-42", Dynamic().GUID(r))
}

func TestFormatDate(t *testing.T) {
	// UTC 2024-02-29 20:00 即北京时间 2024-03-01 04:00
	ts := time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "03/01/2024", FormatDate(ts))
	assert.Equal(t, "--", FormatDate(time.Time{}))
}
