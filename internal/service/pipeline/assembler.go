package pipeline

import (
	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
)

func baseItem(ch *Channel, baseURL string, r *entity.RawRecord) model.FeedItem {
	return model.FeedItem{
		Title:   r.DocTitle,
		Link:    ch.DetailURL(baseURL, r),
		Author:  r.Organ,
		PubDate: r.DocPubTime.Time,
		GUID:    ch.GUID(r),
	}
}

// ClosedItems 已结束的记录不抓取详情,描述根据时间生成
func ClosedItems(ch *Channel, baseURL string, records []entity.RawRecord) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(records))
	for i := range records {
		r := &records[i]
		item := baseItem(ch, baseURL, r)
		item.Updated = ch.closedUpdated(r)
		item.Description = ch.closedDesc(r)
		item.Closed = true
		items = append(items, item)
	}
	return items
}

// Assemble 进行中的条目在前,已结束的在后,不做排序
func Assemble(title, link string, enriched, closed []model.FeedItem) *model.Feed {
	items := make([]model.FeedItem, 0, len(enriched)+len(closed))
	items = append(items, enriched...)
	items = append(items, closed...)
	return &model.Feed{
		Title: title,
		Link:  link,
		Item:  items,
	}
}
