package model

import "time"

// FeedItem feed 中的一条记录
type FeedItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Author      string    `json:"author"`
	PubDate     time.Time `json:"pubDate"`
	Updated     time.Time `json:"updated"`
	Description string    `json:"description"`
	GUID        string    `json:"guid"`
	// 详情抓取失败时为 true,此时 Description 为降级提示
	Degraded bool `json:"-"`
	// 已结束的记录
	Closed bool `json:"-"`
}

// Feed 一次抓取得到的完整 feed,Item 顺序即输出顺序
type Feed struct {
	Title       string     `json:"title"`
	Link        string     `json:"link,omitempty"`
	Description string     `json:"description,omitempty"`
	Item        []FeedItem `json:"item"`
}
