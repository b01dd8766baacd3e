package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/model"
)

const generatorName = "rczpfeed/1.0"

// RSSGenerator 把 feed 输出为 RSS 2.0
type RSSGenerator struct {
	now func() time.Time
}

func NewRSSGenerator() *RSSGenerator {
	return &RSSGenerator{now: time.Now}
}

// Generate selfLink 为空时不输出 atom:link
func (g *RSSGenerator) Generate(feed *model.Feed, selfLink string) string {
	var buf bytes.Buffer
	g.writeHeader(&buf)

	g.writeElement(&buf, "title", feed.Title, 4)
	g.writeElement(&buf, "link", feed.Link, 4)
	description := feed.Description
	if description == "" {
		description = feed.Title
	}
	g.writeElement(&buf, "description", description, 4)
	if selfLink != "" {
		buf.WriteString(`    <atom:link href="`)
		xml.EscapeText(&buf, []byte(selfLink))
		buf.WriteString("\" rel=\"self\" type=\"application/rss+xml\" />\n")
	}
	g.writeElement(&buf, "language", "zh-cn", 4)
	g.writeElement(&buf, "lastBuildDate", g.now().Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", generatorName, 4)

	for i := range feed.Item {
		g.writeItem(&buf, &feed.Item[i])
	}

	buf.WriteString("  </channel>\n</rss>\n")
	return buf.String()
}

// GenerateError 列表抓取失败时返回只含一条错误说明的 feed
func (g *RSSGenerator) GenerateError(title, link, errorMsg string) string {
	now := g.now()
	var buf bytes.Buffer
	g.writeHeader(&buf)
	g.writeElement(&buf, "title", title+" - Error", 4)
	g.writeElement(&buf, "link", link, 4)
	g.writeElement(&buf, "description", "抓取失败: "+errorMsg, 4)
	g.writeElement(&buf, "lastBuildDate", now.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", generatorName, 4)
	buf.WriteString("    <item>\n")
	g.writeElement(&buf, "title", "Feed Processing Error", 6)
	g.writeElement(&buf, "description", errorMsg, 6)
	g.writeElement(&buf, "pubDate", now.Format(time.RFC1123Z), 6)
	fmt.Fprintf(&buf, "      <guid isPermaLink=\"false\">error-%d</guid>\n", now.Unix())
	buf.WriteString("    </item>\n")
	buf.WriteString("  </channel>\n</rss>\n")
	return buf.String()
}

func (g *RSSGenerator) writeHeader(buf *bytes.Buffer) {
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	buf.WriteString("\n  <channel>\n")
}

func (g *RSSGenerator) writeItem(buf *bytes.Buffer, item *model.FeedItem) {
	buf.WriteString("    <item>\n")
	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeElement(buf, "description", item.Description, 6)
	// RSS 的 author 要求是邮箱,发布单位用 dc:creator
	g.writeElement(buf, "dc:creator", item.Author, 6)
	if !item.PubDate.IsZero() {
		g.writeElement(buf, "pubDate", item.PubDate.Format(time.RFC1123Z), 6)
	}
	if !item.Updated.IsZero() {
		g.writeElement(buf, "dc:date", item.Updated.Format(time.RFC3339), 6)
	}
	if item.GUID != "" {
		buf.WriteString(`      <guid isPermaLink="false">`)
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}
	buf.WriteString("    </item>\n")
}

// writeElement 内容为空时跳过
func (g *RSSGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}
	for range indent {
		buf.WriteByte(' ')
	}
	buf.WriteString("<" + tag + ">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</" + tag + ">\n")
}
