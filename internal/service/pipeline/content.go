package pipeline

import (
	"html"
	"net/url"
	"strings"

	"github.com/LouYuanbo1/rczpfeed/internal/domain/entity"
	"github.com/PuerkitoBio/goquery"
)

// ContentCleaner 把详情接口返回的正文整理为 feed 描述
type ContentCleaner struct {
	base *url.URL
}

func NewContentCleaner(baseURL string) *ContentCleaner {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	return &ContentCleaner{base: base}
}

// Clean 优先使用 htmlcontent;去掉脚本和样式,相对地址补全为绝对地址。
// 没有需要处理的内容时原样返回。htmlcontent 为空时把纯文本 content 按行包装为段落
func (c *ContentCleaner) Clean(d *entity.DetailContent) string {
	if strings.TrimSpace(d.HTMLContent) != "" {
		return c.cleanHTML(d.HTMLContent)
	}
	return textToHTML(d.Content)
}

func (c *ContentCleaner) cleanHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	changed := false
	if removed := doc.Find("script, style, noscript"); removed.Length() > 0 {
		removed.Remove()
		changed = true
	}
	for _, attr := range []string{"src", "href"} {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			val, _ := s.Attr(attr)
			if abs, ok := c.absolutize(val); ok {
				s.SetAttr(attr, abs)
				changed = true
			}
		})
	}
	if !changed {
		return raw
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return raw
	}
	return strings.TrimSpace(out)
}

// absolutize 只处理相对地址
func (c *ContentCleaner) absolutize(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if c.base == nil || ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return c.base.ResolveReference(u).String(), true
}

func textToHTML(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(line))
		sb.WriteString("</p>")
	}
	return sb.String()
}
