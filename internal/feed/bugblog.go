package feed

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BuggedCards 抓取bug博客页面并解析出bug卡列表。
// 页面结构：每个 article.bug 是一条bug，里面包含
//   - a.card       卡名（href指向问题单）
//   - p.description 描述
//   - span.category 分类（如 "Game Breaking"）
//   - time          最后确认时间，datetime属性为 "2006-01-02 15:04:05"
//   - 带 data-bug-blog 属性时表示该条目来自官方bug博客
func (s *HTTPSource) BuggedCards() ([]BugRecord, error) {
	resp, err := s.client.Get(s.cfg.BugBlogURL)
	if err != nil {
		return nil, fmt.Errorf("无法获取bug博客页面: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bug博客返回HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("无法解析bug博客页面: %w", err)
	}

	return parseBugBlog(doc), nil
}

func parseBugBlog(doc *goquery.Document) []BugRecord {
	var bugs []BugRecord
	doc.Find("article.bug").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.card").First()
		name := strings.TrimSpace(link.Text())
		if name == "" {
			// 没有卡名的条目无法归属，直接丢弃
			return
		}
		url, _ := link.Attr("href")
		lastUpdated, _ := sel.Find("time").First().Attr("datetime")
		_, fromBugBlog := sel.Attr("data-bug-blog")

		bugs = append(bugs, BugRecord{
			Card:        name,
			Description: strings.TrimSpace(sel.Find("p.description").First().Text()),
			Category:    strings.TrimSpace(sel.Find("span.category").First().Text()),
			LastUpdated: strings.TrimSpace(lastUpdated),
			URL:         url,
			BugBlog:     fromBugBlog,
		})
	})
	return bugs
}
