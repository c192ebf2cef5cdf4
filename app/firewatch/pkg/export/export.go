package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

// RSS 将一次运行的 ResultSet 导出为 RSS 2.0 文档
func RSS(snap model.Snapshot, link string, now time.Time) (string, error) {
	title := "Kedah Infodemic Firewatch"
	if snap.Keyword != "" {
		title = fmt.Sprintf("%s: %s", title, snap.Keyword)
	}

	desc := fmt.Sprintf("%d isu, tetingkap %s", len(snap.Results), snap.Window)
	if snap.Analysis != nil {
		desc += ", analisis: " + string(snap.Analysis.Outcome)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: desc,
		Created:     now,
	}

	for _, it := range snap.Results {
		item := &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Description: it.Snippet,
			Id:          it.Link,
			Created:     now,
		}
		if it.Source != "" {
			item.Author = &feeds.Author{Name: it.Source}
		}
		if it.Published != nil {
			item.Created = *it.Published
		}
		feed.Items = append(feed.Items, item)
	}

	out, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("render rss failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}
