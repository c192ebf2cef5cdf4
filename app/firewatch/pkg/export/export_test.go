package export

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

func TestRSS(t *testing.T) {
	pub := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	snap := model.Snapshot{
		Keyword: "vape kedah",
		Window:  model.Window7d,
		Results: model.ResultSet{
			{Title: "Vape kedah dirampas", Link: "https://example.com/1", Source: "Harian Metro", Published: &pub},
			{Title: "Remaja & vape kedah", Link: "https://example.com/2", Source: model.DefaultSourceName},
		},
		Analysis: &model.AnalysisResult{Outcome: model.OutcomeSuccess},
	}

	out, err := RSS(snap, "http://localhost:8000/api/v1/sessions/abc/feed", time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))

	// 导出结果能被 feed 解析器读回
	feed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "Kedah Infodemic Firewatch: vape kedah", feed.Title)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "Vape kedah dirampas", feed.Items[0].Title)
	assert.Equal(t, "Remaja & vape kedah", feed.Items[1].Title)
	assert.Contains(t, feed.Description, "success")
}

func TestRSSEmpty(t *testing.T) {
	out, err := RSS(model.Snapshot{}, "http://localhost", time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "<channel>")
}
