package gnews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/search"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"vape kedah" - Google Berita</title>
<item>
<title>Operasi vape di Kedah - Harian Metro</title>
<link>https://news.google.com/articles/1</link>
<pubDate>Mon, 02 Mar 2026 08:00:00 GMT</pubDate>
<description>&lt;a href="https://example.com/1"&gt;Operasi vape di Kedah&lt;/a&gt;&amp;nbsp;&amp;nbsp;&lt;font color="#6f6f6f"&gt;Harian Metro&lt;/font&gt;</description>
<source url="https://www.hmetro.com.my">Harian Metro</source>
</item>
<item>
<title>Berita tanpa sumber</title>
<link>https://news.google.com/articles/2</link>
</item>
</channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Atom</title>
<entry><title>Denggi meningkat</title><link href="https://example.com/a"/><updated>2026-03-02T08:00:00Z</updated></entry>
</feed>`

func newTestClient() *Client {
	cfg := config.Default()
	return NewClient(cfg.Feed)
}

func TestSearchParsesRSS(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	resp, err := newTestClient().Search(context.Background(), &search.Request{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "Operasi vape di Kedah - Harian Metro", first.Title)
	assert.Equal(t, "https://news.google.com/articles/1", first.URL)
	assert.Equal(t, "Harian Metro", first.Source)
	assert.Contains(t, first.Content, "Operasi vape di Kedah")
	assert.NotContains(t, first.Content, "<a")
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2026, first.PublishedAt.Year())

	assert.Empty(t, resp.Results[1].Source)
	assert.Equal(t, config.DefaultUserAgent, gotUA)
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient().Search(context.Background(), &search.Request{URL: srv.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrFetch)
	assert.Contains(t, err.Error(), "503")
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient().Search(context.Background(), &search.Request{URL: url})
	assert.ErrorIs(t, err, search.ErrFetch)
}

func TestParse(t *testing.T) {
	results, err := Parse([]byte(sampleAtom))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Denggi meningkat", results[0].Title)

	_, err = Parse([]byte("<html><body>not a feed</body></html>"))
	assert.ErrorIs(t, err, search.ErrFetch)

	results, err = Parse([]byte(`<rss version="2.0"><channel><title>x</title></channel></rss>`))
	require.NoError(t, err)
	assert.Empty(t, results)
}
