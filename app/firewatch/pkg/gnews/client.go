package gnews

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/time/rate"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/search"
)

// maxBodySize feed 响应体上限
const maxBodySize = 5 << 20

// Client Google News RSS 客户端
type Client struct {
	userAgent string
	timeout   time.Duration
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient 创建一个新的 Google News RSS 客户端
func NewClient(c config.FeedConfig) *Client {
	t := time.Duration(c.Timeout) * time.Second
	if t == 0 {
		t = 15 * time.Second
	}
	limit := rate.Inf
	if c.QPS > 0 {
		limit = rate.Limit(c.QPS)
	}
	burst := c.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		userAgent: c.UserAgent,
		timeout:   t,
		client:    &http.Client{Timeout: t},
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search 拉取并解析 feed，结果保持 feed 原始顺序
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrFetch, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request failed: %w", search.ErrFetch, err)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", search.ErrFetch, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", search.ErrFetch, res.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body failed: %w", search.ErrFetch, err)
	}

	results, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return &search.Response{Results: results}, nil
}

// Parse 解析 feed 文档。RSS 使用专用解析器以保留 <source> 元素，其它格式交给通用解析器。
func Parse(body []byte) ([]search.Result, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS:
		fp := &rss.Parser{}
		feed, err := fp.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: parse rss failed: %w", search.ErrFetch, err)
		}
		results := make([]search.Result, 0, len(feed.Items))
		for _, item := range feed.Items {
			r := search.Result{
				Title:       strings.TrimSpace(item.Title),
				URL:         item.Link,
				Content:     snippet(item.Description),
				PublishedAt: item.PubDateParsed,
			}
			if item.Source != nil {
				r.Source = strings.TrimSpace(item.Source.Title)
			}
			results = append(results, r)
		}
		return results, nil

	case gofeed.FeedTypeUnknown:
		return nil, fmt.Errorf("%w: unrecognised feed document", search.ErrFetch)

	default:
		feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: parse feed failed: %w", search.ErrFetch, err)
		}
		results := make([]search.Result, 0, len(feed.Items))
		for _, item := range feed.Items {
			results = append(results, search.Result{
				Title:       strings.TrimSpace(item.Title),
				URL:         item.Link,
				Content:     snippet(item.Description),
				PublishedAt: item.PublishedParsed,
			})
		}
		return results, nil
	}
}

// snippet 去掉描述中的 HTML 标签并压缩空白
func snippet(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
