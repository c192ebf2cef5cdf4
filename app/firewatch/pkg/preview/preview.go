package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
)

const (
	// MaxChars 正文预览的最大字符数
	MaxChars    = 5000
	maxBodySize = 10 << 20
)

// ErrInvalidURL 预览地址不是 http(s) 地址
var ErrInvalidURL = errors.New("preview url must be an absolute http(s) url")

// Article 文章正文预览
type Article struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Byline    string `json:"byline,omitempty"`
	SiteName  string `json:"site_name,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// Extractor 抓取网页并提取正文
type Extractor struct {
	userAgent string
	client    *http.Client
}

// NewExtractor 创建正文提取器
func NewExtractor(c config.FeedConfig) *Extractor {
	t := time.Duration(c.Timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Extractor{
		userAgent: c.UserAgent,
		client:    &http.Client{Timeout: t},
	}
}

// Extract 抓取并清洗正文，正文超过 MaxChars 时截断
func (x *Extractor) Extract(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	if x.userAgent != "" {
		req.Header.Set("User-Agent", x.userAgent)
	}

	res, err := x.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch article failed (status %d)", res.StatusCode)
	}

	// 跳转之后以最终地址解析相对链接
	article, err := readability.FromReader(io.LimitReader(res.Body, maxBodySize), res.Request.URL)
	if err != nil {
		return nil, fmt.Errorf("extract article failed: %w", err)
	}

	text, truncated := truncate(article.TextContent, MaxChars)
	return &Article{
		URL:       res.Request.URL.String(),
		Title:     article.Title,
		Byline:    article.Byline,
		SiteName:  article.SiteName,
		Excerpt:   article.Excerpt,
		Text:      text,
		Truncated: truncated,
	}, nil
}

func truncate(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}
