package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxResults 单次检索保留的最大条目数
const MaxResults = 5

// DefaultSourceName 条目缺少来源时使用的默认来源名称
const DefaultSourceName = "Berita Tempatan"

var (
	ErrEmptyKeyword    = errors.New("keyword must not be empty")
	ErrNoSource        = errors.New("at least one source must be selected")
	ErrInvalidWindow   = errors.New("invalid time window")
	ErrInvalidSource   = errors.New("invalid source")
	ErrInvalidProvider = errors.New("invalid provider")
)

// TimeWindow 检索时间窗口
type TimeWindow string

const (
	Window1d  TimeWindow = "1d"
	Window3d  TimeWindow = "3d"
	Window7d  TimeWindow = "7d"
	Window30d TimeWindow = "30d"
)

var windowAliases = map[string]TimeWindow{
	"1d":      Window1d,
	"1 hari":  Window1d,
	"3d":      Window3d,
	"3 hari":  Window3d,
	"7d":      Window7d,
	"7 hari":  Window7d,
	"30d":     Window30d,
	"30 hari": Window30d,
}

// ParseTimeWindow 解析时间窗口，同时接受 "7d" 与界面标签 "7 hari"
func ParseTimeWindow(s string) (TimeWindow, error) {
	if w, ok := windowAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// Valid 是否为受支持的时间窗口
func (w TimeWindow) Valid() bool {
	switch w {
	case Window1d, Window3d, Window7d, Window30d:
		return true
	}
	return false
}

// Source 来源平台
type Source string

const (
	SourceAll      Source = "all"
	SourceNews     Source = "news"
	SourceTikTok   Source = "tiktok"
	SourceFacebook Source = "facebook"
	SourceX        Source = "x"
)

var sourceAliases = map[string]Source{
	"all":            SourceAll,
	"all platforms":  SourceAll,
	"semua platform": SourceAll,
	"news":           SourceNews,
	"news portal":    SourceNews,
	"portal berita":  SourceNews,
	"tiktok":         SourceTikTok,
	"facebook":       SourceFacebook,
	"fb":             SourceFacebook,
	"x":              SourceX,
	"twitter":        SourceX,
	"x (twitter)":    SourceX,
}

// ParseSource 解析来源平台，支持界面上的马来语标签
func ParseSource(s string) (Source, error) {
	if src, ok := sourceAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return src, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, s)
}

// Valid 是否为受支持的来源
func (s Source) Valid() bool {
	switch s {
	case SourceAll, SourceNews, SourceTikTok, SourceFacebook, SourceX:
		return true
	}
	return false
}

// SearchRequest 一次检索的输入，构造后不可修改
type SearchRequest struct {
	keyword string
	window  TimeWindow
	sources []Source
}

// NewSearchRequest 校验并构造检索请求。重复的来源会被去重，保留首次出现的顺序。
func NewSearchRequest(keyword string, window TimeWindow, sources ...Source) (SearchRequest, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return SearchRequest{}, ErrEmptyKeyword
	}
	if !window.Valid() {
		return SearchRequest{}, fmt.Errorf("%w: %q", ErrInvalidWindow, window)
	}
	if len(sources) == 0 {
		return SearchRequest{}, ErrNoSource
	}

	seen := make(map[Source]bool, len(sources))
	uniq := make([]Source, 0, len(sources))
	for _, s := range sources {
		if !s.Valid() {
			return SearchRequest{}, fmt.Errorf("%w: %q", ErrInvalidSource, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		uniq = append(uniq, s)
	}

	return SearchRequest{keyword: keyword, window: window, sources: uniq}, nil
}

func (r SearchRequest) Keyword() string    { return r.keyword }
func (r SearchRequest) Window() TimeWindow { return r.window }

// Sources 返回来源列表的副本
func (r SearchRequest) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Has 是否选择了指定来源
func (r SearchRequest) Has(s Source) bool {
	for _, src := range r.sources {
		if src == s {
			return true
		}
	}
	return false
}

// IsZero 是否为未初始化的请求
func (r SearchRequest) IsZero() bool {
	return r.keyword == ""
}

// NewsItem 单条新闻
type NewsItem struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Source    string     `json:"source"`
	Published *time.Time `json:"published,omitempty"`
	Snippet   string     `json:"snippet,omitempty"`
}

// ResultSet 按 feed 顺序排列的结果，长度不超过 MaxResults
type ResultSet []NewsItem

// Clone 返回结果集的副本
func (rs ResultSet) Clone() ResultSet {
	if rs == nil {
		return nil
	}
	out := make(ResultSet, len(rs))
	copy(out, rs)
	return out
}
