package query

import (
	"net/url"
	"strings"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

// platformClauses 社交平台对应的 site 过滤条件，顺序决定拼接顺序
var platformClauses = []struct {
	source model.Source
	clause string
}{
	{model.SourceTikTok, "site:tiktok.com"},
	{model.SourceFacebook, "site:facebook.com"},
	{model.SourceX, "(site:x.com OR site:twitter.com)"},
}

// Builder 根据检索请求构造 Google News 搜索语句与 URL
type Builder struct {
	feed  config.FeedConfig
	terms []string
}

// NewBuilder 创建查询构造器
func NewBuilder(feed config.FeedConfig, q config.QueryConfig) *Builder {
	return &Builder{feed: feed, terms: q.DiscourseTerms}
}

// Strict 构造首选查询，选择全部平台时关键字使用精确匹配
func (b *Builder) Strict(req model.SearchRequest) string {
	return b.build(req, req.Has(model.SourceAll))
}

// Relaxed 构造放宽后的查询，关键字不加引号
func (b *Builder) Relaxed(req model.SearchRequest) string {
	return b.build(req, false)
}

func (b *Builder) build(req model.SearchRequest, exact bool) string {
	kw := req.Keyword()
	if exact {
		kw = `"` + kw + `"`
	}
	when := "when:" + string(req.Window())

	// 全部平台时忽略平台过滤
	if req.Has(model.SourceAll) {
		return kw + " " + when
	}

	var platforms []string
	for _, p := range platformClauses {
		if req.Has(p.source) {
			platforms = append(platforms, p.clause)
		}
	}
	if len(platforms) == 0 {
		return kw + " " + when
	}

	group := "(" + strings.Join(platforms, " OR ") + ")"
	if !req.Has(model.SourceNews) {
		return kw + " " + group + " " + when
	}

	parts := append(append([]string{}, b.terms...), group)
	return kw + " (" + strings.Join(parts, " OR ") + ") " + when
}

// URL 将查询语句编码后拼入 RSS 搜索地址
func (b *Builder) URL(q string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
	return b.feed.Endpoint + "?q=" + encoded +
		"&hl=" + b.feed.Language +
		"&gl=" + b.feed.Region +
		"&ceid=" + b.feed.Edition
}
