package collector

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/query"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/search"
)

// Collector 构造查询、拉取 feed 并筛选出 ResultSet
type Collector struct {
	builder  *query.Builder
	searcher search.Searcher
}

// New 创建 Collector
func New(builder *query.Builder, searcher search.Searcher) *Collector {
	return &Collector{
		builder:  builder,
		searcher: searcher,
	}
}

// Collect 执行一次检索。首选查询无结果时使用放宽查询重试一次，仍无结果则返回空集。
// 网络、状态码与解析错误包装 search.ErrFetch 返回，不做额外重试。
func (c *Collector) Collect(ctx context.Context, req model.SearchRequest) (model.ResultSet, error) {
	strict := c.builder.Strict(req)
	results, err := c.fetch(ctx, strict)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		relaxed := c.builder.Relaxed(req)
		logger.Log.Infof("查询 [%s] 无结果，放宽为 [%s] 重试", strict, relaxed)
		results, err = c.fetch(ctx, relaxed)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			logger.Log.Infof("关键字 [%s] 未找到任何新闻", req.Keyword())
			return model.ResultSet{}, nil
		}
	}

	rs := c.filter(req.Keyword(), results)
	logger.Log.Infof("关键字 [%s] 共 %d 条原始结果，保留 %d 条", req.Keyword(), len(results), len(rs))
	return rs, nil
}

func (c *Collector) fetch(ctx context.Context, q string) ([]search.Result, error) {
	url := c.builder.URL(q)
	logger.Log.Debugf("拉取 feed: %s", url)
	resp, err := c.searcher.Search(ctx, &search.Request{Query: q, URL: url})
	if err != nil {
		logger.Log.Errorf("拉取 feed 失败 [%s]: %v", q, err)
		return nil, err
	}
	return resp.Results, nil
}

// filter 保留标题包含关键字的条目；一条都不匹配时退回到前 MaxResults 条原始结果
func (c *Collector) filter(keyword string, results []search.Result) model.ResultSet {
	// Caser 有状态，不能跨 goroutine 共享
	lower := cases.Lower(language.Und)
	kw := lower.String(keyword)

	matched := make(model.ResultSet, 0, model.MaxResults)
	for _, r := range results {
		if strings.Contains(lower.String(r.Title), kw) {
			matched = append(matched, toItem(r))
			if len(matched) == model.MaxResults {
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}

	fallback := make(model.ResultSet, 0, model.MaxResults)
	for _, r := range results {
		fallback = append(fallback, toItem(r))
		if len(fallback) == model.MaxResults {
			break
		}
	}
	return fallback
}

func toItem(r search.Result) model.NewsItem {
	source := r.Source
	if source == "" {
		source = model.DefaultSourceName
	}
	return model.NewsItem{
		Title:     r.Title,
		Link:      r.URL,
		Source:    source,
		Published: r.PublishedAt,
		Snippet:   r.Content,
	}
}
