package search

import (
	"context"
	"errors"
	"time"
)

// ErrFetch feed 不可达、返回非 200 或内容无法解析
var ErrFetch = errors.New("feed fetch failed")

// Searcher 定义通用的检索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用检索请求
type Request struct {
	Query string // 已构造好的搜索语句
	URL   string // 完整的 feed 地址，包含编码后的 Query
}

// Response 通用检索响应，Results 保持 feed 原始顺序
type Response struct {
	Results []Result
}

// Result 单条检索结果
type Result struct {
	Title       string
	URL         string
	Source      string
	Content     string
	PublishedAt *time.Time
}
