package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/analysis"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/collector"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/gnews"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/factory"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/query"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/retry"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/search"
)

// ErrNoResults 当前运行没有可分析的新闻
var ErrNoResults = errors.New("no results to analyze")

// ErrMissingCredential 列出模型时未提供凭据
var ErrMissingCredential = errors.New("api key is required")

var errQuotaExceeded = errors.New("quota exceeded")

// Engine 核心处理引擎：检索 -> 分析 -> 配额重试
type Engine struct {
	cfg          *config.Config
	builder      *query.Builder
	searcher     search.Searcher
	newGenerator analysis.GeneratorFactory
	newLister    func(id model.ProviderID) (provider.ModelLister, error)
	policy       *retry.Policy

	collector *collector.Collector
	analyzer  *analysis.Analyzer
}

// Option 引擎选项
type Option func(*Engine)

// WithSearcher 替换 feed 客户端
func WithSearcher(s search.Searcher) Option {
	return func(e *Engine) { e.searcher = s }
}

// WithGeneratorFactory 替换生成器工厂
func WithGeneratorFactory(f analysis.GeneratorFactory) Option {
	return func(e *Engine) { e.newGenerator = f }
}

// WithRetryPolicy 替换配额重试策略
func WithRetryPolicy(p *retry.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	e := &Engine{
		cfg:     cfg,
		builder: query.NewBuilder(cfg.Feed, cfg.Query),
		newGenerator: func(ctx context.Context, pc model.ProviderConfig) (provider.Generator, error) {
			return factory.NewGenerator(ctx, cfg, pc)
		},
		newLister: func(id model.ProviderID) (provider.ModelLister, error) {
			return factory.NewModelLister(cfg, id)
		},
		policy: retry.NewPolicy(time.Duration(cfg.Analysis.QuotaWait) * time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.searcher == nil {
		e.searcher = gnews.NewClient(cfg.Feed)
	}

	e.collector = collector.New(e.builder, e.searcher)
	e.analyzer = analysis.NewAnalyzer(e.newGenerator, cfg.Analysis.Language)
	return e, nil
}

// RunOptions 运行选项
type RunOptions struct {
	Request          model.SearchRequest
	Provider         model.ProviderConfig
	ProgressCallback func(status string, progress int)
	// RetryCallback 配额超限、开始等待自动重试时调用
	RetryCallback func(at time.Time, wait time.Duration)
}

// Run 执行一次完整的检索与分析。
// 检索失败返回包装 search.ErrFetch 的错误；分析失败记录在 run 中，不作为 error 返回。
func (e *Engine) Run(ctx context.Context, run *model.Run, opts RunOptions) error {
	progress := func(status string, p int) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}

	if opts.Request.IsZero() {
		return model.ErrEmptyKeyword
	}

	logger.Log.Infof("开始检索关键字 [%s]，时间窗口 %s，来源 %v", opts.Request.Keyword(), opts.Request.Window(), opts.Request.Sources())
	run.Begin(opts.Request)
	progress("fetching", 0)

	rs, err := e.collector.Collect(ctx, opts.Request)
	if err != nil {
		run.FetchFailed(err)
		progress("fetch failed", 100)
		return fmt.Errorf("collect news: %w", err)
	}
	run.SetResults(rs)
	if len(rs) == 0 {
		progress("no results", 100)
		return nil
	}

	progress("analyzing", 50)
	if _, err := e.analyze(ctx, run, rs, opts.Provider, opts.RetryCallback); err != nil {
		return err
	}
	progress("completed", 100)
	return nil
}

// Reanalyze 对当前 ResultSet 重新发起分析（手动重试），同样享有一次自动重试
func (e *Engine) Reanalyze(ctx context.Context, run *model.Run, pc model.ProviderConfig, retryCallback func(at time.Time, wait time.Duration)) (model.AnalysisResult, error) {
	rs := run.Results()
	if len(rs) == 0 {
		return model.AnalysisResult{}, ErrNoResults
	}
	return e.analyze(ctx, run, rs, pc, retryCallback)
}

func (e *Engine) analyze(ctx context.Context, run *model.Run, rs model.ResultSet, pc model.ProviderConfig, retryCallback func(time.Time, time.Duration)) (model.AnalysisResult, error) {
	pc = e.ResolveProvider(pc)
	run.StartAnalysis()

	var last model.AnalysisResult
	attempts := 0
	err := e.policy.Do(ctx, func() error {
		attempts++
		if attempts > 1 {
			run.ResumeAnalysis()
		}
		last = e.analyzer.Analyze(ctx, rs, pc)
		if last.Outcome == model.OutcomeQuotaExceeded {
			return errQuotaExceeded
		}
		return nil
	}, func(err error) bool {
		return errors.Is(err, errQuotaExceeded)
	}, func(_ error, wait time.Duration) {
		at := time.Now().Add(wait)
		logger.Log.Warnf("配额超限 [%s]，%s 后自动重试", pc, wait)
		run.ScheduleRetry(at)
		if retryCallback != nil {
			retryCallback(at, wait)
		}
	})

	last.AutoRetried = attempts > 1
	run.SetAnalysis(last)
	logger.Log.Infof("分析结束 [%s]: %s", pc, last.Outcome)

	if err != nil && !errors.Is(err, errQuotaExceeded) {
		return last, err
	}
	return last, nil
}

// ResolveProvider 补全模型与凭据，请求未指定时使用配置中的默认值
func (e *Engine) ResolveProvider(pc model.ProviderConfig) model.ProviderConfig {
	c, ok := e.cfg.Provider(pc.ID)
	if !ok {
		return pc
	}
	if pc.Model == "" {
		pc.Model = c.DefaultModel
	}
	if pc.Credential == "" {
		pc.Credential = c.APIKey
	}
	return pc
}

// ProviderInfo 服务商信息
type ProviderInfo struct {
	ID           model.ProviderID `json:"id"`
	DefaultModel string           `json:"default_model"`
	Models       []string         `json:"models"`
	HasKey       bool             `json:"has_key"`
}

// Providers 列出可选服务商
func (e *Engine) Providers() []ProviderInfo {
	ids := []model.ProviderID{model.ProviderGemini, model.ProviderOpenAI, model.ProviderDeepSeek}
	out := make([]ProviderInfo, 0, len(ids))
	for _, id := range ids {
		c, _ := e.cfg.Provider(id)
		out = append(out, ProviderInfo{
			ID:           id,
			DefaultModel: c.DefaultModel,
			Models:       append([]string(nil), c.Models...),
			HasKey:       c.APIKey != "",
		})
	}
	return out
}

// ListModels 列出凭据可用的模型
func (e *Engine) ListModels(ctx context.Context, id model.ProviderID, apiKey string) ([]string, error) {
	pc := e.ResolveProvider(model.ProviderConfig{ID: id, Credential: apiKey})
	if pc.Credential == "" {
		return nil, fmt.Errorf("%w to list %s models", ErrMissingCredential, id)
	}
	lister, err := e.newLister(id)
	if err != nil {
		return nil, err
	}
	return lister.ListModels(ctx, pc.Credential)
}

// Query 返回首选查询、放宽查询与首选查询的 feed 地址
func (e *Engine) Query(req model.SearchRequest) (strict, relaxed, url string) {
	strict = e.builder.Strict(req)
	relaxed = e.builder.Relaxed(req)
	return strict, relaxed, e.builder.URL(strict)
}
