package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/kedah-infodemic/firewatch/app/display/internal/domain"
	"github.com/kedah-infodemic/firewatch/app/display/internal/repo"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/export"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
)

// Pipeline 检索与分析引擎
type Pipeline interface {
	Run(ctx context.Context, run *model.Run, opts engine.RunOptions) error
	Reanalyze(ctx context.Context, run *model.Run, pc model.ProviderConfig, retryCallback func(at time.Time, wait time.Duration)) (model.AnalysisResult, error)
	Providers() []engine.ProviderInfo
	ListModels(ctx context.Context, id model.ProviderID, apiKey string) ([]string, error)
}

// Previewer 文章正文预览
type Previewer interface {
	Extract(ctx context.Context, rawURL string) (*preview.Article, error)
}

// RunUseCase 检索与分析业务逻辑
type RunUseCase struct {
	repo      repo.SessionRepo
	pipeline  Pipeline
	previewer Previewer
	log       *log.Helper

	// background 异步运行使用的上下文，不随请求结束而取消
	background context.Context
}

// NewRunUseCase 创建检索与分析业务逻辑实例
func NewRunUseCase(repo repo.SessionRepo, pipeline Pipeline, previewer Previewer, logger log.Logger) *RunUseCase {
	return &RunUseCase{
		repo:       repo,
		pipeline:   pipeline,
		previewer:  previewer,
		log:        log.NewHelper(logger),
		background: context.Background(),
	}
}

// Start 在会话上发起新一轮检索与分析。会话 ID 为空时创建新会话。
// 参数错误在启动前同步返回；Wait 为 false 时立即返回当前状态，由调用方轮询。
func (uc *RunUseCase) Start(ctx context.Context, in domain.RunInput) (*domain.RunView, error) {
	req, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	pc, err := parseProvider(in.Provider)
	if err != nil {
		return nil, err
	}

	id, run, err := uc.session(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if !run.Acquire() {
		return nil, domain.ErrRunInProgress
	}

	opts := engine.RunOptions{
		Request:  req,
		Provider: pc,
		RetryCallback: func(at time.Time, wait time.Duration) {
			uc.log.Infof("session %s: quota exceeded, retrying at %s", id, at.Format(time.RFC3339))
		},
	}

	if in.Wait {
		defer run.Release()
		if err := uc.pipeline.Run(ctx, run, opts); err != nil {
			uc.log.WithContext(ctx).Warnf("session %s: run failed: %v", id, err)
		}
		return &domain.RunView{SessionID: id, Snapshot: run.Snapshot()}, nil
	}

	// 先进入 Fetching，保证立即返回的快照属于本轮
	run.Begin(req)
	go func() {
		defer run.Release()
		if err := uc.pipeline.Run(uc.background, run, opts); err != nil {
			uc.log.Warnf("session %s: run failed: %v", id, err)
		}
	}()
	return &domain.RunView{SessionID: id, Snapshot: run.Snapshot()}, nil
}

// Reanalyze 手动重试分析，复用会话中的 ResultSet
func (uc *RunUseCase) Reanalyze(ctx context.Context, id string, in domain.ProviderInput, wait bool) (*domain.RunView, error) {
	pc, err := parseProvider(in)
	if err != nil {
		return nil, err
	}
	run, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(run.Results()) == 0 {
		return nil, engine.ErrNoResults
	}
	if !run.Acquire() {
		return nil, domain.ErrRunInProgress
	}

	if wait {
		defer run.Release()
		if _, err := uc.pipeline.Reanalyze(ctx, run, pc, nil); err != nil {
			uc.log.WithContext(ctx).Warnf("session %s: reanalyze failed: %v", id, err)
		}
		return &domain.RunView{SessionID: id, Snapshot: run.Snapshot()}, nil
	}

	run.StartAnalysis()
	go func() {
		defer run.Release()
		if _, err := uc.pipeline.Reanalyze(uc.background, run, pc, nil); err != nil {
			uc.log.Warnf("session %s: reanalyze failed: %v", id, err)
		}
	}()
	return &domain.RunView{SessionID: id, Snapshot: run.Snapshot()}, nil
}

// Get 返回会话当前状态
func (uc *RunUseCase) Get(ctx context.Context, id string) (*domain.RunView, error) {
	run, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.RunView{SessionID: id, Snapshot: run.Snapshot()}, nil
}

// Delete 删除会话
func (uc *RunUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Feed 将会话的 ResultSet 导出为 RSS
func (uc *RunUseCase) Feed(ctx context.Context, id, link string) (string, error) {
	run, err := uc.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return export.RSS(run.Snapshot(), link, time.Now())
}

// Providers 列出可选服务商
func (uc *RunUseCase) Providers() []engine.ProviderInfo {
	return uc.pipeline.Providers()
}

// ListModels 列出凭据可用的模型
func (uc *RunUseCase) ListModels(ctx context.Context, providerID, apiKey string) ([]string, error) {
	id, err := model.ParseProviderID(providerID)
	if err != nil {
		return nil, err
	}
	return uc.pipeline.ListModels(ctx, id, apiKey)
}

// Preview 提取文章正文，只允许预览会话当前 ResultSet 中的链接
func (uc *RunUseCase) Preview(ctx context.Context, id, rawURL string) (*preview.Article, error) {
	run, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	link := strings.TrimSpace(rawURL)
	if link == "" || !slices.ContainsFunc(run.Results(), func(it model.NewsItem) bool { return it.Link == link }) {
		return nil, domain.ErrLinkNotInSession
	}
	return uc.previewer.Extract(ctx, link)
}

func (uc *RunUseCase) session(ctx context.Context, id string) (string, *model.Run, error) {
	if id == "" {
		return uc.repo.Create(ctx)
	}
	run, err := uc.repo.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, run, nil
}

func parseRequest(in domain.RunInput) (model.SearchRequest, error) {
	window := model.Window7d
	if in.Window != "" {
		w, err := model.ParseTimeWindow(in.Window)
		if err != nil {
			return model.SearchRequest{}, err
		}
		window = w
	}
	sources := make([]model.Source, 0, len(in.Sources))
	for _, s := range in.Sources {
		src, err := model.ParseSource(s)
		if err != nil {
			return model.SearchRequest{}, err
		}
		sources = append(sources, src)
	}
	return model.NewSearchRequest(in.Keyword, window, sources...)
}

func parseProvider(in domain.ProviderInput) (model.ProviderConfig, error) {
	name := in.ID
	if name == "" {
		name = string(model.ProviderGemini)
	}
	id, err := model.ParseProviderID(name)
	if err != nil {
		return model.ProviderConfig{}, fmt.Errorf("provider: %w", err)
	}
	return model.ProviderConfig{ID: id, Model: in.Model, Credential: in.APIKey}, nil
}
