package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/display/internal/domain"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
)

// mockSessionRepo 模拟会话仓库
type mockSessionRepo struct {
	mu   sync.Mutex
	runs map[string]*model.Run
	seq  int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{runs: make(map[string]*model.Run)}
}

func (m *mockSessionRepo) Create(ctx context.Context) (string, *model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("s%d", m.seq)
	run := model.NewRun()
	m.runs[id] = run
	return id, run, nil
}

func (m *mockSessionRepo) Get(ctx context.Context, id string) (*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return run, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.runs, id)
	return nil
}

// mockPipeline 模拟引擎：写入固定结果，可选阻塞直到 release 关闭
type mockPipeline struct {
	results  model.ResultSet
	outcome  model.Outcome
	fetchErr error
	release  chan struct{}
	done     chan struct{}

	mu       sync.Mutex
	lastPC   model.ProviderConfig
	analyzed int
}

func (p *mockPipeline) Run(ctx context.Context, run *model.Run, opts engine.RunOptions) error {
	defer p.signal()
	if p.release != nil {
		<-p.release
	}
	run.Begin(opts.Request)
	if p.fetchErr != nil {
		run.FetchFailed(p.fetchErr)
		return p.fetchErr
	}
	run.SetResults(p.results)
	if len(p.results) > 0 {
		p.analyze(run, opts.Provider)
	}
	return nil
}

func (p *mockPipeline) Reanalyze(ctx context.Context, run *model.Run, pc model.ProviderConfig, _ func(time.Time, time.Duration)) (model.AnalysisResult, error) {
	defer p.signal()
	return p.analyze(run, pc), nil
}

func (p *mockPipeline) analyze(run *model.Run, pc model.ProviderConfig) model.AnalysisResult {
	p.mu.Lock()
	p.lastPC = pc
	p.analyzed++
	p.mu.Unlock()
	run.StartAnalysis()
	res := model.AnalysisResult{Outcome: p.outcome, Provider: pc.ID, Model: pc.Model}
	run.SetAnalysis(res)
	return res
}

func (p *mockPipeline) signal() {
	if p.done != nil {
		p.done <- struct{}{}
	}
}

func (p *mockPipeline) Providers() []engine.ProviderInfo {
	return []engine.ProviderInfo{{ID: model.ProviderGemini, DefaultModel: "gemini-2.5-flash"}}
}

func (p *mockPipeline) ListModels(ctx context.Context, id model.ProviderID, apiKey string) ([]string, error) {
	return []string{string(id) + "-model"}, nil
}

type mockPreviewer struct{}

func (mockPreviewer) Extract(ctx context.Context, rawURL string) (*preview.Article, error) {
	return &preview.Article{URL: rawURL, Title: "Tajuk"}, nil
}

func sampleResults() model.ResultSet {
	return model.ResultSet{
		{Title: "Vape dirampas di Kedah", Link: "https://example.com/1", Source: "Sinar Harian"},
	}
}

func TestRunUseCase_StartWait(t *testing.T) {
	p := &mockPipeline{results: sampleResults(), outcome: model.OutcomeSuccess}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)

	view, err := uc.Start(context.Background(), domain.RunInput{
		Keyword:  "  vape kedah ",
		Window:   "3d",
		Sources:  []string{"news", "tiktok"},
		Provider: domain.ProviderInput{ID: "chatgpt", Model: "gpt-4o-mini", APIKey: "sk-test"},
		Wait:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "vape kedah", view.Keyword)
	assert.Equal(t, model.Window3d, view.Window)
	assert.Equal(t, model.PhaseOf(model.OutcomeSuccess), view.Phase)
	assert.Len(t, view.Results, 1)
	require.NotNil(t, view.Analysis)
	assert.Equal(t, model.ProviderOpenAI, view.Analysis.Provider)

	assert.Equal(t, "sk-test", p.lastPC.Credential)
}

func TestRunUseCase_StartDefaultsToGemini(t *testing.T) {
	p := &mockPipeline{results: sampleResults(), outcome: model.OutcomeSuccess}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)

	_, err := uc.Start(context.Background(), domain.RunInput{Keyword: "vape", Sources: []string{"all"}, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, model.ProviderGemini, p.lastPC.ID)
}

func TestRunUseCase_StartInvalidInput(t *testing.T) {
	uc := NewRunUseCase(newMockSessionRepo(), &mockPipeline{}, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	_, err := uc.Start(ctx, domain.RunInput{Keyword: "   ", Sources: []string{"news"}})
	assert.ErrorIs(t, err, model.ErrEmptyKeyword)

	_, err = uc.Start(ctx, domain.RunInput{Keyword: "vape"})
	assert.ErrorIs(t, err, model.ErrNoSource)

	_, err = uc.Start(ctx, domain.RunInput{Keyword: "vape", Window: "2d", Sources: []string{"news"}})
	assert.ErrorIs(t, err, model.ErrInvalidWindow)

	_, err = uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"myspace"}})
	assert.ErrorIs(t, err, model.ErrInvalidSource)

	_, err = uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Provider: domain.ProviderInput{ID: "claude"}})
	assert.ErrorIs(t, err, model.ErrInvalidProvider)

	_, err = uc.Start(ctx, domain.RunInput{SessionID: "missing", Keyword: "vape", Sources: []string{"news"}})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunUseCase_StartAsync(t *testing.T) {
	p := &mockPipeline{
		results: sampleResults(),
		outcome: model.OutcomeSuccess,
		release: make(chan struct{}),
		done:    make(chan struct{}, 1),
	}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	view, err := uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseFetching, view.Phase)
	assert.Empty(t, view.Results)

	_, err = uc.Start(ctx, domain.RunInput{SessionID: view.SessionID, Keyword: "vape", Sources: []string{"news"}})
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(p.release)
	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	assert.Eventually(t, func() bool {
		got, err := uc.Get(ctx, view.SessionID)
		return err == nil && got.Phase == model.PhaseOf(model.OutcomeSuccess)
	}, 5*time.Second, 10*time.Millisecond)

	// 运行结束后会话可再次使用
	assert.Eventually(t, func() bool {
		_, err := uc.Start(ctx, domain.RunInput{SessionID: view.SessionID, Keyword: "vape", Sources: []string{"news"}, Wait: true})
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunUseCase_FetchFailureIsState(t *testing.T) {
	p := &mockPipeline{fetchErr: errors.New("connection refused")}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)

	view, err := uc.Start(context.Background(), domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseFetchFailed, view.Phase)
	assert.Equal(t, "connection refused", view.FetchError)
}

func TestRunUseCase_Reanalyze(t *testing.T) {
	p := &mockPipeline{results: sampleResults(), outcome: model.OutcomeQuotaExceeded}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	view, err := uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseOf(model.OutcomeQuotaExceeded), view.Phase)

	p.outcome = model.OutcomeSuccess
	again, err := uc.Reanalyze(ctx, view.SessionID, domain.ProviderInput{ID: "deepseek"}, true)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseOf(model.OutcomeSuccess), again.Phase)
	assert.Len(t, again.Results, 1, "manual retry reuses the result set")
	assert.Equal(t, 2, p.analyzed)
	assert.Equal(t, model.ProviderDeepSeek, p.lastPC.ID)
}

func TestRunUseCase_ReanalyzeWithoutResults(t *testing.T) {
	p := &mockPipeline{}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	view, err := uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseEmpty, view.Phase)

	_, err = uc.Reanalyze(ctx, view.SessionID, domain.ProviderInput{}, true)
	assert.ErrorIs(t, err, engine.ErrNoResults)

	_, err = uc.Reanalyze(ctx, "missing", domain.ProviderInput{}, true)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunUseCase_FeedAndDelete(t *testing.T) {
	p := &mockPipeline{results: sampleResults(), outcome: model.OutcomeSuccess}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	view, err := uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Wait: true})
	require.NoError(t, err)

	rss, err := uc.Feed(ctx, view.SessionID, "http://localhost/api/v1/sessions/"+view.SessionID)
	require.NoError(t, err)
	assert.Contains(t, rss, "Vape dirampas di Kedah")

	require.NoError(t, uc.Delete(ctx, view.SessionID))
	_, err = uc.Get(ctx, view.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunUseCase_Catalogue(t *testing.T) {
	uc := NewRunUseCase(newMockSessionRepo(), &mockPipeline{}, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	assert.Len(t, uc.Providers(), 1)

	models, err := uc.ListModels(ctx, "openai", "sk")
	require.NoError(t, err)
	assert.Equal(t, []string{"openai-model"}, models)

	_, err = uc.ListModels(ctx, "bard", "sk")
	assert.ErrorIs(t, err, model.ErrInvalidProvider)

}

func TestRunUseCase_PreviewOnlySessionLinks(t *testing.T) {
	p := &mockPipeline{results: sampleResults(), outcome: model.OutcomeSuccess}
	uc := NewRunUseCase(newMockSessionRepo(), p, mockPreviewer{}, log.DefaultLogger)
	ctx := context.Background()

	view, err := uc.Start(ctx, domain.RunInput{Keyword: "vape", Sources: []string{"news"}, Wait: true})
	require.NoError(t, err)

	a, err := uc.Preview(ctx, view.SessionID, "https://example.com/1")
	require.NoError(t, err)
	assert.Equal(t, "Tajuk", a.Title)

	for _, link := range []string{"http://127.0.0.1:8000/api/v1/providers", "http://169.254.169.254/latest/meta-data", "https://example.com/2", ""} {
		_, err = uc.Preview(ctx, view.SessionID, link)
		assert.ErrorIs(t, err, domain.ErrLinkNotInSession, link)
	}

	_, err = uc.Preview(ctx, "missing", "https://example.com/1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
