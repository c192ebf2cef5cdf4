package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

// fakeGenerator 返回预设文本或错误
type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func factoryFor(g *fakeGenerator, calls *int) GeneratorFactory {
	return func(ctx context.Context, pc model.ProviderConfig) (provider.Generator, error) {
		*calls++
		return g, nil
	}
}

var sample = model.ResultSet{
	{Title: "Vape Kedah dirampas"},
	{Title: "Pelajar dan vape kedah"},
}

var gemini = model.ProviderConfig{ID: model.ProviderGemini, Model: "gemini-2.0-flash", Credential: "k"}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sample, "ms")
	assert.Contains(t, p, "ISU 1: Vape Kedah dirampas\nISU 2: Pelajar dan vape kedah\n")
	assert.True(t, strings.HasPrefix(p, "Berlakon sebagai Pakar Kesihatan Awam"))
	assert.Equal(t, p, BuildPrompt(sample, "ms"))

	en := BuildPrompt(sample, "en")
	assert.Contains(t, en, "ISSUE 1: Vape Kedah dirampas\nISSUE 2: Pelajar dan vape kedah\n")
	assert.Contains(t, en, "Fact Status")
}

func TestAnalyzeSuccess(t *testing.T) {
	g := &fakeGenerator{text: "## Isu 1\n..."}
	calls := 0
	res := NewAnalyzer(factoryFor(g, &calls), "ms").Analyze(context.Background(), sample, gemini)

	assert.Equal(t, model.OutcomeSuccess, res.Outcome)
	assert.Equal(t, "## Isu 1\n...", res.Markdown)
	assert.Equal(t, model.ProviderGemini, res.Provider)
	assert.False(t, res.CompletedAt.IsZero())
	require.Len(t, g.prompts, 1)
	assert.Contains(t, g.prompts[0], "ISU 2: Pelajar dan vape kedah")
}

func TestAnalyzeMissingCredentialMakesNoCall(t *testing.T) {
	g := &fakeGenerator{text: "x"}
	calls := 0
	a := NewAnalyzer(factoryFor(g, &calls), "ms")

	noKey := gemini
	noKey.Credential = "  "
	assert.Equal(t, model.OutcomeMissingCredential, a.Analyze(context.Background(), sample, noKey).Outcome)
	assert.Equal(t, model.OutcomeMissingCredential, a.Analyze(context.Background(), nil, gemini).Outcome)

	assert.Zero(t, calls)
	assert.Empty(t, g.prompts)
}

func TestAnalyzeClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		err    error
		want   model.Outcome
		detail string
	}{
		{name: "empty text", text: "   ", want: model.OutcomeEmptyResponse},
		{name: "quota", err: &provider.Error{Kind: model.OutcomeQuotaExceeded, Err: errors.New("429")}, want: model.OutcomeQuotaExceeded, detail: "429"},
		{name: "billing", err: &provider.Error{Kind: model.OutcomeBillingRequired, Err: errors.New("402")}, want: model.OutcomeBillingRequired, detail: "402"},
		{name: "credential", err: &provider.Error{Kind: model.OutcomeInvalidCredential, Err: errors.New("401")}, want: model.OutcomeInvalidCredential, detail: "401"},
		{name: "unclassified", err: errors.New("boom"), want: model.OutcomeUnknownFailure, detail: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			g := &fakeGenerator{text: tt.text, err: tt.err}
			res := NewAnalyzer(factoryFor(g, &calls), "ms").Analyze(context.Background(), sample, gemini)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.detail, res.Detail)
			assert.Empty(t, res.Markdown)
		})
	}
}

func TestAnalyzeFactoryError(t *testing.T) {
	a := NewAnalyzer(func(ctx context.Context, pc model.ProviderConfig) (provider.Generator, error) {
		return nil, errors.New("unknown llm provider")
	}, "ms")
	res := a.Analyze(context.Background(), sample, gemini)
	assert.Equal(t, model.OutcomeUnknownFailure, res.Outcome)
}
