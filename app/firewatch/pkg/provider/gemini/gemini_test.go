package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-123", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[
				{"name":"models/gemini-2.0-flash","supportedGenerationMethods":["generateContent","countTokens"]},
				{"name":"models/text-embedding-004","supportedGenerationMethods":["embedContent"]}
			],"nextPageToken":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-pro","supportedGenerationMethods":["generateContent"]}]}`))
	}))
	defer srv.Close()

	ids, err := NewModelClient(srv.URL).ListModels(context.Background(), "k-123")
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-pro"}, ids)
}

func TestListModelsInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := NewModelClient(srv.URL).ListModels(context.Background(), "bad")
	var pe *provider.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, model.OutcomeInvalidCredential, pe.Kind)
}

func TestGenerateQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"You exceeded your current quota, please check your plan and billing details.","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	cfg := config.LLMConfig{BaseURL: srv.URL, DefaultModel: "gemini-2.0-flash"}
	g, err := New(context.Background(), cfg, model.ProviderConfig{ID: model.ProviderGemini, Credential: "k"}, 5*time.Second)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	var pe *provider.Error
	require.True(t, errors.As(err, &pe), "err=%v", err)
	assert.Equal(t, model.OutcomeQuotaExceeded, pe.Kind)
}

func TestSignals(t *testing.T) {
	tests := []struct {
		msg  string
		want model.Outcome
	}{
		{"error, status code: 429, status: 429 Too Many Requests, message: Resource has been exhausted (e.g. check quota).", model.OutcomeQuotaExceeded},
		{"error, status code: 429, status: 429 Too Many Requests, message: You exceeded your current quota, please check your plan and billing details. RESOURCE_EXHAUSTED", model.OutcomeQuotaExceeded},
		{"error, status code: 400, message: INVALID_ARGUMENT", model.OutcomeInvalidCredential},
		{"error, status code: 400, message: API key not valid. Please pass a valid API key.", model.OutcomeInvalidCredential},
		{"error, status code: 400, message: FAILED_PRECONDITION: enable billing to use this model", model.OutcomeBillingRequired},
		{"error, status code: 404, message: models/gemini-9 is not found", model.OutcomeUnknownFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Signals.Classify(errors.New(tt.msg)), tt.msg)
	}
}
