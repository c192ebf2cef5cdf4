package model

import (
	"fmt"
	"strings"
	"time"
)

// ProviderID LLM 服务商标识
type ProviderID string

const (
	ProviderGemini   ProviderID = "gemini"
	ProviderOpenAI   ProviderID = "openai"
	ProviderDeepSeek ProviderID = "deepseek"
)

// ParseProviderID 解析服务商标识
func ParseProviderID(s string) (ProviderID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "google gemini":
		return ProviderGemini, nil
	case "openai", "chatgpt", "chatgpt (openai)":
		return ProviderOpenAI, nil
	case "deepseek":
		return ProviderDeepSeek, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProvider, s)
}

// ProviderConfig 单次运行使用的服务商配置，凭据不落盘
type ProviderConfig struct {
	ID         ProviderID
	Model      string
	Credential string
}

// String 输出时隐藏凭据
func (p ProviderConfig) String() string {
	return fmt.Sprintf("%s/%s (key=%s)", p.ID, p.Model, maskCredential(p.Credential))
}

func maskCredential(s string) string {
	switch {
	case s == "":
		return "<empty>"
	case len(s) <= 8:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}

// Outcome 分析结果分类
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeEmptyResponse     Outcome = "empty_response"
	OutcomeMissingCredential Outcome = "missing_credential"
	OutcomeQuotaExceeded     Outcome = "quota_exceeded"
	OutcomeBillingRequired   Outcome = "billing_required"
	OutcomeInvalidCredential Outcome = "invalid_credential"
	OutcomeUnknownFailure    Outcome = "unknown_failure"
)

// Message 面向操作员的提示文案
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Analysis completed."
	case OutcomeEmptyResponse:
		return "The AI service returned an empty response."
	case OutcomeMissingCredential:
		return "An API key is required to run the analysis."
	case OutcomeQuotaExceeded:
		return "Quota or rate limit reached. Retrying shortly."
	case OutcomeBillingRequired:
		return "The provider account has no remaining credit. Top up billing and retry."
	case OutcomeInvalidCredential:
		return "The API key was rejected. Check the key and retry."
	default:
		return "The AI service failed unexpectedly."
	}
}

// AnalysisResult 一次分析的结果，始终对应最近一次的 ResultSet
type AnalysisResult struct {
	Outcome     Outcome    `json:"outcome"`
	Markdown    string     `json:"markdown,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	Provider    ProviderID `json:"provider"`
	Model       string     `json:"model"`
	AutoRetried bool       `json:"auto_retried"`
	CompletedAt time.Time  `json:"completed_at"`
}
