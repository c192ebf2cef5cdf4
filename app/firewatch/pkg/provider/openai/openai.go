package openai

import (
	"context"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/chat"
)

// Signals OpenAI 错误特征。insufficient_quota 同样返回 429，需先于配额判定。
var Signals = provider.Signals{
	BillingMarkers:    []string{"insufficient_quota", "exceeded your current quota", "billing_hard_limit", "billing details"},
	QuotaCodes:        []int{429},
	QuotaMarkers:      []string{"rate_limit", "rate limit"},
	CredentialCodes:   []int{401},
	CredentialMarkers: []string{"invalid_api_key", "incorrect api key"},
}

// New 创建 OpenAI 生成器
func New(ctx context.Context, c config.LLMConfig, pc model.ProviderConfig, timeout time.Duration) (*chat.Client, error) {
	modelName := pc.Model
	if modelName == "" {
		modelName = c.DefaultModel
	}
	return chat.NewOpenAICompatible(ctx, chat.Options{
		BaseURL: c.BaseURL,
		APIKey:  pc.Credential,
		Model:   modelName,
		Timeout: timeout,
	}, Signals)
}
