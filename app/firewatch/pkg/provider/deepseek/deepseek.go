package deepseek

import (
	"context"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/chat"
)

// Signals DeepSeek 错误特征，余额不足返回 402
var Signals = provider.Signals{
	BillingCodes:      []int{402},
	BillingMarkers:    []string{"insufficient balance"},
	QuotaCodes:        []int{429},
	QuotaMarkers:      []string{"rate limit"},
	CredentialCodes:   []int{401},
	CredentialMarkers: []string{"authentication fails", "invalid api key", "api key"},
}

// New 创建 DeepSeek 生成器
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
