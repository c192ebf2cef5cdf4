package gemini

import (
	"context"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/chat"
)

// Signals Gemini 错误特征。
// 配额超限的 429 提示中也带有 "billing details"，计费特征只匹配明确要求开通计费的提示。
var Signals = provider.Signals{
	BillingMarkers:    []string{"failed_precondition", "enable billing", "billing is not enabled", "billing account"},
	QuotaCodes:        []int{429},
	QuotaMarkers:      []string{"resource_exhausted", "resource has been exhausted", "quota"},
	CredentialCodes:   []int{400, 401, 403},
	CredentialMarkers: []string{"api_key_invalid", "api key not valid", "api key expired", "permission_denied"},
}

// New 通过 Gemini 的 OpenAI 兼容接口创建生成器
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
