package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/deepseek"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/gemini"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider/openai"
)

// NewGenerator 根据服务商配置创建生成器
func NewGenerator(ctx context.Context, cfg *config.Config, pc model.ProviderConfig) (provider.Generator, error) {
	c, ok := cfg.Provider(pc.ID)
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", pc.ID)
	}
	timeout := time.Duration(cfg.Analysis.Timeout) * time.Second

	switch pc.ID {
	case model.ProviderGemini:
		return gemini.New(ctx, c, pc, timeout)
	case model.ProviderOpenAI:
		return openai.New(ctx, c, pc, timeout)
	case model.ProviderDeepSeek:
		return deepseek.New(ctx, c, pc, timeout)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", pc.ID)
	}
}

// NewModelLister 创建模型列表客户端，目前只有 Gemini 提供
func NewModelLister(cfg *config.Config, id model.ProviderID) (provider.ModelLister, error) {
	switch id {
	case model.ProviderGemini:
		return gemini.NewModelClient(cfg.Providers.Gemini.ModelsURL), nil
	case model.ProviderOpenAI, model.ProviderDeepSeek:
		return nil, fmt.Errorf("%w: list models for %s", provider.ErrUnsupported, id)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", id)
	}
}
