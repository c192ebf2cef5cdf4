package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/kedah-infodemic/firewatch/app/display/internal/conf"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	fwLogger "github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
)

// NewFirewatchConfig 将 internal/conf.Firewatch 转换为 pkg/config.Config，缺省项使用默认值
func NewFirewatchConfig(c *conf.Firewatch) (*config.Config, error) {
	cfg := &config.Config{}
	if c == nil {
		c = &conf.Firewatch{}
	}

	if f := c.Feed; f != nil {
		cfg.Feed = config.FeedConfig{
			Endpoint:  f.Endpoint,
			Language:  f.Language,
			Region:    f.Region,
			Edition:   f.Edition,
			Timeout:   int(f.Timeout),
			UserAgent: f.UserAgent,
			QPS:       f.Qps,
			Burst:     int(f.Burst),
		}
	}
	if q := c.Query; q != nil {
		cfg.Query.DiscourseTerms = q.DiscourseTerms
	}
	if a := c.Analysis; a != nil {
		cfg.Analysis = config.AnalysisConfig{
			Language:  a.Language,
			QuotaWait: int(a.QuotaWait),
			Timeout:   int(a.Timeout),
		}
	}
	if p := c.Providers; p != nil {
		cfg.Providers = config.ProvidersConfig{
			Gemini:   llmConfig(p.Gemini),
			OpenAI:   llmConfig(p.Openai),
			DeepSeek: llmConfig(p.Deepseek),
		}
	}
	if l := c.Log; l != nil {
		cfg.Log = config.LogConfig{
			Level:      l.Level,
			File:       l.File,
			MaxSizeMB:  int(l.MaxSizeMb),
			MaxBackups: int(l.MaxBackups),
			MaxAgeDays: int(l.MaxAgeDays),
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func llmConfig(l *conf.LLM) config.LLMConfig {
	if l == nil {
		return config.LLMConfig{}
	}
	return config.LLMConfig{
		BaseURL:      l.BaseUrl,
		ModelsURL:    l.ModelsUrl,
		APIKey:       l.ApiKey,
		DefaultModel: l.DefaultModel,
		Models:       l.Models,
	}
}

// NewFirewatchEngine 初始化检索与分析引擎
func NewFirewatchEngine(cfg *config.Config, logger log.Logger) (*engine.Engine, func(), error) {
	h := log.NewHelper(logger)

	// 初始化日志
	if err := fwLogger.InitLogger(cfg.Log); err != nil {
		h.Errorf("Failed to init firewatch logger: %v", err)
		_ = fwLogger.InitLogger(config.LogConfig{Level: "info"}) // 降级处理
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		h.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		h.Info("Cleaning up firewatch engine")
	}
	return eng, cleanup, nil
}

// NewPreviewExtractor 文章预览共用 feed 的超时与 User-Agent
func NewPreviewExtractor(cfg *config.Config) *preview.Extractor {
	return preview.NewExtractor(cfg.Feed)
}
