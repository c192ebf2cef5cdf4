package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

// GeneratorFactory 按服务商配置创建生成器
type GeneratorFactory func(ctx context.Context, pc model.ProviderConfig) (provider.Generator, error)

// Analyzer 将 ResultSet 交给 LLM 分析并对结果分类
type Analyzer struct {
	newGenerator GeneratorFactory
	language     string
	now          func() time.Time
}

// NewAnalyzer 创建分析器，language 为 ms 或 en
func NewAnalyzer(newGenerator GeneratorFactory, language string) *Analyzer {
	return &Analyzer{newGenerator: newGenerator, language: language, now: time.Now}
}

// Analyze 执行一次分析请求。失败以 Outcome 返回，不会返回 error。
func (a *Analyzer) Analyze(ctx context.Context, rs model.ResultSet, pc model.ProviderConfig) model.AnalysisResult {
	res := model.AnalysisResult{Provider: pc.ID, Model: pc.Model}
	finish := func(o model.Outcome, detail string) model.AnalysisResult {
		res.Outcome = o
		res.Detail = detail
		res.CompletedAt = a.now()
		return res
	}

	if len(rs) == 0 || strings.TrimSpace(pc.Credential) == "" {
		return finish(model.OutcomeMissingCredential, "")
	}

	gen, err := a.newGenerator(ctx, pc)
	if err != nil {
		logger.Log.Errorf("创建生成器失败 [%s]: %v", pc, err)
		return finish(model.OutcomeUnknownFailure, err.Error())
	}

	prompt := BuildPrompt(rs, a.language)
	logger.Log.Infof("请求分析 [%s]，共 %d 条新闻", pc, len(rs))

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		var pe *provider.Error
		if errors.As(err, &pe) {
			logger.Log.Warnf("分析失败 [%s]: %s: %v", pc, pe.Kind, pe.Err)
			return finish(pe.Kind, pe.Err.Error())
		}
		logger.Log.Errorf("分析失败 [%s]: %v", pc, err)
		return finish(model.OutcomeUnknownFailure, err.Error())
	}

	if strings.TrimSpace(text) == "" {
		return finish(model.OutcomeEmptyResponse, "")
	}

	res.Markdown = text
	return finish(model.OutcomeSuccess, "")
}
