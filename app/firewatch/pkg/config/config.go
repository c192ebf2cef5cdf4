package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

const (
	DefaultFeedEndpoint = "https://news.google.com/rss/search"
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	GeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai/"
	GeminiModelsURL = "https://generativelanguage.googleapis.com/v1beta/models"
	OpenAIBaseURL   = "https://api.openai.com/v1"
	DeepSeekBaseURL = "https://api.deepseek.com"
)

// Config 项目配置结构体
type Config struct {
	Feed      FeedConfig      `yaml:"feed"`
	Query     QueryConfig     `yaml:"query"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Providers ProvidersConfig `yaml:"providers"`
	Log       LogConfig       `yaml:"log"`
}

// FeedConfig 新闻 RSS 检索配置
type FeedConfig struct {
	Endpoint  string  `yaml:"endpoint"`
	Language  string  `yaml:"language"` // hl
	Region    string  `yaml:"region"`   // gl
	Edition   string  `yaml:"edition"`  // ceid
	Timeout   int     `yaml:"timeout"`  // 秒
	UserAgent string  `yaml:"user_agent"`
	QPS       float64 `yaml:"qps"`
	Burst     int     `yaml:"burst"`
}

// QueryConfig 查询构造配置
type QueryConfig struct {
	// DiscourseTerms 同时选择新闻门户与社交平台时追加的话题词
	DiscourseTerms []string `yaml:"discourse_terms"`
}

// AnalysisConfig 分析请求配置
type AnalysisConfig struct {
	Language  string `yaml:"language"`   // ms 或 en
	QuotaWait int    `yaml:"quota_wait"` // 秒
	Timeout   int    `yaml:"timeout"`    // 秒
}

// ProvidersConfig 各服务商配置
type ProvidersConfig struct {
	Gemini   LLMConfig `yaml:"gemini"`
	OpenAI   LLMConfig `yaml:"openai"`
	DeepSeek LLMConfig `yaml:"deepseek"`
}

// LLMConfig 单个服务商配置
type LLMConfig struct {
	BaseURL      string   `yaml:"base_url"`
	ModelsURL    string   `yaml:"models_url"`
	APIKey       string   `yaml:"api_key"` // 可选，请求未携带凭据时使用
	DefaultModel string   `yaml:"default_model"`
	Models       []string `yaml:"models"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default 返回填充默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize 填充默认值并校验，用于非 YAML 来源构造的配置
func (c *Config) Normalize() error {
	c.setDefaults()
	return c.Validate()
}

func (c *Config) setDefaults() {
	if c.Feed.Endpoint == "" {
		c.Feed.Endpoint = DefaultFeedEndpoint
	}
	if c.Feed.Language == "" {
		c.Feed.Language = "ms"
	}
	if c.Feed.Region == "" {
		c.Feed.Region = "MY"
	}
	if c.Feed.Edition == "" {
		c.Feed.Edition = c.Feed.Region + ":" + c.Feed.Language
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 15
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = DefaultUserAgent
	}
	if c.Feed.QPS == 0 {
		c.Feed.QPS = 2
	}
	if c.Feed.Burst == 0 {
		c.Feed.Burst = 2
	}

	if len(c.Query.DiscourseTerms) == 0 {
		c.Query.DiscourseTerms = []string{"viral", "isu"}
	}

	if c.Analysis.Language == "" {
		c.Analysis.Language = "ms"
	}
	if c.Analysis.QuotaWait == 0 {
		c.Analysis.QuotaWait = 30
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = 120
	}

	setLLMDefaults(&c.Providers.Gemini, GeminiBaseURL, "gemini-2.0-flash",
		"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-flash-8b", "gemini-1.5-pro")
	if c.Providers.Gemini.ModelsURL == "" {
		c.Providers.Gemini.ModelsURL = GeminiModelsURL
	}
	setLLMDefaults(&c.Providers.OpenAI, OpenAIBaseURL, "gpt-4o-mini", "gpt-4o-mini")
	setLLMDefaults(&c.Providers.DeepSeek, DeepSeekBaseURL, "deepseek-chat", "deepseek-chat")

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 14
	}
}

func setLLMDefaults(c *LLMConfig, baseURL, defaultModel string, models ...string) {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.DefaultModel == "" {
		c.DefaultModel = defaultModel
	}
	if len(c.Models) == 0 {
		c.Models = models
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.Feed.Endpoint, "http://") && !strings.HasPrefix(c.Feed.Endpoint, "https://") {
		errs = append(errs, fmt.Errorf("feed.endpoint must be an http(s) URL: %q", c.Feed.Endpoint))
	}
	if c.Feed.Timeout < 0 {
		errs = append(errs, errors.New("feed.timeout must not be negative"))
	}
	if c.Feed.QPS < 0 {
		errs = append(errs, errors.New("feed.qps must not be negative"))
	}
	if c.Analysis.Language != "ms" && c.Analysis.Language != "en" {
		errs = append(errs, fmt.Errorf("analysis.language must be ms or en: %q", c.Analysis.Language))
	}
	if c.Analysis.QuotaWait < 0 {
		errs = append(errs, errors.New("analysis.quota_wait must not be negative"))
	}
	return errors.Join(errs...)
}

// Provider 返回指定服务商的配置
func (c *Config) Provider(id model.ProviderID) (LLMConfig, bool) {
	switch id {
	case model.ProviderGemini:
		return c.Providers.Gemini, true
	case model.ProviderOpenAI:
		return c.Providers.OpenAI, true
	case model.ProviderDeepSeek:
		return c.Providers.DeepSeek, true
	}
	return LLMConfig{}, false
}
