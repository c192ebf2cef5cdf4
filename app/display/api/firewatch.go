package api

import (
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
)

// Provider 分析服务商选择
type Provider struct {
	Id     string `json:"id"`
	Model  string `json:"model"`
	ApiKey string `json:"api_key"`
}

type RunReq struct {
	SessionId  string    `json:"session_id"`
	Keyword    string    `json:"keyword"`
	TimeWindow string    `json:"time_window"`
	Sources    []string  `json:"sources"`
	Provider   *Provider `json:"provider"`
	// Wait 为 true 时等待分析结束再返回
	Wait bool `json:"wait"`
}

type AnalyzeReq struct {
	Id       string    `json:"id"`
	Provider *Provider `json:"provider"`
	Wait     bool      `json:"wait"`
}

type GetSessionReq struct {
	Id string `json:"id"`
}

type DeleteSessionReq struct {
	Id string `json:"id"`
}

type DeleteSessionReply struct{}

type GetFeedReq struct {
	Id string `json:"id"`
}

type GetFeedReply struct {
	Content string `json:"content"`
}

// SessionReply 会话当前状态
type SessionReply struct {
	SessionId string `json:"session_id"`
	model.Snapshot
}

type ListProvidersReq struct{}

type ListProvidersReply struct {
	Providers []engine.ProviderInfo `json:"providers"`
}

type ListModelsReq struct {
	Id     string `json:"id"`
	ApiKey string `json:"api_key"`
}

type ListModelsReply struct {
	Models []string `json:"models"`
}

type PreviewReq struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

type PreviewReply struct {
	Article *preview.Article `json:"article"`
}
