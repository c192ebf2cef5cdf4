package domain

import (
	"errors"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

var (
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found")
	// ErrRunInProgress 会话上已有运行中的任务
	ErrRunInProgress = errors.New("a run is already in progress for this session")
	// ErrLinkNotInSession 预览地址不在会话当前的 ResultSet 中
	ErrLinkNotInSession = errors.New("link is not part of the session results")
)

// RunInput 发起检索的参数
type RunInput struct {
	SessionID string
	Keyword   string
	Window    string
	Sources   []string
	Provider  ProviderInput
	// Wait 为 true 时同步等待检索与分析结束
	Wait bool
}

// ProviderInput 请求携带的服务商参数
type ProviderInput struct {
	ID     string
	Model  string
	APIKey string
}

// RunView 会话当前状态
type RunView struct {
	SessionID string
	model.Snapshot
}
