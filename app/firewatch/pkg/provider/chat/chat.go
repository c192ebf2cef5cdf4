package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

// Options OpenAI 兼容接口的连接参数
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client 基于 eino ChatModel 的生成器，错误按服务商特征分类
type Client struct {
	cm      model.BaseChatModel
	signals provider.Signals
}

var _ provider.Generator = (*Client)(nil)

// New 使用已有的 ChatModel 创建生成器
func New(cm model.BaseChatModel, signals provider.Signals) *Client {
	return &Client{cm: cm, signals: signals}
}

// NewOpenAICompatible 创建连接 OpenAI 兼容接口的生成器
func NewOpenAICompatible(ctx context.Context, opts Options, signals provider.Signals) (*Client, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: opts.BaseURL,
		APIKey:  opts.APIKey,
		Model:   opts.Model,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return New(cm, signals), nil
}

// Generate 以单条用户消息发送 prompt，返回去除首尾空白的文本
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.UserMessage(prompt),
	}

	resp, err := c.cm.Generate(ctx, messages)
	if err != nil {
		return "", c.signals.Wrap(err)
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Content), nil
}
