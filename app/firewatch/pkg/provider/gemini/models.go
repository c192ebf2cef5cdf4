package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

// ModelClient Gemini 模型列表客户端
type ModelClient struct {
	modelsURL string
	client    *http.Client
}

// NewModelClient 创建模型列表客户端
func NewModelClient(modelsURL string) *ModelClient {
	return &ModelClient{
		modelsURL: modelsURL,
		client:    http.DefaultClient,
	}
}

// Ensure ModelClient implements provider.ModelLister
var _ provider.ModelLister = (*ModelClient)(nil)

// listModelsResponse Gemini models 接口响应
type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

// ListModels 返回支持 generateContent 的模型 ID，去掉 "models/" 前缀
func (c *ModelClient) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		resp, err := c.listPage(ctx, apiKey, pageToken)
		if err != nil {
			return nil, err
		}
		for _, m := range resp.Models {
			if !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
				continue
			}
			ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return ids, nil
}

func (c *ModelClient) listPage(ctx context.Context, apiKey, pageToken string) (*listModelsResponse, error) {
	u, err := url.Parse(c.modelsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid models URL: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, Signals.Wrap(fmt.Errorf("gemini api error, status code: %d, message: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}

	var out listModelsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &out, nil
}
