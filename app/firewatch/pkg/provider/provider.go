package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

// ErrUnsupported 服务商不支持该操作
var ErrUnsupported = errors.New("operation not supported by provider")

// Generator 统一的文本生成能力，各服务商适配器实现该接口
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelLister 列出凭据可用的模型
type ModelLister interface {
	ListModels(ctx context.Context, apiKey string) ([]string, error)
}

// Error 已分类的服务商错误
type Error struct {
	Kind model.Outcome
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Signals 服务商错误特征。
// 判定顺序为计费、配额、凭据，都不匹配时视为未知错误。Markers 需为小写。
type Signals struct {
	BillingCodes      []int
	BillingMarkers    []string
	QuotaCodes        []int
	QuotaMarkers      []string
	CredentialCodes   []int
	CredentialMarkers []string
}

var statusCodeRe = regexp.MustCompile(`status code: (\d{3})`)

// StatusCode 从错误信息中提取 HTTP 状态码，没有时返回 0
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	m := statusCodeRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}

// Classify 根据错误特征返回分析结果分类
func (s Signals) Classify(err error) model.Outcome {
	if err == nil {
		return model.OutcomeSuccess
	}
	msg := strings.ToLower(err.Error())
	code := StatusCode(err)

	switch {
	case matches(msg, code, s.BillingMarkers, s.BillingCodes):
		return model.OutcomeBillingRequired
	case matches(msg, code, s.QuotaMarkers, s.QuotaCodes):
		return model.OutcomeQuotaExceeded
	case matches(msg, code, s.CredentialMarkers, s.CredentialCodes):
		return model.OutcomeInvalidCredential
	}
	return model.OutcomeUnknownFailure
}

// Wrap 将原始错误包装为 *Error，已分类的错误原样返回
func (s Signals) Wrap(err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Kind: s.Classify(err), Err: err}
}

func matches(msg string, code int, markers []string, codes []int) bool {
	if code != 0 && slices.Contains(codes, code) {
		return true
	}
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
