package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultWait 配额超限后的固定等待时间
	DefaultWait = 30 * time.Second
	// DefaultMaxRetries 自动重试次数
	DefaultMaxRetries = 1
)

// Operation 可重试的操作，成功时返回 nil
type Operation func() error

// ShouldRetryFunc 判断错误是否可以重试
type ShouldRetryFunc func(error) bool

// NotifyFunc 每次等待开始前调用，wait 为本次等待时长
type NotifyFunc func(err error, wait time.Duration)

// Policy 固定间隔、有限次数的重试策略
type Policy struct {
	wait       time.Duration
	maxRetries uint64
	newTimer   func() backoff.Timer
}

// Option 策略选项
type Option func(*Policy)

// WithTimer 替换等待使用的计时器
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(p *Policy) { p.newTimer = newTimer }
}

// WithMaxRetries 设置最大重试次数
func WithMaxRetries(n uint64) Option {
	return func(p *Policy) { p.maxRetries = n }
}

// NewPolicy 创建重试策略，默认只自动重试一次
func NewPolicy(wait time.Duration, opts ...Option) *Policy {
	p := &Policy{wait: wait, maxRetries: DefaultMaxRetries}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait 返回固定等待时长
func (p *Policy) Wait() time.Duration { return p.wait }

// Do 执行操作，可重试的错误在等待后重试，直到成功、遇到不可重试错误、次数用尽或 ctx 结束。
// 次数用尽时返回最后一次的错误。
func (p *Policy) Do(ctx context.Context, op Operation, shouldRetry ShouldRetryFunc, notify NotifyFunc) error {
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.wait), p.maxRetries), ctx)

	retryableOp := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if shouldRetry(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}
	return backoff.RetryNotifyWithTimer(retryableOp, bo, backoff.Notify(notify), timer)
}
