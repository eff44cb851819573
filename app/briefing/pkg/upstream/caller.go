package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
)

const (
	DefaultTimeout = 10 * time.Second
	// MaxRetries 瞬时错误最多重试一次
	MaxRetries     = 1
	DefaultBackoff = 500 * time.Millisecond
)

// Options 调用策略
type Options struct {
	Timeout time.Duration
	// Retries 瞬时错误的重试次数，0 取默认值 MaxRetries，负数表示不重试
	Retries int
	Backoff time.Duration
	// QPS/RPM 为 0 时不限速
	QPS int
	RPM int
}

// Caller 为每次外部调用施加超时、有限重试与限速，可并发使用
type Caller struct {
	timeout time.Duration
	retries int
	backoff time.Duration
	limiter *rate.Limiter
}

// NewCaller 创建调用器，零值字段使用默认值
func NewCaller(opts Options) *Caller {
	c := &Caller{
		timeout: opts.Timeout,
		retries: opts.Retries,
		backoff: opts.Backoff,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	switch {
	case c.retries == 0 || c.retries > MaxRetries:
		c.retries = MaxRetries
	case c.retries < 0:
		c.retries = 0
	}
	if c.backoff <= 0 {
		c.backoff = DefaultBackoff
	}
	if opts.RPM > 0 {
		burst := opts.QPS
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(opts.RPM)/60.0), burst)
	} else if opts.QPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.QPS), opts.QPS)
	}
	return c
}

// Timeout 单次调用超时时间
func (c *Caller) Timeout() time.Duration {
	return c.timeout
}

// Call 执行 fn：每次尝试独立超时；仅对瞬时错误重试，超时与鉴权/额度错误直接返回
// 父 context 被取消时返回 context 的错误
func Call[T any](ctx context.Context, c *Caller, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return zero, ctxErr(ctx, err)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		v, err := fn(callCtx)
		timedOut := errors.Is(callCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if timedOut && !errors.Is(err, ErrUpstreamTimeout) {
			err = fmt.Errorf("%s: %w: %v", name, ErrUpstreamTimeout, err)
		}
		lastErr = err

		if !Retryable(err) || attempt == c.retries {
			break
		}
		logger.Log.Warnf("调用 [%s] 失败，准备重试 (%d/%d): %v", name, attempt+1, c.retries, err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(c.backoff):
		}
	}
	return zero, lastErr
}

func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
