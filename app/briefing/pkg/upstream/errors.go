// Package upstream 统一外部调用的错误分类、超时与重试策略
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrCredentialMissing 未配置 API Key
	ErrCredentialMissing = errors.New("upstream: credential missing")
	// ErrUpstreamUnreachable 网络错误或服务端 5xx
	ErrUpstreamUnreachable = errors.New("upstream: unreachable")
	// ErrUpstreamMalformed 响应无法解析或不含可用数据
	ErrUpstreamMalformed = errors.New("upstream: malformed response")
	// ErrUpstreamTimeout 单次调用超时
	ErrUpstreamTimeout = errors.New("upstream: timeout")
)

// StatusError 外部服务返回了非 2xx 状态码
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.Code, e.Body)
}

// Unwrap 5xx 视为服务不可达，其余状态码不归入任何分类
func (e *StatusError) Unwrap() error {
	if e.Code >= http.StatusInternalServerError {
		return ErrUpstreamUnreachable
	}
	return nil
}

// AuthOrQuota 鉴权失败或额度耗尽，这类错误不重试
func (e *StatusError) AuthOrQuota() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden || e.Code == http.StatusTooManyRequests
}

// CheckStatus 非 2xx 时返回 StatusError
func CheckStatus(provider string, code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &StatusError{Provider: provider, Code: code, Body: string(body)}
}

// Transport 将 http.Client.Do 的错误归类为超时或不可达
func Transport(provider string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s request: %w: %v", provider, ErrUpstreamTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	return fmt.Errorf("%s request: %w: %v", provider, ErrUpstreamUnreachable, err)
}

// Malformed 包装解析失败
func Malformed(provider string, err error) error {
	return fmt.Errorf("%s response: %w: %v", provider, ErrUpstreamMalformed, err)
}

// Retryable 是否为可重试的瞬时错误：不可达且不是鉴权/额度问题
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) && se.AuthOrQuota() {
		return false
	}
	return errors.Is(err, ErrUpstreamUnreachable)
}

// Kind 返回错误分类名，用于日志
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCredentialMissing):
		return "credential_missing"
	case errors.Is(err, ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamMalformed):
		return "malformed"
	case errors.Is(err, ErrUpstreamUnreachable):
		return "unreachable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("status_%d", se.Code)
	}
	return "unknown"
}
