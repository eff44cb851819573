package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastCaller(retries int) *Caller {
	return NewCaller(Options{Timeout: 50 * time.Millisecond, Retries: retries, Backoff: time.Millisecond})
}

func TestCallSuccess(t *testing.T) {
	v, err := Call(context.Background(), fastCaller(0), "ok", func(ctx context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestCallRetriesTransientOnce(t *testing.T) {
	var calls int32
	_, err := Call(context.Background(), fastCaller(0), "flaky", func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, CheckStatus("test", http.StatusBadGateway, []byte("bad gateway"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCallRecoversOnRetry(t *testing.T) {
	var calls int32
	v, err := Call(context.Background(), fastCaller(0), "flaky", func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, Transport("test", errors.New("connection reset"))
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCallDoesNotRetryAuthOrQuota(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			var calls int32
			_, err := Call(context.Background(), fastCaller(0), "auth", func(ctx context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				return 0, CheckStatus("test", code, nil)
			})
			require.Error(t, err)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
			assert.False(t, Retryable(err))
		})
	}
}

func TestCallDoesNotRetryMalformed(t *testing.T) {
	var calls int32
	_, err := Call(context.Background(), fastCaller(0), "bad", func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, Malformed("test", errors.New("unexpected EOF"))
	})
	assert.ErrorIs(t, err, ErrUpstreamMalformed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCallTimeoutIsNotRetried(t *testing.T) {
	var calls int32
	_, err := Call(context.Background(), fastCaller(0), "slow", func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCallParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Call(ctx, fastCaller(0), "cancelled", func(ctx context.Context) (int, error) {
		return 0, Transport("test", ctx.Err())
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNegativeRetriesDisablesRetry(t *testing.T) {
	var calls int32
	_, err := Call(context.Background(), fastCaller(-1), "once", func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, Transport("test", errors.New("refused"))
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "credential_missing", Kind(fmt.Errorf("serper: %w", ErrCredentialMissing)))
	assert.Equal(t, "timeout", Kind(Transport("x", context.DeadlineExceeded)))
	assert.Equal(t, "malformed", Kind(Malformed("x", errors.New("eof"))))
	assert.Equal(t, "unreachable", Kind(CheckStatus("x", 503, nil)))
	assert.Equal(t, "status_401", Kind(CheckStatus("x", 401, nil)))
	assert.Equal(t, "unknown", Kind(errors.New("boom")))
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus("x", 200, nil))
	assert.NoError(t, CheckStatus("x", 204, nil))

	err := CheckStatus("x", 500, make([]byte, 2048))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Len(t, se.Body, 512)
}
