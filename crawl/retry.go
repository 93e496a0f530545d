package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/magdoc"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying up to 3 times with delays of 1s, 2s
// and 4s. A page reported as ENOTFOUND is not retried.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	return withRetry(ctx, url, fetch, logger, delays)
}

// DownloadWithRetryDelays is FetchWithRetryDelays for binary resources.
func DownloadWithRetryDelays(ctx context.Context, url string, download func(context.Context, string) ([]byte, error), logger LogFunc, delays []time.Duration) ([]byte, error) {
	return withRetry(ctx, url, download, logger, delays)
}

func withRetry[T any](ctx context.Context, url string, get func(context.Context, string) (T, error), logger LogFunc, delays []time.Duration) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := get(ctx, url)
		if err == nil {
			return v, nil
		}
		lastErr = err

		// A missing page stays missing.
		if magdoc.ErrorCode(err) == magdoc.ENOTFOUND {
			break
		}
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
