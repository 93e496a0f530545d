package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/mock"
	magslog "github.com/fwojciec/magdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rates = "https://www.economist.com/leaders/2024/01/04/rates"

// newLogger returns a text logger at level writing to buf.
func newLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("logs the page size of a fetch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := magslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "<html>rates</html>", nil },
		}, newLogger(&buf, slog.LevelInfo))

		html, err := fetcher.Fetch(context.Background(), rates)

		require.NoError(t, err)
		assert.Equal(t, "<html>rates</html>", html)
		assert.Contains(t, buf.String(), "level=INFO msg=fetch url="+rates+" bytes=18 duration=")
	})

	t.Run("warns about failed fetches", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := magslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "", magdoc.Errorf(magdoc.ENOTFOUND, "HTTP 404 for %s", url)
			},
		}, newLogger(&buf, slog.LevelWarn))

		_, err := fetcher.Fetch(context.Background(), rates)

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=WARN msg=fetch url="+rates)
		assert.Contains(t, out, "code=not_found")
		assert.Contains(t, out, `err="HTTP 404 for `+rates+`"`)
	})

	t.Run("stays quiet about successes at warning level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := magslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "<html></html>", nil },
		}, newLogger(&buf, slog.LevelWarn))

		_, err := fetcher.Fetch(context.Background(), rates)

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("closes the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		closed := errors.New("already closed")
		fetcher := magslog.NewLoggingFetcher(&mock.Fetcher{
			CloseFn: func() error { return closed },
		}, newLogger(&bytes.Buffer{}, slog.LevelInfo))

		assert.ErrorIs(t, fetcher.Close(), closed)
	})
}

func TestLoggingDownloader_Download(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.Downloader{
		DownloadFn: func(ctx context.Context, url string) ([]byte, error) {
			return []byte("GIF89a"), nil
		},
	}

	data, err := magslog.NewLoggingDownloader(inner, logger).Download(context.Background(), "https://cdn.static-economist.com/x.gif")

	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), data)
	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "bytes=6")
}
