package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/mock"
	magslog "github.com/fwojciec/magdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArticleService(t *testing.T) {
	t.Parallel()

	t.Run("logs created articles", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArticleService{
			CreateArticleFn: func(ctx context.Context, a *magdoc.ArchivedArticle) error {
				a.ID = "abc"
				return nil
			},
		}

		err := magslog.NewLoggingArticleService(inner, logger).CreateArticle(context.Background(), &magdoc.ArchivedArticle{
			IssueDate: "2024-01-06",
			SourceURL: "https://www.economist.com/leaders/2024/01/04/rates",
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "archive article")
		assert.Contains(t, output, "id=abc")
		assert.Contains(t, output, "issue=2024-01-06")
	})

	t.Run("logs updated articles with their error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got *magdoc.ArchivedArticle
		inner := &mock.ArticleService{
			UpdateArticleFn: func(ctx context.Context, a *magdoc.ArchivedArticle) error {
				got = a
				return magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
			},
		}
		a := &magdoc.ArchivedArticle{
			ID:        "abc",
			IssueDate: "2024-01-06",
			SourceURL: "https://www.economist.com/leaders/2024/01/04/rates",
		}

		err := magslog.NewLoggingArticleService(inner, logger).UpdateArticle(context.Background(), a)

		assert.Equal(t, magdoc.ENOTFOUND, magdoc.ErrorCode(err))
		assert.Same(t, a, got)
		output := buf.String()
		assert.Contains(t, output, "update article")
		assert.Contains(t, output, "id=abc")
		assert.Contains(t, output, "article not found")
	})

	t.Run("delegates lookups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArticleService{
			FindArticleByIDFn: func(ctx context.Context, id string) (*magdoc.ArchivedArticle, error) {
				return nil, magdoc.Errorf(magdoc.ENOTFOUND, "article %q not found", id)
			},
			FindArticlesFn: func(ctx context.Context, filter magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
				return []*magdoc.ArchivedArticle{{ID: "a"}}, nil
			},
			DeleteArticleFn: func(ctx context.Context, id string) error {
				return nil
			},
		}
		svc := magslog.NewLoggingArticleService(inner, logger)

		_, err := svc.FindArticleByID(context.Background(), "missing")
		assert.Equal(t, magdoc.ENOTFOUND, magdoc.ErrorCode(err))

		articles, err := svc.FindArticles(context.Background(), magdoc.ArticleFilter{})
		require.NoError(t, err)
		assert.Len(t, articles, 1)

		require.NoError(t, svc.DeleteArticle(context.Background(), "a"))
		assert.Contains(t, buf.String(), "delete article")
	})
}
