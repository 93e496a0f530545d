package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/magdoc"
	main "github.com/fwojciec/magdoc/cmd/magdoc"
	"github.com/fwojciec/magdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archived() *magdoc.ArchivedArticle {
	return &magdoc.ArchivedArticle{
		ID:        "art-123",
		IssueDate: "2024-01-06",
		SourceURL: articleURL,
		Kind:      "plain",
		Title:     "Holding pattern",
		Markdown:  "## Monetary policy: Holding pattern\n",
		Author:    "The Economist",
		Published: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestArchiveListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists archived articles", func(t *testing.T) {
		t.Parallel()

		var got magdoc.ArticleFilter
		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, f magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
				got = f
				return []*magdoc.ArchivedArticle{archived()}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		err := (&main.ArchiveListCmd{Issue: "2024-01-06", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.IssueDate)
		assert.Equal(t, "2024-01-06", *got.IssueDate)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, stdout.String(), "art-123")
		assert.Contains(t, stdout.String(), "Holding pattern")
		assert.Contains(t, stdout.String(), articleURL)
	})

	t.Run("lists every issue without a filter", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, f magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
				assert.Nil(t, f.IssueDate)
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		err := (&main.ArchiveListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No archived articles found")
	})

	t.Run("reports service errors", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(context.Context, magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
				return nil, errors.New("database is locked")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Articles: articles,
		}

		err := (&main.ArchiveListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestArchiveShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the archived markdown", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticleByIDFn: func(_ context.Context, id string) (*magdoc.ArchivedArticle, error) {
				assert.Equal(t, "art-123", id)
				return archived(), nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		err := (&main.ArchiveShowCmd{ID: "art-123"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<!-- 2024-01-06 "+articleURL+" -->\n"+
			"<!-- The Economist 2024-01-04 -->\n"+
			"## Monetary policy: Holding pattern\n", stdout.String())
	})

	t.Run("reports a missing article", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticleByIDFn: func(context.Context, string) (*magdoc.ArchivedArticle, error) {
				return nil, magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Articles: articles,
		}

		err := (&main.ArchiveShowCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, magdoc.ENOTFOUND, magdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "article not found")
	})
}

func TestArchiveDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires --force", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Articles: &mock.ArticleService{},
		}

		err := (&main.ArchiveDeleteCmd{ID: "art-123"}).Run(deps)

		assert.Equal(t, magdoc.EINVALID, magdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes the article", func(t *testing.T) {
		t.Parallel()

		var deleted string
		articles := &mock.ArticleService{
			DeleteArticleFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		err := (&main.ArchiveDeleteCmd{ID: "art-123", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "art-123", deleted)
		assert.Contains(t, stdout.String(), "Deleted article art-123")
	})

	t.Run("points at archive list for unknown IDs", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			DeleteArticleFn: func(context.Context, string) error {
				return magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Articles: articles,
		}

		err := (&main.ArchiveDeleteCmd{ID: "nope", Force: true}).Run(deps)

		assert.Equal(t, magdoc.ENOTFOUND, magdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "magdoc archive list")
	})
}
