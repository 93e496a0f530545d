package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/magdoc"
)

var _ magdoc.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with logging.
type LoggingArticleService struct {
	next   magdoc.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next magdoc.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

func (s *LoggingArticleService) CreateArticle(ctx context.Context, a *magdoc.ArchivedArticle) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("archive article",
			"url", a.SourceURL,
			"issue", a.IssueDate,
			"id", a.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, a)
}

func (s *LoggingArticleService) UpdateArticle(ctx context.Context, a *magdoc.ArchivedArticle) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("update article",
			"url", a.SourceURL,
			"issue", a.IssueDate,
			"id", a.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateArticle(ctx, a)
}

func (s *LoggingArticleService) FindArticleByID(ctx context.Context, id string) (a *magdoc.ArchivedArticle, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find article",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticleByID(ctx, id)
}

func (s *LoggingArticleService) FindArticles(ctx context.Context, filter magdoc.ArticleFilter) (articles []*magdoc.ArchivedArticle, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find articles",
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticles(ctx, filter)
}

func (s *LoggingArticleService) DeleteArticle(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete article",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteArticle(ctx, id)
}
