package mock

import (
	"context"
	"io"

	"github.com/fwojciec/magdoc"
)

var (
	_ magdoc.ArticleService = (*ArticleService)(nil)
	_ magdoc.ImageResolver  = (*ImageResolver)(nil)
	_ magdoc.Renderer       = (*Renderer)(nil)
)

// ArticleService is a mock implementation of magdoc.ArticleService.
type ArticleService struct {
	CreateArticleFn   func(ctx context.Context, a *magdoc.ArchivedArticle) error
	FindArticleByIDFn func(ctx context.Context, id string) (*magdoc.ArchivedArticle, error)
	UpdateArticleFn   func(ctx context.Context, a *magdoc.ArchivedArticle) error
	FindArticlesFn    func(ctx context.Context, filter magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error)
	DeleteArticleFn   func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, a *magdoc.ArchivedArticle) error {
	return s.CreateArticleFn(ctx, a)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*magdoc.ArchivedArticle, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, a *magdoc.ArchivedArticle) error {
	return s.UpdateArticleFn(ctx, a)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}

// ImageResolver is a mock implementation of magdoc.ImageResolver.
type ImageResolver struct {
	ResolveImageFn func(url string) (string, bool)
}

func (r *ImageResolver) ResolveImage(url string) (string, bool) {
	return r.ResolveImageFn(url)
}

// Renderer is a mock implementation of magdoc.Renderer.
type Renderer struct {
	RenderArticleFn func(w io.Writer, label string, a magdoc.Article, images magdoc.ImageResolver) error
}

func (r *Renderer) RenderArticle(w io.Writer, label string, a magdoc.Article, images magdoc.ImageResolver) error {
	return r.RenderArticleFn(w, label, a, images)
}
