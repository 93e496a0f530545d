package magdoc

import (
	"context"
	"io"
	"time"
)

// ArchivedArticle is a rendered article kept in the archive.
type ArchivedArticle struct {
	ID          string    `json:"id"`
	IssueDate   string    `json:"issueDate"`
	SourceURL   string    `json:"sourceUrl"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Markdown    string    `json:"markdown"`
	ContentHash string    `json:"contentHash"`
	SiteName    string    `json:"siteName"`
	Author      string    `json:"author"`
	Published   time.Time `json:"published"`
	ArchivedAt  time.Time `json:"archivedAt"`
}

// Validate returns an error if the archived article contains invalid fields.
func (a *ArchivedArticle) Validate() error {
	if a.IssueDate == "" {
		return Errorf(EINVALID, "archived article issue date required")
	}
	if a.SourceURL == "" {
		return Errorf(EINVALID, "archived article source URL required")
	}
	if a.Title == "" {
		return Errorf(EINVALID, "archived article title required")
	}
	return nil
}

// ArticleService represents a service for managing archived articles.
type ArticleService interface {
	// CreateArticle archives a new article.
	CreateArticle(ctx context.Context, a *ArchivedArticle) error

	// FindArticleByID retrieves an archived article by ID.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByID(ctx context.Context, id string) (*ArchivedArticle, error)

	// UpdateArticle replaces the contents of an archived article in place.
	// Returns ENOTFOUND if the article does not exist.
	UpdateArticle(ctx context.Context, a *ArchivedArticle) error

	// FindArticles retrieves archived articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*ArchivedArticle, error)

	// DeleteArticle permanently removes an archived article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID          *string `json:"id"`
	IssueDate   *string `json:"issueDate"`
	SourceURL   *string `json:"sourceUrl"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Renderer writes articles in a document format.
type Renderer interface {
	// RenderArticle writes a to w. The label titles articles that have no
	// header of their own, such as digests and cartoons.
	RenderArticle(w io.Writer, label string, a Article, images ImageResolver) error
}
