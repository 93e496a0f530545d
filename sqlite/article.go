package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/magdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ magdoc.ArticleService = (*ArticleService)(nil)

const articleColumns = `id, issue_date, source_url, kind, title, markdown, content_hash,
	site_name, author, published, archived_at`

// ArticleService implements magdoc.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// HashContent computes the xxHash of content and returns it as hex.
func HashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}

// CreateArticle archives a new article. The ID, content hash and archive
// time are assigned once the row is stored. An issue holds each source URL at most once;
// archiving it again returns EINVALID.
func (s *ArticleService) CreateArticle(ctx context.Context, a *magdoc.ArchivedArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}

	id := uuid.New().String()
	archivedAt := time.Now().UTC().Truncate(time.Second)
	hash := HashContent(a.Markdown)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (issue_date, source_url) DO NOTHING
	`, id, a.IssueDate, a.SourceURL, a.Kind, a.Title, a.Markdown, hash,
		a.SiteName, a.Author, formatOptionalRFC3339(a.Published), archivedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return magdoc.Errorf(magdoc.EINVALID, "article %s already archived for issue %s", a.SourceURL, a.IssueDate)
	}

	a.ID = id
	a.ArchivedAt = archivedAt
	a.ContentHash = hash
	return nil
}

// UpdateArticle replaces the contents of the archived article a.ID in a
// single statement. Its issue date and source URL stay as archived. The
// content hash and archive time are refreshed.
func (s *ArticleService) UpdateArticle(ctx context.Context, a *magdoc.ArchivedArticle) error {
	if a.ID == "" {
		return magdoc.Errorf(magdoc.EINVALID, "article ID required")
	}
	if err := a.Validate(); err != nil {
		return err
	}

	archivedAt := time.Now().UTC().Truncate(time.Second)
	hash := HashContent(a.Markdown)

	result, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET kind = ?, title = ?, markdown = ?, content_hash = ?,
			site_name = ?, author = ?, published = ?, archived_at = ?
		WHERE id = ?
	`, a.Kind, a.Title, a.Markdown, hash,
		a.SiteName, a.Author, formatOptionalRFC3339(a.Published), archivedAt.Format(time.RFC3339), a.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
	}

	a.ArchivedAt = archivedAt
	a.ContentHash = hash
	return nil
}

// FindArticleByID retrieves an archived article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*magdoc.ArchivedArticle, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves archived articles matching the filter, newest
// issue first and in archive order within an issue.
func (s *ArticleService) FindArticles(ctx context.Context, filter magdoc.ArticleFilter) ([]*magdoc.ArchivedArticle, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.IssueDate != nil {
		query.WriteString(" AND issue_date = ?")
		args = append(args, *filter.IssueDate)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY issue_date DESC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*magdoc.ArchivedArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an archived article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return magdoc.Errorf(magdoc.ENOTFOUND, "article not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*magdoc.ArchivedArticle, error) {
	var a magdoc.ArchivedArticle
	var published, archivedAt string

	if err := row.Scan(&a.ID, &a.IssueDate, &a.SourceURL, &a.Kind, &a.Title, &a.Markdown,
		&a.ContentHash, &a.SiteName, &a.Author, &published, &archivedAt); err != nil {
		return nil, err
	}

	var err error
	if a.Published, err = parseOptionalRFC3339(published, "published"); err != nil {
		return nil, err
	}
	if a.ArchivedAt, err = parseRFC3339(archivedAt, "archived_at"); err != nil {
		return nil, err
	}
	return &a, nil
}
