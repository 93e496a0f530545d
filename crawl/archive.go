package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/magdoc"
)

// Ensure PageCache and MetaChain implement their interfaces at compile time.
var (
	_ magdoc.Fetcher    = (*PageCache)(nil)
	_ magdoc.MetaReader = MetaChain(nil)
)

// PageCache is a Fetcher that keeps the HTML of every page fetched
// successfully, so later stages can read page metadata without fetching
// the page again.
type PageCache struct {
	next magdoc.Fetcher

	mu    sync.RWMutex
	pages map[string]string
}

// NewPageCache creates a PageCache in front of next.
func NewPageCache(next magdoc.Fetcher) *PageCache {
	return &PageCache{next: next, pages: make(map[string]string)}
}

// Fetch implements magdoc.Fetcher.
func (c *PageCache) Fetch(ctx context.Context, url string) (string, error) {
	html, err := c.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.pages[url] = html
	c.mu.Unlock()
	return html, nil
}

// Close closes the wrapped fetcher.
func (c *PageCache) Close() error {
	return c.next.Close()
}

// Page returns the HTML fetched from url, and false when it was not
// fetched.
func (c *PageCache) Page(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.pages[url]
	return html, ok
}

// MetaChain reads page metadata with each reader in turn. Later readers
// only fill fields the earlier ones left empty. The first error is
// returned when no reader succeeds.
type MetaChain []magdoc.MetaReader

// ReadMeta implements magdoc.MetaReader.
func (c MetaChain) ReadMeta(html string) (*magdoc.PageMeta, error) {
	var meta *magdoc.PageMeta
	var firstErr error
	for _, r := range c {
		m, err := r.ReadMeta(html)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if meta == nil {
			meta = m
			continue
		}
		fill(&meta.Title, m.Title)
		fill(&meta.Author, m.Author)
		fill(&meta.SiteName, m.SiteName)
		fill(&meta.Description, m.Description)
		if meta.Published.IsZero() {
			meta.Published = m.Published
		}
	}
	if meta == nil {
		if firstErr == nil {
			firstErr = magdoc.Errorf(magdoc.EINVALID, "no metadata readers")
		}
		return nil, firstErr
	}
	return meta, nil
}

func fill(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

// ArchiveResult summarizes an archive run.
type ArchiveResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// Archiver renders the articles of an issue and keeps them in an
// ArticleService, one record per issue and source URL.
type Archiver struct {
	Articles magdoc.ArticleService
	Renderer magdoc.Renderer
	Images   magdoc.ImageResolver // optional
	Meta     magdoc.MetaReader    // optional
	Pages    *PageCache           // optional; source of the HTML read by Meta
}

// Archive stores every article of issue. An article already archived with
// the same Markdown is left alone; one whose Markdown changed is updated in
// place under its existing ID.
func (a *Archiver) Archive(ctx context.Context, issue *magdoc.Issue) (ArchiveResult, error) {
	var result ArchiveResult
	for _, l := range issue.Labelled() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := a.record(issue.Date, l)
		if err != nil {
			return result, err
		}

		existing, err := a.Articles.FindArticles(ctx, magdoc.ArticleFilter{
			IssueDate: &rec.IssueDate,
			SourceURL: &rec.SourceURL,
			Limit:     1,
		})
		if err != nil {
			return result, err
		}

		switch {
		case len(existing) == 0:
			if err := a.Articles.CreateArticle(ctx, rec); err != nil {
				return result, err
			}
			result.Created++
		case existing[0].Markdown == rec.Markdown:
			result.Unchanged++
		default:
			rec.ID = existing[0].ID
			if err := a.Articles.UpdateArticle(ctx, rec); err != nil {
				return result, err
			}
			result.Updated++
		}
	}
	return result, nil
}

func (a *Archiver) record(date string, l magdoc.LabelledArticle) (*magdoc.ArchivedArticle, error) {
	var md strings.Builder
	if err := a.Renderer.RenderArticle(&md, l.Label, l.Article, a.Images); err != nil {
		return nil, err
	}

	rec := &magdoc.ArchivedArticle{
		IssueDate: date,
		SourceURL: l.Article.SourceURL(),
		Kind:      l.Article.Kind().String(),
		Title:     title(l),
		Markdown:  md.String(),
	}

	if a.Meta == nil || a.Pages == nil {
		return rec, nil
	}
	html, ok := a.Pages.Page(rec.SourceURL)
	if !ok {
		return rec, nil
	}
	// Metadata is best effort; the article is archived without it.
	if meta, err := a.Meta.ReadMeta(html); err == nil {
		rec.SiteName = meta.SiteName
		rec.Author = meta.Author
		rec.Published = meta.Published
	}
	return rec, nil
}

// title returns the article's own title, or its label for articles
// without a header.
func title(l magdoc.LabelledArticle) string {
	if h, ok := l.Article.(interface{ Header() magdoc.ArticleHeader }); ok {
		return h.Header().Title
	}
	return l.Label
}
