// Package readability reads page metadata with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/magdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure MetaReader implements magdoc.MetaReader at compile time.
var _ magdoc.MetaReader = (*MetaReader)(nil)

// MetaReader wraps go-readability to read page metadata from HTML.
type MetaReader struct{}

// NewMetaReader creates a new MetaReader.
func NewMetaReader() *MetaReader {
	return &MetaReader{}
}

// ReadMeta implements magdoc.MetaReader.
func (r *MetaReader) ReadMeta(rawHTML string) (*magdoc.PageMeta, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, magdoc.Errorf(magdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	meta := &magdoc.PageMeta{
		Title:       strings.TrimSpace(article.Title),
		Author:      strings.TrimSpace(article.Byline),
		SiteName:    strings.TrimSpace(article.SiteName),
		Description: strings.TrimSpace(article.Excerpt),
	}
	if article.PublishedTime != nil {
		meta.Published = article.PublishedTime.UTC()
	}
	return meta, nil
}
