// Package trafilatura reads page metadata with go-trafilatura.
package trafilatura

import (
	"errors"
	"strings"

	"github.com/fwojciec/magdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure MetaReader implements magdoc.MetaReader at compile time.
var _ magdoc.MetaReader = (*MetaReader)(nil)

// MetaReader wraps go-trafilatura to read page metadata from HTML.
type MetaReader struct{}

// NewMetaReader creates a new MetaReader.
func NewMetaReader() *MetaReader {
	return &MetaReader{}
}

// ReadMeta implements magdoc.MetaReader.
func (r *MetaReader) ReadMeta(rawHTML string) (*magdoc.PageMeta, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "parse HTML: %v", err)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.ExtractDocument(doc, opts)
	if err != nil {
		return nil, err
	}

	m := result.Metadata
	return &magdoc.PageMeta{
		Title:       strings.TrimSpace(m.Title),
		Author:      strings.TrimSpace(m.Author),
		SiteName:    strings.TrimSpace(m.Sitename),
		Description: strings.TrimSpace(m.Description),
		Published:   m.Date,
	}, nil
}
