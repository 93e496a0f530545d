package magdoc

import "time"

// PageMeta holds page-level metadata that sits outside the article content,
// such as the publication date and site name.
type PageMeta struct {
	Title       string
	Author      string
	SiteName    string
	Description string
	Published   time.Time // zero when unknown
}

// MetaReader reads page metadata from raw HTML.
type MetaReader interface {
	ReadMeta(html string) (*PageMeta, error)
}
