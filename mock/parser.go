package mock

import "github.com/fwojciec/magdoc"

var (
	_ magdoc.Parser        = (*Parser)(nil)
	_ magdoc.EditionParser = (*EditionParser)(nil)
	_ magdoc.MetaReader    = (*MetaReader)(nil)
)

// Parser is a mock implementation of magdoc.Parser.
type Parser struct {
	ParseFn func(documentURL, html string) (magdoc.Article, error)
}

func (p *Parser) Parse(documentURL, html string) (magdoc.Article, error) {
	return p.ParseFn(documentURL, html)
}

// EditionParser is a mock implementation of magdoc.EditionParser.
type EditionParser struct {
	ParseEditionFn func(date, html string) (*magdoc.Edition, error)
}

func (p *EditionParser) ParseEdition(date, html string) (*magdoc.Edition, error) {
	return p.ParseEditionFn(date, html)
}

// MetaReader is a mock implementation of magdoc.MetaReader.
type MetaReader struct {
	ReadMetaFn func(html string) (*magdoc.PageMeta, error)
}

func (r *MetaReader) ReadMeta(html string) (*magdoc.PageMeta, error) {
	return r.ReadMetaFn(html)
}
