package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/magdoc"
)

// Page selectors.
const (
	ContainerSelector = "article div.main-content"
	HeaderSelector    = "hgroup"
	MainImageSelector = "div." + magdoc.MainImageClass
	CaptionSelector   = ".caption, figcaption"

	EssaySelector         = "section.essay"
	EssayHeadlineSelector = ".essay-headline"
	EssayRubricSelector   = ".rubric"
	EssayImageSelector    = ".essay-image img"
	EssayBodySelector     = ".essay-body"
)

// Ensure parsers implement magdoc.Parser.
var (
	_ magdoc.Parser = (*PlainParser)(nil)
	_ magdoc.Parser = (*LetterParser)(nil)
	_ magdoc.Parser = (*WeeklyDigestParser)(nil)
	_ magdoc.Parser = (*SingleImageParser)(nil)
	_ magdoc.Parser = (*EssayParser)(nil)
)

type config struct {
	thresholds magdoc.Thresholds
	rules      magdoc.Rules
}

// Option configures a parser.
type Option func(*config)

// WithThresholds overrides the classifier thresholds.
func WithThresholds(th magdoc.Thresholds) Option {
	return func(c *config) {
		c.thresholds = th
	}
}

// WithRules overrides the structural rules parsed articles are validated
// against.
func WithRules(r magdoc.Rules) Option {
	return func(c *config) {
		c.rules = r
	}
}

func newConfig(opts []Option) config {
	c := config{
		thresholds: magdoc.DefaultThresholds,
		rules:      magdoc.DefaultRules,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewParser returns the parser for articles of the given kind.
func NewParser(kind magdoc.ArticleKind, opts ...Option) (magdoc.Parser, error) {
	switch kind {
	case magdoc.KindPlainArticle:
		return NewPlainParser(opts...), nil
	case magdoc.KindLetterArticle:
		return NewLetterParser(opts...), nil
	case magdoc.KindWeeklyDigestArticle:
		return NewWeeklyDigestParser(opts...), nil
	case magdoc.KindSingleImageArticle:
		return NewSingleImageParser(opts...), nil
	case magdoc.KindEssayArticle:
		return NewEssayParser(opts...), nil
	}
	return nil, magdoc.Errorf(magdoc.EINVALID, "no parser for %s articles", kind)
}

// PlainParser parses standard articles.
type PlainParser struct {
	cfg config
}

// NewPlainParser creates a new PlainParser.
func NewPlainParser(opts ...Option) *PlainParser {
	return &PlainParser{cfg: newConfig(opts)}
}

// Parse implements magdoc.Parser.
func (p *PlainParser) Parse(documentURL, html string) (magdoc.Article, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	a, err := p.cfg.parsePlain(documentURL, doc)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (c config) parsePlain(documentURL string, doc *goquery.Document) (*magdoc.PlainArticle, error) {
	container, err := findContainer(doc)
	if err != nil {
		return nil, err
	}
	raw, err := readHeader(doc)
	if err != nil {
		return nil, err
	}
	mainImage, caption := readMainImage(container)

	body, err := c.readBody(container, magdoc.ClassifyOptions{ConvertShortTextToHeading: true})
	if err != nil {
		return nil, err
	}
	body = magdoc.DropDuplicateLeadImage(body, mainImage)

	h := magdoc.CleanHeader(raw, magdoc.Layout{
		Body:       body,
		MainImage:  mainImage,
		Caption:    caption,
		Thresholds: c.thresholds,
	})
	if h.Title == "" {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "article has no title and no header rule applies")
	}

	a := magdoc.NewPlainArticle(documentURL, h, body, mainImage)
	if err := c.rules.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// LetterParser parses the letters page.
type LetterParser struct {
	cfg config
}

// NewLetterParser creates a new LetterParser.
func NewLetterParser(opts ...Option) *LetterParser {
	return &LetterParser{cfg: newConfig(opts)}
}

// Parse implements magdoc.Parser. The page header is replaced by the fixed
// letters header.
func (p *LetterParser) Parse(documentURL, html string) (magdoc.Article, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	container, err := findContainer(doc)
	if err != nil {
		return nil, err
	}
	raw, err := readHeader(doc)
	if err != nil {
		return nil, err
	}
	mainImage, _ := readMainImage(container)

	body, err := p.cfg.readBody(container, magdoc.ClassifyOptions{PermitLetterAuthor: true})
	if err != nil {
		return nil, err
	}
	body = magdoc.DropDuplicateLeadImage(body, mainImage)

	a := magdoc.NewLetterArticle(documentURL, raw, body, mainImage)
	if err := p.cfg.rules.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// WeeklyDigestParser parses the politics and business digests.
type WeeklyDigestParser struct {
	cfg config
}

// NewWeeklyDigestParser creates a new WeeklyDigestParser.
func NewWeeklyDigestParser(opts ...Option) *WeeklyDigestParser {
	return &WeeklyDigestParser{cfg: newConfig(opts)}
}

// Parse implements magdoc.Parser. Digests have no header.
func (p *WeeklyDigestParser) Parse(documentURL, html string) (magdoc.Article, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	container, err := findContainer(doc)
	if err != nil {
		return nil, err
	}

	body, err := p.cfg.readBody(container, magdoc.ClassifyOptions{})
	if err != nil {
		return nil, err
	}

	a := &magdoc.WeeklyDigestArticle{URL: documentURL, Body: body}
	if err := p.cfg.rules.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// SingleImageParser parses pages that consist of one image, such as the
// weekly cartoon.
type SingleImageParser struct {
	cfg config
}

// NewSingleImageParser creates a new SingleImageParser.
func NewSingleImageParser(opts ...Option) *SingleImageParser {
	return &SingleImageParser{cfg: newConfig(opts)}
}

// Parse implements magdoc.Parser.
func (p *SingleImageParser) Parse(documentURL, html string) (magdoc.Article, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	container, err := findContainer(doc)
	if err != nil {
		return nil, err
	}
	mainImage, _ := readMainImage(container)
	if mainImage == "" {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "no main image in %s", documentURL)
	}

	a := &magdoc.SingleImageArticle{URL: documentURL, MainImage: mainImage}
	if err := p.cfg.rules.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// EssayParser parses long-form essays. Pages without an essay section are
// parsed as plain articles.
type EssayParser struct {
	cfg config
}

// NewEssayParser creates a new EssayParser.
func NewEssayParser(opts ...Option) *EssayParser {
	return &EssayParser{cfg: newConfig(opts)}
}

// Parse implements magdoc.Parser.
func (p *EssayParser) Parse(documentURL, html string) (magdoc.Article, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	essay := doc.Find(EssaySelector).First()
	if essay.Length() == 0 {
		a, err := p.cfg.parsePlain(documentURL, doc)
		if err != nil {
			return nil, err
		}
		return a, nil
	}

	container := essay.Find(EssayBodySelector).First()
	if container.Length() == 0 {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "essay has no body")
	}
	title := text(essay.Find(EssayHeadlineSelector))
	if title == "" {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "essay has no headline")
	}
	strap := text(essay.Find(EssayRubricSelector))
	mainImage := imageSource(essay.Find(EssayImageSelector))

	body, err := p.cfg.readBody(container, magdoc.ClassifyOptions{ConvertShortTextToHeading: true})
	if err != nil {
		return nil, err
	}
	body = magdoc.DropDuplicateLeadImage(body, mainImage)

	a := magdoc.NewEssayArticle(documentURL, title, strap, body, mainImage)
	if err := p.cfg.rules.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// readBody classifies the children of container and repairs unmarked
// trailing footnotes.
func (c config) readBody(container *goquery.Selection, opts magdoc.ClassifyOptions) ([]magdoc.Content, error) {
	opts.Thresholds = c.thresholds
	body, budget := magdoc.Classify(NewNode(container), opts)
	if err := magdoc.RepairFootnotes(body, budget, c.thresholds); err != nil {
		return nil, err
	}
	return body, nil
}

func findContainer(doc *goquery.Document) (*goquery.Selection, error) {
	container := doc.Find(ContainerSelector).First()
	if container.Length() == 0 {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "no article content container")
	}
	return container, nil
}

// readHeader reads the title, topic and strap from the header group. Any
// of them may be empty; header cleanup decides what that means.
func readHeader(doc *goquery.Document) (magdoc.ArticleHeader, error) {
	hgroup := doc.Find(HeaderSelector).First()
	if hgroup.Length() == 0 {
		return magdoc.ArticleHeader{}, magdoc.Errorf(magdoc.EMALFORMED, "no article header")
	}
	return magdoc.ArticleHeader{
		Title: text(hgroup.Find("h3")),
		Topic: text(hgroup.Find("h2")),
		Strap: text(hgroup.Find("h1")),
	}, nil
}

// readMainImage returns the main image source and its caption, if any.
func readMainImage(container *goquery.Selection) (src, caption string) {
	slot := container.Find(MainImageSelector).First()
	if slot.Length() == 0 {
		return "", ""
	}
	return imageSource(slot.Find("img")), text(slot.Find(CaptionSelector))
}

func imageSource(img *goquery.Selection) string {
	src, _ := img.First().Attr("src")
	return strings.TrimSpace(src)
}
