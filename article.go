package magdoc

import "fmt"

// ArticleKind is the discriminant of the Article sum type.
type ArticleKind int

// Article kinds.
const (
	KindPlainArticle ArticleKind = iota + 1
	KindWeeklyDigestArticle
	KindSingleImageArticle
	KindLetterArticle
	KindEssayArticle
)

func (k ArticleKind) String() string {
	switch k {
	case KindPlainArticle:
		return "plain"
	case KindWeeklyDigestArticle:
		return "digest"
	case KindSingleImageArticle:
		return "image"
	case KindLetterArticle:
		return "letters"
	case KindEssayArticle:
		return "essay"
	}
	return fmt.Sprintf("ArticleKind(%d)", int(k))
}

// ParseArticleKind returns the kind named s, as printed by String.
func ParseArticleKind(s string) (ArticleKind, error) {
	for k := KindPlainArticle; k <= KindEssayArticle; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, Errorf(EINVALID, "unknown article kind %q", s)
}

// Fixed header values.
const (
	LettersTitle = "Letters"
	LettersTopic = "Our Readers Respond"
	EssayTopic   = "Essay"
	MiniStrap    = "A brief overview"
)

// Article is one parsed article. The set of implementations is closed.
type Article interface {
	Kind() ArticleKind

	// SourceURL returns the address the article was parsed from.
	SourceURL() string

	article()
}

// ArticleHeader holds the title, topic and strap of an article while it is
// being extracted and cleaned. Fields may be empty only transiently.
type ArticleHeader struct {
	Title string
	Topic string
	Strap string
}

// PlainArticle is a standard article: header, body and an optional main image.
type PlainArticle struct {
	URL       string
	Title     string
	Topic     string
	Strap     string
	Body      []Content
	MainImage string // empty when absent
}

// WeeklyDigestArticle is a body-only digest of the week's stories. The
// caller supplies its label when rendering.
type WeeklyDigestArticle struct {
	URL  string
	Body []Content
}

// SingleImageArticle consists of one mandatory image, such as a cartoon.
type SingleImageArticle struct {
	URL       string
	MainImage string
}

// LetterArticle is the letters page. Its header is always fixed; see
// NewLetterArticle.
type LetterArticle struct {
	PlainArticle
}

// EssayArticle is an article laid out as an essay, with the topic fixed
// to EssayTopic.
type EssayArticle struct {
	PlainArticle
}

func (*PlainArticle) Kind() ArticleKind        { return KindPlainArticle }
func (*WeeklyDigestArticle) Kind() ArticleKind { return KindWeeklyDigestArticle }
func (*SingleImageArticle) Kind() ArticleKind  { return KindSingleImageArticle }
func (*LetterArticle) Kind() ArticleKind       { return KindLetterArticle }
func (*EssayArticle) Kind() ArticleKind        { return KindEssayArticle }

func (a *PlainArticle) SourceURL() string        { return a.URL }
func (a *WeeklyDigestArticle) SourceURL() string { return a.URL }
func (a *SingleImageArticle) SourceURL() string  { return a.URL }

func (*PlainArticle) article()        {}
func (*WeeklyDigestArticle) article() {}
func (*SingleImageArticle) article()  {}

// Header returns the title, topic and strap of the article.
func (a *PlainArticle) Header() ArticleHeader {
	return ArticleHeader{Title: a.Title, Topic: a.Topic, Strap: a.Strap}
}

// NewPlainArticle assembles a plain article from a cleaned header.
func NewPlainArticle(sourceURL string, h ArticleHeader, body []Content, mainImage string) *PlainArticle {
	return &PlainArticle{
		URL:       sourceURL,
		Title:     h.Title,
		Topic:     h.Topic,
		Strap:     h.Strap,
		Body:      body,
		MainImage: mainImage,
	}
}

// NewLetterArticle assembles the letters page. Whatever the page's own
// header said, the result is titled LettersTitle with topic LettersTopic,
// and the raw topic (which lists the letters' subjects) becomes the strap.
func NewLetterArticle(sourceURL string, raw ArticleHeader, body []Content, mainImage string) *LetterArticle {
	return &LetterArticle{PlainArticle: *NewPlainArticle(sourceURL, LettersHeader(raw), body, mainImage)}
}

// NewEssayArticle assembles an essay with the topic fixed to EssayTopic.
func NewEssayArticle(sourceURL, title, strap string, body []Content, mainImage string) *EssayArticle {
	h := ArticleHeader{Title: title, Topic: EssayTopic, Strap: strap}
	return &EssayArticle{PlainArticle: *NewPlainArticle(sourceURL, h, body, mainImage)}
}

// Body returns the body of a, or nil for articles without one.
func Body(a Article) []Content {
	switch a := a.(type) {
	case *PlainArticle:
		return a.Body
	case *LetterArticle:
		return a.Body
	case *EssayArticle:
		return a.Body
	case *WeeklyDigestArticle:
		return a.Body
	case *SingleImageArticle:
		return nil
	}
	return nil
}

// MainImage returns the main image URL of a, or "" when it has none.
func MainImage(a Article) string {
	switch a := a.(type) {
	case *PlainArticle:
		return a.MainImage
	case *LetterArticle:
		return a.MainImage
	case *EssayArticle:
		return a.MainImage
	case *SingleImageArticle:
		return a.MainImage
	case *WeeklyDigestArticle:
		return ""
	}
	return ""
}

// Heading returns the heading line and strap a is rendered with: "topic:
// title" for articles with a header, or label for digests and cartoons.
func Heading(label string, a Article) (title, strap string) {
	var h ArticleHeader
	switch a := a.(type) {
	case *PlainArticle:
		h = a.Header()
	case *LetterArticle:
		h = a.Header()
	case *EssayArticle:
		h = a.Header()
	default:
		return label, ""
	}
	if h.Topic == "" {
		return h.Title, h.Strap
	}
	return h.Topic + ": " + h.Title, h.Strap
}

// Parser parses the HTML of a page into an article.
type Parser interface {
	// Parse parses html, downloaded from documentURL, into a validated
	// article. Returns EMALFORMED when a structural anchor is missing and
	// EVIOLATION when the assembled article fails validation.
	Parse(documentURL string, html string) (Article, error)
}
