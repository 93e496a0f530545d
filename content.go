package magdoc

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// ContentKind is the discriminant of the Content sum type.
type ContentKind int

// Content kinds. The set is closed: every Content value is one of these.
const (
	KindText ContentKind = iota + 1
	KindSubHeading
	KindImage
	KindFootnote
	KindPullQuote
	KindLetterAuthor
	KindReference
)

func (k ContentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSubHeading:
		return "sub-heading"
	case KindImage:
		return "image"
	case KindFootnote:
		return "footnote"
	case KindPullQuote:
		return "pull-quote"
	case KindLetterAuthor:
		return "letter-author"
	case KindReference:
		return "reference"
	}
	return fmt.Sprintf("ContentKind(%d)", int(k))
}

// Content is one element of an article body. Implementations are the
// comparable value types below; two elements are duplicates when they are
// equal with ==.
type Content interface {
	// Kind returns the discriminant of the element.
	Kind() ContentKind

	// Visible returns the text a reader sees, or the URL for images.
	Visible() string

	content()
}

// Text is an ordinary body paragraph.
type Text struct{ Body string }

// SubHeading is a heading within the body.
type SubHeading struct{ Body string }

// Image is an inline image, identified by its URL.
type Image struct{ URL string }

// Footnote is a trailing note, such as a correction or a source line.
type Footnote struct{ Body string }

// PullQuote is a quotation lifted out of the body for emphasis.
type PullQuote struct{ Body string }

// LetterAuthor is the signature closing a reader's letter.
type LetterAuthor struct{ Name string }

// Reference is a short sentence wrapping a single hyperlink.
type Reference struct {
	Before   string
	LinkText string
	LinkHref string
	After    string
}

func (Text) Kind() ContentKind         { return KindText }
func (SubHeading) Kind() ContentKind   { return KindSubHeading }
func (Image) Kind() ContentKind        { return KindImage }
func (Footnote) Kind() ContentKind     { return KindFootnote }
func (PullQuote) Kind() ContentKind    { return KindPullQuote }
func (LetterAuthor) Kind() ContentKind { return KindLetterAuthor }
func (Reference) Kind() ContentKind    { return KindReference }

func (c Text) Visible() string         { return c.Body }
func (c SubHeading) Visible() string   { return c.Body }
func (c Image) Visible() string        { return c.URL }
func (c Footnote) Visible() string     { return c.Body }
func (c PullQuote) Visible() string    { return c.Body }
func (c LetterAuthor) Visible() string { return c.Name }
func (c Reference) Visible() string    { return c.Before + " " + c.LinkText + " " + c.After }

func (Text) content()         {}
func (SubHeading) content()   {}
func (Image) content()        {}
func (Footnote) content()     {}
func (PullQuote) content()    {}
func (LetterAuthor) content() {}
func (Reference) content()    {}

// visibleTextChars is the character class every textual payload must be
// drawn from: Latin letters, digits, currency symbols, standard punctuation
// and a bounded set of typographic glyphs.
const visibleTextChars = `\p{Sc}\p{Latin}\d \n:;,+\-—_–."´‘’'“”(){}\[\]%…¡!?&*/\\½⅓⅔¼¾⅛⅜⅝⅞†˚#°@•<>©®™²³`

// VisibleText matches strings made only of permitted visible characters.
var VisibleText = regexp.MustCompile(`^[` + visibleTextChars + `]+$`)

// LetterAuthorPattern matches a letter signature: one or more upper-case
// initials or words, then a surname with at least two capitals (SMITH,
// McDONALD, O’BRIEN), then any visible text such as an affiliation.
var LetterAuthorPattern = regexp.MustCompile(
	`^(?:\p{Lu}\.\s*|\p{Lu}[\p{Lu}'’\-]*\s+)+` +
		`\p{Lu}[\p{L}'’\-]*\p{Lu}[\p{Lu}'’\-]*` +
		`(?:[\s,][` + visibleTextChars + `]*)?$`)

// MaxLetterAuthorLen bounds a letter signature. Longer paragraphs are prose
// even when they open with capitals.
const MaxLetterAuthorLen = 300

// Reference limits on the text surrounding a link.
const (
	MaxReferenceContext    = 50
	MinReferenceVisibleLen = 10
)

// FieldRule bounds the length and character set of one payload field.
type FieldRule struct {
	Field   string
	MinLen  int
	MaxLen  int
	Pattern *regexp.Regexp // nil for URL fields
	URL     bool
	value   func(Content) string
}

// ContentRules is the static table of payload rules per content kind.
var ContentRules = map[ContentKind][]FieldRule{
	KindText: {
		{Field: "text", MinLen: 100, MaxLen: 1000, Pattern: VisibleText, value: Content.Visible},
	},
	KindSubHeading: {
		{Field: "sub-heading", MinLen: 10, MaxLen: 200, Pattern: VisibleText, value: Content.Visible},
	},
	KindImage: {
		{Field: "image", MinLen: 10, MaxLen: 1000, URL: true, value: Content.Visible},
	},
	KindFootnote: {
		{Field: "footnote", MinLen: 10, MaxLen: 300, Pattern: VisibleText, value: Content.Visible},
	},
	KindPullQuote: {
		{Field: "pull-quote", MinLen: 10, MaxLen: 200, Pattern: VisibleText, value: Content.Visible},
	},
	KindLetterAuthor: {
		{Field: "letter-author", MinLen: 10, MaxLen: MaxLetterAuthorLen, Pattern: LetterAuthorPattern, value: Content.Visible},
	},
	KindReference: {
		{Field: "reference.before", MinLen: 0, MaxLen: MaxReferenceContext, value: func(c Content) string { return c.(Reference).Before }},
		{Field: "reference.linkText", MinLen: 4, MaxLen: 100, Pattern: VisibleText, value: func(c Content) string { return c.(Reference).LinkText }},
		{Field: "reference.linkHref", MinLen: 20, MaxLen: 150, URL: true, value: func(c Content) string { return c.(Reference).LinkHref }},
		{Field: "reference.after", MinLen: 0, MaxLen: MaxReferenceContext, value: func(c Content) string { return c.(Reference).After }},
	},
}

// CheckContent returns every payload violation of c. Host trust is not
// checked here; see Rules.
func CheckContent(c Content) []Violation {
	rules, ok := ContentRules[c.Kind()]
	if !ok {
		return []Violation{{Kind: ViolationRequired, Field: "content", Message: fmt.Sprintf("no rules for %s", c.Kind())}}
	}

	var violations []Violation
	for _, r := range rules {
		violations = append(violations, r.check(r.value(c))...)
	}

	if ref, ok := c.(Reference); ok {
		visible := ref.Visible()
		if utf8.RuneCountInString(visible) < MinReferenceVisibleLen {
			violations = append(violations, Violation{Kind: ViolationLength, Field: "reference", Message: "not enough text either side of the link"})
		}
		if !VisibleText.MatchString(visible) {
			violations = append(violations, Violation{Kind: ViolationCharset, Field: "reference", Message: "invalid character in reference text"})
		}
	}
	return violations
}

// ValidateContent returns an EVIOLATION error listing every payload
// violation of c, or nil.
func ValidateContent(c Content) error {
	return violationError(c.Kind().String(), CheckContent(c))
}

func (r FieldRule) check(s string) []Violation {
	var violations []Violation
	n := utf8.RuneCountInString(s)
	if n < r.MinLen || n > r.MaxLen {
		violations = append(violations, Violation{
			Kind:    ViolationLength,
			Field:   r.Field,
			Message: fmt.Sprintf("length %d outside [%d, %d]", n, r.MinLen, r.MaxLen),
		})
	}
	if r.URL {
		if _, err := parseAbsoluteURL(s); err != nil {
			violations = append(violations, Violation{Kind: ViolationMalformedURL, Field: r.Field, Message: err.Error()})
		}
	} else if r.Pattern == VisibleText && s != "" && !VisibleText.MatchString(s) {
		violations = append(violations, Violation{
			Kind:    ViolationCharset,
			Field:   r.Field,
			Message: fmt.Sprintf("illegal character %q", firstIllegal(s)),
		})
	} else if r.Pattern != nil && s != "" && !r.Pattern.MatchString(s) {
		violations = append(violations, Violation{
			Kind:    ViolationCharset,
			Field:   r.Field,
			Message: fmt.Sprintf("%q does not match %s", s, r.Pattern),
		})
	}
	return violations
}

// firstIllegal returns the first rune of s outside the visible-text set.
func firstIllegal(s string) string {
	for _, r := range s {
		if !VisibleText.MatchString(string(r)) {
			return string(r)
		}
	}
	return s
}

func parseAbsoluteURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid URL", s)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", s)
	}
	return u, nil
}
