package magdoc

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Node is a read-only element of a markup tree.
type Node interface {
	// Tag returns the lower-case tag name, e.g. "p" or "div".
	Tag() string

	// Class returns the raw class attribute.
	Class() string

	// Children returns the direct child elements in document order.
	Children() []Node

	// Text returns the text content of the element and its descendants.
	Text() string

	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)

	// First returns the first descendant element with the given tag name.
	First(tag string) (Node, bool)
}

// Markup conventions of the article pages.
const (
	HeadingClass            = "xhead"
	PullQuoteClass          = "pullquote"
	MainImageClass          = "content-image-full"
	ContentImageClassPrefix = "content-image"
)

// Thresholds holds the empirically tuned constants of the heuristics. They
// were adjusted against real pages and are overridable rather than derived.
type Thresholds struct {
	// MinTextLen is the length below which a paragraph is not a real
	// paragraph: a heading candidate, or a stray footnote.
	MinTextLen int

	// FootnotesPerParagraph is the footnote budget accrued by each
	// ordinary paragraph.
	FootnotesPerParagraph int

	// ShortishTextLen bounds the trailing paragraphs of a mini-article.
	ShortishTextLen int

	// UnboldedPunctuation lists characters that may sit outside a bold
	// run without stopping the paragraph from being a heading.
	UnboldedPunctuation string
}

// DefaultThresholds are the tuned values used by the parsers.
var DefaultThresholds = Thresholds{
	MinTextLen:            100,
	FootnotesPerParagraph: 2,
	ShortishTextLen:       250,
	UnboldedPunctuation:   `.,:;!?"'“”‘’`,
}

// ClassifyOptions tunes the classifier for a page layout.
type ClassifyOptions struct {
	ConvertShortTextToHeading bool
	PermitLetterAuthor        bool
	Thresholds                Thresholds
}

// Classify walks the direct children of container in document order and
// returns the content they represent together with the footnote budget
// accrued along the way. Nodes that are neither paragraphs nor content
// images are skipped. Classify keeps no state between calls.
func Classify(container Node, opts ClassifyOptions) ([]Content, int) {
	th := opts.Thresholds
	content := make([]Content, 0, len(container.Children()))
	budget := 0

	for _, node := range container.Children() {
		switch node.Tag() {
		case "p":
			text := CleanText(node.Text())
			if text == "" {
				continue
			}

			if isHeading(node, text, opts) {
				content = append(content, SubHeading{Body: text})
				continue
			}

			if sup, ok := node.First("sup"); ok && CleanText(sup.Text()) == text {
				if hasClass(sup, PullQuoteClass) {
					content = append(content, PullQuote{Body: text})
				} else {
					content = append(content, Footnote{Body: text})
				}
				continue
			}

			// No superscript, or only an inline marker within prose.
			if opts.PermitLetterAuthor && len(text) <= MaxLetterAuthorLen && LetterAuthorPattern.MatchString(text) {
				content = append(content, LetterAuthor{Name: text})
			} else {
				content = append(content, Text{Body: text})
			}
			budget += th.FootnotesPerParagraph

		case "div":
			if !isContentImage(node) {
				continue
			}
			img, ok := node.First("img")
			if !ok {
				continue
			}
			if src, _ := img.Attr("src"); strings.TrimSpace(src) != "" {
				content = append(content, Image{URL: strings.TrimSpace(src)})
			}
		}
	}

	return content, budget
}

func isHeading(node Node, text string, opts ClassifyOptions) bool {
	if hasClass(node, HeadingClass) {
		return true
	}
	if bold, ok := boldChild(node); ok {
		stripped := stripPunctuation(text, opts.Thresholds.UnboldedPunctuation)
		if stripped != "" && stripped == stripPunctuation(CleanText(bold.Text()), opts.Thresholds.UnboldedPunctuation) {
			return true
		}
	}
	return opts.ConvertShortTextToHeading && utf8.RuneCountInString(text) < opts.Thresholds.MinTextLen
}

func boldChild(node Node) (Node, bool) {
	if n, ok := node.First("strong"); ok {
		return n, true
	}
	return node.First("b")
}

func isContentImage(node Node) bool {
	if hasClass(node, MainImageClass) {
		return false
	}
	for _, c := range strings.Fields(node.Class()) {
		if strings.HasPrefix(c, ContentImageClassPrefix) {
			return true
		}
	}
	return false
}

func hasClass(node Node, class string) bool {
	for _, c := range strings.Fields(node.Class()) {
		if c == class {
			return true
		}
	}
	return false
}

var fancySpaces = regexp.MustCompile("[\u00a0\u2003]+")

// CleanText trims s, drops non-breaking and em spaces, and normalises it
// to NFC so precomposed Latin letters match the visible-text set.
func CleanText(s string) string {
	s = fancySpaces.ReplaceAllString(s, "")
	return norm.NFC.String(strings.TrimSpace(s))
}

func stripPunctuation(s, punctuation string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s))
}
