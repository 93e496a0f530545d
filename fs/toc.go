package fs

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/fwojciec/magdoc"
)

// TOCFile is the name of the NCX table of contents written next to the
// issue file.
const TOCFile = "toc.ncx"

const ncxNamespace = "http://www.daisy.org/z3986/2005/ncx/"

// WriteTOC writes an NCX table of contents for issue. Each top-level
// heading of the issue file becomes a nav point holding one nav point per
// article. Targets are heading anchors in IssueFile, numbered the way
// Markdown converters number repeated headings.
func WriteTOC(w io.Writer, issue *magdoc.Issue) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", ncxNamespace)
	ncx.CreateAttr("version", "2005-1")

	meta := ncx.CreateElement("head").CreateElement("meta")
	meta.CreateAttr("name", "dtb:uid")
	meta.CreateAttr("content", "magdoc-"+issue.Date)
	ncx.CreateElement("docTitle").CreateElement("text").SetText("Edition of " + issue.Date)

	t := &toc{navMap: ncx.CreateElement("navMap"), anchors: make(map[string]int)}

	if issue.PoliticsThisWeek != nil || issue.BusinessThisWeek != nil || issue.Cartoon != nil {
		group := t.point(t.navMap, WorldThisWeek)
		if issue.PoliticsThisWeek != nil {
			t.article(group, magdoc.PoliticsLabel, issue.PoliticsThisWeek)
		}
		if issue.BusinessThisWeek != nil {
			t.article(group, magdoc.BusinessLabel, issue.BusinessThisWeek)
		}
		if issue.Cartoon != nil {
			t.article(group, magdoc.CartoonLabel, issue.Cartoon)
		}
	}
	if issue.Letters != nil {
		t.article(t.point(t.navMap, magdoc.LettersTitle), "", issue.Letters)
	}
	for _, sec := range issue.Sections {
		group := t.point(t.navMap, sec.Name)
		for _, a := range sec.Articles {
			t.article(group, sec.Name, a)
		}
	}
	if issue.Obituary != nil {
		t.article(t.point(t.navMap, magdoc.ObituaryLabel), magdoc.ObituaryLabel, issue.Obituary)
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write table of contents: %w", err)
	}
	return nil
}

type toc struct {
	navMap  *etree.Element
	order   int
	anchors map[string]int
}

// point appends a nav point titled label to parent.
func (t *toc) point(parent *etree.Element, label string) *etree.Element {
	t.order++
	np := parent.CreateElement("navPoint")
	np.CreateAttr("id", "navpoint-"+strconv.Itoa(t.order))
	np.CreateAttr("playOrder", strconv.Itoa(t.order))
	np.CreateElement("navLabel").CreateElement("text").SetText(label)
	np.CreateElement("content").CreateAttr("src", IssueFile+"#"+t.anchor(label))
	return np
}

// article appends the nav point of one article. Sub-headings in its body
// take anchors too, so later repeats are numbered correctly.
func (t *toc) article(parent *etree.Element, label string, a magdoc.Article) {
	title, _ := magdoc.Heading(label, a)
	t.point(parent, title)
	for _, c := range magdoc.Body(a) {
		if h, ok := c.(magdoc.SubHeading); ok {
			t.anchor(h.Body)
		}
	}
}

// anchor returns the identifier of the next heading with the given text.
func (t *toc) anchor(text string) string {
	id := Anchor(text)
	n := t.anchors[id]
	t.anchors[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}

// Anchor returns the identifier Markdown converters give a heading:
// lowercase letters and digits, spaces as hyphens, other punctuation
// dropped except "_", "-" and ".". Anything before the first letter is
// dropped too.
func Anchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case b.Len() == 0:
		case unicode.IsDigit(r), r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
