package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/magdoc"
	"golang.org/x/net/html"
)

var _ magdoc.Node = (*Node)(nil)

// Node adapts the first element of a goquery selection to magdoc.Node.
type Node struct {
	sel *goquery.Selection
}

// NewNode returns a Node for the first element of sel.
func NewNode(sel *goquery.Selection) *Node {
	return &Node{sel: sel.First()}
}

func (n *Node) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n *Node) Class() string {
	class, _ := n.sel.Attr("class")
	return class
}

func (n *Node) Children() []magdoc.Node {
	kids := n.sel.Children()
	nodes := make([]magdoc.Node, 0, kids.Length())
	kids.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

// Text returns the text of the element with runs of HTML whitespace
// collapsed to a single space, as a browser would render it.
func (n *Node) Text() string {
	return collapseSpace(n.sel.Text())
}

func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *Node) First(tag string) (magdoc.Node, bool) {
	found := n.sel.Find(tag).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &Node{sel: found}, true
}

// htmlSpace matches HTML inter-element whitespace. Non-breaking spaces are
// not included; the classifier drops those itself.
var htmlSpace = regexp.MustCompile(`[ \t\n\r\f]+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(htmlSpace.ReplaceAllString(s, " "))
}

// Parse parses an HTML page into a goquery document.
func Parse(page string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "failed to parse HTML: %v", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// text returns the collapsed text of the first element of sel, or "".
func text(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return magdoc.CleanText(collapseSpace(sel.First().Text()))
}
