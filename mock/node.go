package mock

import (
	"strings"

	"github.com/fwojciec/magdoc"
)

var _ magdoc.Node = (*Node)(nil)

// Node is an in-memory markup element. Its text is its own Content followed
// by the text of its children.
type Node struct {
	TagName string
	Attrs   map[string]string
	Content string
	Kids    []*Node
}

// El returns a Node with the given tag, class and children.
func El(tag, class string, kids ...*Node) *Node {
	n := &Node{TagName: tag, Kids: kids}
	if class != "" {
		n.Attrs = map[string]string{"class": class}
	}
	return n
}

// TextEl returns a childless Node holding text.
func TextEl(tag, class, text string) *Node {
	n := El(tag, class)
	n.Content = text
	return n
}

// Img returns an img Node with the given source.
func Img(src string) *Node {
	return &Node{TagName: "img", Attrs: map[string]string{"src": src}}
}

func (n *Node) Tag() string { return n.TagName }

func (n *Node) Class() string { return n.Attrs["class"] }

func (n *Node) Children() []magdoc.Node {
	kids := make([]magdoc.Node, len(n.Kids))
	for i, k := range n.Kids {
		kids[i] = k
	}
	return kids
}

func (n *Node) Text() string {
	var b strings.Builder
	b.WriteString(n.Content)
	for _, k := range n.Kids {
		b.WriteString(k.Text())
	}
	return b.String()
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

func (n *Node) First(tag string) (magdoc.Node, bool) {
	for _, k := range n.Kids {
		if k.TagName == tag {
			return k, true
		}
		if found, ok := k.First(tag); ok {
			return found, true
		}
	}
	return nil, false
}
