// Package htmltomarkdown renders articles as Markdown.
//
// Each element is first written as a small HTML fragment, sanitised with
// bluemonday and converted with html-to-markdown, so that text taken from
// article pages is escaped the same way wherever it lands.
package htmltomarkdown

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/magdoc"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Renderer implements magdoc.Renderer at compile time.
var _ magdoc.Renderer = (*Renderer)(nil)

// Renderer writes articles as Markdown.
type Renderer struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Renderer{
		conv:   conv,
		policy: bluemonday.UGCPolicy(),
	}
}

// RenderArticle implements magdoc.Renderer. The article is headed by
// "## topic: title" and its strap in bold. Digests and cartoons are headed
// by label. Images the resolver cannot find are left out.
func (r *Renderer) RenderArticle(w io.Writer, label string, a magdoc.Article, images magdoc.ImageResolver) error {
	title, strap := magdoc.Heading(label, a)
	if title == "" {
		return magdoc.Errorf(magdoc.EINVALID, "no title or label for %s", a.SourceURL())
	}

	var blocks []string
	add := func(fragment string) error {
		md, err := r.convert(fragment)
		if err != nil {
			return err
		}
		if md != "" {
			blocks = append(blocks, md)
		}
		return nil
	}

	if err := add("<h2>" + html.EscapeString(title) + "</h2>"); err != nil {
		return err
	}
	if strap != "" {
		if err := add("<p><strong>" + html.EscapeString(strap) + "</strong></p>"); err != nil {
			return err
		}
	}
	if p, ok := resolve(images, magdoc.MainImage(a)); ok {
		if err := add(imageTag(p, title)); err != nil {
			return err
		}
	}

	for _, c := range magdoc.Body(a) {
		if f, ok := c.(magdoc.Footnote); ok {
			blocks = append(blocks, Subscript(f.Body))
			continue
		}
		fragment, ok := r.fragment(c, images)
		if !ok {
			continue
		}
		if err := add(fragment); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

// fragment returns the HTML for one body element, and false when the
// element is not rendered.
func (r *Renderer) fragment(c magdoc.Content, images magdoc.ImageResolver) (string, bool) {
	switch c := c.(type) {
	case magdoc.Text:
		return "<p>" + html.EscapeString(c.Body) + "</p>", true
	case magdoc.SubHeading:
		return "<h3>" + html.EscapeString(c.Body) + "</h3>", true
	case magdoc.Image:
		p, ok := resolve(images, c.URL)
		if !ok {
			return "", false
		}
		return "<p>" + imageTag(p, "") + "</p>", true
	case magdoc.PullQuote:
		return "<blockquote><p>" + html.EscapeString(c.Body) + "</p></blockquote>", true
	case magdoc.LetterAuthor:
		return "<p><em>" + html.EscapeString(c.Name) + "</em></p>", true
	case magdoc.Reference:
		return fmt.Sprintf(`<p>%s <a href="%s">%s</a> %s</p>`,
			html.EscapeString(c.Before),
			html.EscapeString(c.LinkHref),
			html.EscapeString(c.LinkText),
			html.EscapeString(c.After)), true
	}
	return "", false
}

func (r *Renderer) convert(fragment string) (string, error) {
	md, err := r.conv.ConvertString(r.policy.Sanitize(fragment))
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func resolve(images magdoc.ImageResolver, url string) (string, bool) {
	if images == nil || url == "" {
		return "", false
	}
	return images.ResolveImage(url)
}

func imageTag(src, alt string) string {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(alt))
}

var subscriptEscaper = strings.NewReplacer(`\`, `\\`, `~`, `\~`, " ", `\ `)

// Subscript formats text as a Markdown subscript, which shrinks it in
// most readers. Spaces have to be escaped inside the markers.
func Subscript(text string) string {
	return "~" + subscriptEscaper.Replace(text) + "~"
}
