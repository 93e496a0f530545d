package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/magdoc"
)

// Contents page selectors.
const (
	SectionSelector      = "div.section"
	FirstSectionSelector = "div.first"
)

// Ensure EditionParser implements magdoc.EditionParser.
var _ magdoc.EditionParser = (*EditionParser)(nil)

// EditionParser reads the list of articles from an edition contents page.
type EditionParser struct {
	base   *url.URL
	domain string
}

// NewEditionParser creates an EditionParser resolving relative links
// against baseURL. Links must lie on the base URL's domain.
func NewEditionParser(baseURL string) (*EditionParser, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, magdoc.Errorf(magdoc.EINVALID, "invalid base URL: %q", baseURL)
	}
	return &EditionParser{
		base:   base,
		domain: strings.TrimPrefix(base.Hostname(), "www."),
	}, nil
}

// ParseEdition implements magdoc.EditionParser. The edition is validated
// before it is returned.
func (p *EditionParser) ParseEdition(date, html string) (*magdoc.Edition, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	sections := doc.Find(SectionSelector)
	first := sections.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Is(FirstSectionSelector) || s.Find(FirstSectionSelector).Length() > 0
	}).First()
	if first.Length() == 0 {
		return nil, magdoc.Errorf(magdoc.EMALFORMED, "contents page has no introductory section")
	}

	e := &magdoc.Edition{Date: date}
	first.Find("a").Each(func(_ int, a *goquery.Selection) {
		link := p.link(a)
		switch strings.ToLower(collapseSpace(a.Text())) {
		case "politics this week", "the world this week", "the world this year":
			e.PoliticsThisWeek = link
		case "business this week":
			e.BusinessThisWeek = link
		case "kal's cartoon", "kal’s cartoon":
			e.Cartoon = link
		}
	})

	var malformed error
	sections.EachWithBreak(func(i int, sec *goquery.Selection) bool {
		if sec.IsSelection(first) {
			return true
		}

		heading := sec.Find("h4").First()
		if heading.Length() == 0 {
			malformed = magdoc.Errorf(magdoc.EMALFORMED, "section %d has no heading", i)
			return false
		}
		name := collapseSpace(heading.Text())

		switch strings.ToLower(name) {
		case "letters":
			e.Letters = p.link(sec.Find("a").First())
			return true
		case "obituary":
			e.Obituary = p.link(sec.Find("a").First())
			return true
		case "economic and financial indicators":
			return true
		}

		s := magdoc.Section{Name: name}
		sec.Find("a").Each(func(_ int, a *goquery.Selection) {
			if title, _ := a.Attr("title"); title == "Comments" {
				return
			}
			if link := p.link(a); link != "" {
				s.Articles = append(s.Articles, link)
			}
		})
		e.Sections = append(e.Sections, s)
		return true
	})
	if malformed != nil {
		return nil, malformed
	}

	if err := e.Validate(p.domain); err != nil {
		return nil, err
	}
	return e, nil
}

// link returns the absolute address of an anchor, or "" when it has none.
func (p *EditionParser) link(a *goquery.Selection) string {
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return resolveURL(p.base, strings.TrimSpace(href))
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}
