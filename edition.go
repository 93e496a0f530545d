package magdoc

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Edition limits.
const (
	MinEditionSections = 5
	MaxEditionSections = 20
	MinSectionNameLen  = 4
	MaxSectionNameLen  = 60
)

// Section is a named group of article links in an edition.
type Section struct {
	Name     string   `json:"name"`
	Articles []string `json:"articles"`
}

// Edition lists the articles of one printed edition, as read from its
// contents page. BusinessThisWeek is empty for holiday issues.
type Edition struct {
	Date             string    `json:"date"`
	PoliticsThisWeek string    `json:"politicsThisWeek"`
	BusinessThisWeek string    `json:"businessThisWeek,omitempty"`
	Cartoon          string    `json:"cartoon"`
	Letters          string    `json:"letters"`
	Obituary         string    `json:"obituary"`
	Sections         []Section `json:"sections"`
}

// Validate returns an EVIOLATION error listing every problem with the
// edition. Every link must lie within siteDomain or one of its subdomains.
func (e *Edition) Validate(siteDomain string) error {
	var v []Violation
	if n := len(e.Sections); n < MinEditionSections || n > MaxEditionSections {
		v = append(v, Violation{
			Kind:    ViolationCount,
			Field:   "sections",
			Message: fmt.Sprintf("%d sections outside [%d, %d]", n, MinEditionSections, MaxEditionSections),
		})
	}

	names := make(map[string]bool, len(e.Sections))
	for i, s := range e.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		if n := utf8.RuneCountInString(s.Name); n < MinSectionNameLen || n > MaxSectionNameLen {
			v = append(v, Violation{Kind: ViolationLength, Field: field + ".name", Message: fmt.Sprintf("length %d outside [%d, %d]", n, MinSectionNameLen, MaxSectionNameLen)})
		} else if !VisibleText.MatchString(s.Name) {
			v = append(v, Violation{Kind: ViolationCharset, Field: field + ".name", Message: fmt.Sprintf("illegal character %q", firstIllegal(s.Name))})
		}
		if names[s.Name] {
			v = append(v, Violation{Kind: ViolationDuplicate, Field: field + ".name", Message: fmt.Sprintf("section %q listed twice", s.Name)})
		}
		names[s.Name] = true

		for j, link := range s.Articles {
			v = append(v, checkSiteLink(fmt.Sprintf("%s.articles[%d]", field, j), link, siteDomain)...)
		}
	}

	required := []struct{ field, link string }{
		{"politicsThisWeek", e.PoliticsThisWeek},
		{"cartoon", e.Cartoon},
		{"letters", e.Letters},
		{"obituary", e.Obituary},
	}
	for _, r := range required {
		if r.link == "" {
			v = append(v, Violation{Kind: ViolationRequired, Field: r.field, Message: "missing from the contents page"})
			continue
		}
		v = append(v, checkSiteLink(r.field, r.link, siteDomain)...)
	}
	if e.BusinessThisWeek != "" {
		v = append(v, checkSiteLink("businessThisWeek", e.BusinessThisWeek, siteDomain)...)
	}

	return violationError("edition", v)
}

// ArticleCount returns the number of article links in the edition.
func (e *Edition) ArticleCount() int {
	n := 0
	for _, link := range []string{e.PoliticsThisWeek, e.BusinessThisWeek, e.Cartoon, e.Letters, e.Obituary} {
		if link != "" {
			n++
		}
	}
	for _, s := range e.Sections {
		n += len(s.Articles)
	}
	return n
}

func checkSiteLink(field, link, siteDomain string) []Violation {
	u, err := parseAbsoluteURL(link)
	if err != nil {
		return []Violation{{Kind: ViolationMalformedURL, Field: field, Message: err.Error()}}
	}
	if !onDomain(u, siteDomain) {
		return []Violation{{Kind: ViolationUntrustedSource, Field: field, Message: fmt.Sprintf("%s is not on %s", link, siteDomain)}}
	}
	return nil
}

func onDomain(u *url.URL, domain string) bool {
	host := u.Hostname()
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// IssueSection holds the parsed articles of one edition section.
type IssueSection struct {
	Name     string
	Articles []Article
}

// Issue is a parsed edition. Articles that failed to parse are listed in
// Failures instead; a single bad page does not sink the issue.
type Issue struct {
	Date             string
	PoliticsThisWeek *WeeklyDigestArticle
	BusinessThisWeek *WeeklyDigestArticle // nil for holiday issues
	Cartoon          *SingleImageArticle
	Letters          *LetterArticle
	Obituary         Article
	Sections         []IssueSection
	Failures         []Failure
}

// Failure records an article that could not be fetched or parsed.
type Failure struct {
	URL string
	Err error
}

// LabelledArticle is an article together with the label it is rendered
// under: the slot name for digests, the cartoon and the obituary, and the
// section name for section articles.
type LabelledArticle struct {
	Label   string
	Article Article
}

// Labelled returns every parsed article of the issue in reading order,
// each with its label. The letters page carries its own header and has
// an empty label.
func (i *Issue) Labelled() []LabelledArticle {
	var out []LabelledArticle
	if i.PoliticsThisWeek != nil {
		out = append(out, LabelledArticle{PoliticsLabel, i.PoliticsThisWeek})
	}
	if i.BusinessThisWeek != nil {
		out = append(out, LabelledArticle{BusinessLabel, i.BusinessThisWeek})
	}
	if i.Cartoon != nil {
		out = append(out, LabelledArticle{CartoonLabel, i.Cartoon})
	}
	if i.Letters != nil {
		out = append(out, LabelledArticle{"", i.Letters})
	}
	for _, s := range i.Sections {
		for _, a := range s.Articles {
			out = append(out, LabelledArticle{s.Name, a})
		}
	}
	if i.Obituary != nil {
		out = append(out, LabelledArticle{ObituaryLabel, i.Obituary})
	}
	return out
}

// Articles returns every parsed article of the issue in reading order.
func (i *Issue) Articles() []Article {
	labelled := i.Labelled()
	articles := make([]Article, len(labelled))
	for n, l := range labelled {
		articles[n] = l.Article
	}
	return articles
}

// ImageURLs returns the distinct image URLs referenced by the issue, in
// reading order.
func (i *Issue) ImageURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, a := range i.Articles() {
		add(MainImage(a))
		for _, c := range Body(a) {
			if img, ok := c.(Image); ok {
				add(img.URL)
			}
		}
	}
	return urls
}

// EditionParser parses a contents page into an Edition.
type EditionParser interface {
	ParseEdition(date string, html string) (*Edition, error)
}

// Labels of the edition articles that have no header of their own.
const (
	PoliticsLabel = "Politics this week"
	BusinessLabel = "Business this week"
	CartoonLabel  = "KAL's cartoon"
	ObituaryLabel = "Obituary"
)
