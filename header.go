package magdoc

import "unicode/utf8"

// Layout is what header cleanup may look at besides the header itself.
type Layout struct {
	Body       []Content
	MainImage  string
	Caption    string
	Thresholds Thresholds
}

// HeaderRule rewrites a header for a known layout anomaly. It reports
// whether it applied.
type HeaderRule func(h ArticleHeader, l Layout) (ArticleHeader, bool)

// TitleMissingRules are tried in order when a header lacks its title.
var TitleMissingRules = []HeaderRule{MiniArticleRule, CaptionStrapRule}

// TitleMissing reports whether h has a topic and strap but no title, the
// shape produced by pages that shift their header fields up one level.
func TitleMissing(h ArticleHeader) bool {
	return h.Title == "" && h.Topic != "" && h.Strap != ""
}

// CleanHeader returns h rewritten by the first applicable rule of
// TitleMissingRules. Headers that are not missing a title, or that no rule
// fits, are returned unchanged; the caller must reject a still-empty title.
func CleanHeader(h ArticleHeader, l Layout) ArticleHeader {
	if !TitleMissing(h) {
		return h
	}
	for _, rule := range TitleMissingRules {
		if cleaned, ok := rule(h, l); ok {
			return cleaned
		}
	}
	return h
}

// MiniArticleRule handles mini-articles: the topic becomes the title, the
// strap becomes the topic and the strap is set to MiniStrap.
func MiniArticleRule(h ArticleHeader, l Layout) (ArticleHeader, bool) {
	if !IsMiniArticle(l) {
		return h, false
	}
	return ArticleHeader{Title: h.Topic, Topic: h.Strap, Strap: MiniStrap}, true
}

// CaptionStrapRule handles pages that put the strap in the main image
// caption: fields shift up one level and the caption becomes the strap.
func CaptionStrapRule(h ArticleHeader, l Layout) (ArticleHeader, bool) {
	if l.MainImage == "" || l.Caption == "" {
		return h, false
	}
	return ArticleHeader{Title: h.Topic, Topic: h.Strap, Strap: l.Caption}, true
}

// IsMiniArticle reports whether the layout is a mini-article: a main image
// over exactly one paragraph, or, without a main image, an inline image
// followed by paragraphs all but the first of which are shortish.
func IsMiniArticle(l Layout) bool {
	if l.MainImage != "" {
		if len(l.Body) != 1 {
			return false
		}
		_, ok := l.Body[0].(Text)
		return ok
	}

	if len(l.Body) < 2 {
		return false
	}
	if _, ok := l.Body[0].(Image); !ok {
		return false
	}
	for i, c := range l.Body[1:] {
		t, ok := c.(Text)
		if !ok {
			return false
		}
		if i > 0 && utf8.RuneCountInString(t.Body) > l.Thresholds.ShortishTextLen {
			return false
		}
	}
	return true
}

// DropDuplicateLeadImage removes the first body element when it repeats
// the main image, which some pages list twice.
func DropDuplicateLeadImage(body []Content, mainImage string) []Content {
	if mainImage == "" || len(body) == 0 {
		return body
	}
	if img, ok := body[0].(Image); ok && img.URL == mainImage {
		return body[1:]
	}
	return body
}

// LettersHeader returns the fixed letters-page header. The raw topic lists
// the subjects of the letters and becomes the strap.
func LettersHeader(raw ArticleHeader) ArticleHeader {
	return ArticleHeader{Title: LettersTitle, Topic: LettersTopic, Strap: raw.Topic}
}
