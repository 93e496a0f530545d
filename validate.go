package magdoc

import "fmt"

// DefaultTrustedHost is the content-delivery host images must be served from.
const DefaultTrustedHost = "cdn.static-economist.com"

// Rules holds the structural limits articles are validated against. A Rules
// value is immutable in use; Validate keeps no state between calls.
type Rules struct {
	TrustedHost string

	MinBody int
	MaxBody int

	MaxPlainImages  int
	MaxDigestImages int

	// MinDigestTextShare is the minimum share of Text elements in a
	// weekly digest body.
	MinDigestTextShare float64

	Title FieldRule
	Topic FieldRule
	Strap FieldRule
}

// DefaultRules are the limits used unless a caller overrides them.
var DefaultRules = Rules{
	TrustedHost:        DefaultTrustedHost,
	MinBody:            1,
	MaxBody:            100,
	MaxPlainImages:     10,
	MaxDigestImages:    20,
	MinDigestTextShare: 0.5,
	Title:              FieldRule{Field: "title", MinLen: 4, MaxLen: 80, Pattern: VisibleText},
	Topic:              FieldRule{Field: "topic", MinLen: 3, MaxLen: 80, Pattern: VisibleText},
	Strap:              FieldRule{Field: "strap", MinLen: 4, MaxLen: 200, Pattern: VisibleText},
}

// Validate checks a against DefaultRules.
func Validate(a Article) error {
	return DefaultRules.Validate(a)
}

// Validate checks every structural invariant of a and returns a single
// EVIOLATION error listing all violations found, or nil. It never modifies a.
func (r Rules) Validate(a Article) error {
	var v []Violation
	switch a := a.(type) {
	case *PlainArticle:
		if a == nil {
			return nilArticle()
		}
		v = r.checkPlain(a)
	case *LetterArticle:
		if a == nil {
			return nilArticle()
		}
		v = r.checkPlain(&a.PlainArticle)
	case *EssayArticle:
		if a == nil {
			return nilArticle()
		}
		v = r.checkPlain(&a.PlainArticle)
		if a.Topic != EssayTopic {
			v = append(v, Violation{Kind: ViolationRequired, Field: "topic", Message: fmt.Sprintf("essay topic must be %q", EssayTopic)})
		}
	case *WeeklyDigestArticle:
		if a == nil {
			return nilArticle()
		}
		v = r.checkDigest(a)
	case *SingleImageArticle:
		if a == nil {
			return nilArticle()
		}
		if a.MainImage == "" {
			v = append(v, Violation{Kind: ViolationRequired, Field: "mainImage", Message: "single-image article has no image"})
		} else {
			v = append(v, r.checkURL("mainImage", a.MainImage)...)
		}
	case nil:
		return nilArticle()
	default:
		return Errorf(EUNRECOGNIZED, "no validation rules for article %T", a)
	}
	return violationError(a.Kind().String()+" article", v)
}

func nilArticle() error {
	return Errorf(EINVALID, "nil article")
}

func (r Rules) checkPlain(a *PlainArticle) []Violation {
	var v []Violation
	v = append(v, r.Title.check(a.Title)...)
	v = append(v, r.Topic.check(a.Topic)...)
	v = append(v, r.Strap.check(a.Strap)...)
	if a.MainImage != "" {
		v = append(v, r.checkURL("mainImage", a.MainImage)...)
	}
	v = append(v, r.checkBody(a.Body, r.MaxPlainImages)...)

	footnotes := false
	for i, c := range a.Body {
		if footnotes && c.Kind() != KindFootnote {
			v = append(v, Violation{
				Kind:    ViolationOrder,
				Field:   fmt.Sprintf("body[%d]", i),
				Message: fmt.Sprintf("%s content after the first footnote", c.Kind()),
			})
		}
		footnotes = footnotes || c.Kind() == KindFootnote
	}
	return v
}

func (r Rules) checkDigest(a *WeeklyDigestArticle) []Violation {
	v := r.checkBody(a.Body, r.MaxDigestImages)
	if len(a.Body) == 0 {
		return v
	}

	texts := 0
	for _, c := range a.Body {
		if c.Kind() == KindText {
			texts++
		}
	}
	if share := float64(texts) / float64(len(a.Body)); share < r.MinDigestTextShare {
		v = append(v, Violation{
			Kind:    ViolationProportion,
			Field:   "body",
			Message: fmt.Sprintf("only %d of %d elements are text, need at least %.0f%%", texts, len(a.Body), r.MinDigestTextShare*100),
		})
	}
	return v
}

// checkBody applies the checks shared by every body: element count,
// duplicates, payload rules, image hosts and the image ceiling.
func (r Rules) checkBody(body []Content, maxImages int) []Violation {
	var v []Violation
	if len(body) < r.MinBody || len(body) > r.MaxBody {
		v = append(v, Violation{
			Kind:    ViolationCount,
			Field:   "body",
			Message: fmt.Sprintf("%d elements outside [%d, %d]", len(body), r.MinBody, r.MaxBody),
		})
	}

	seen := make(map[Content]int, len(body))
	images := 0
	for i, c := range body {
		field := fmt.Sprintf("body[%d]", i)
		if j, ok := seen[c]; ok {
			v = append(v, Violation{Kind: ViolationDuplicate, Field: field, Message: fmt.Sprintf("duplicates body[%d]", j)})
		} else {
			seen[c] = i
		}

		for _, cv := range CheckContent(c) {
			cv.Field = field + "." + cv.Field
			v = append(v, cv)
		}

		if img, ok := c.(Image); ok {
			images++
			v = append(v, r.checkHost(field, img.URL)...)
		}
	}

	if images > maxImages {
		v = append(v, Violation{
			Kind:    ViolationCount,
			Field:   "body",
			Message: fmt.Sprintf("%d images exceed the maximum of %d", images, maxImages),
		})
	}
	return v
}

// checkURL checks that s is an absolute URL on the trusted host.
func (r Rules) checkURL(field, s string) []Violation {
	if _, err := parseAbsoluteURL(s); err != nil {
		return []Violation{{Kind: ViolationMalformedURL, Field: field, Message: err.Error()}}
	}
	return r.checkHost(field, s)
}

// checkHost reports an untrusted host. Malformed URLs are reported by the
// payload rules, not here.
func (r Rules) checkHost(field, s string) []Violation {
	u, err := parseAbsoluteURL(s)
	if err != nil {
		return nil
	}
	if u.Hostname() != r.TrustedHost {
		return []Violation{{
			Kind:    ViolationUntrustedSource,
			Field:   field,
			Message: fmt.Sprintf("%s is not served by %s", s, r.TrustedHost),
		}}
	}
	return nil
}
