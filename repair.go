package magdoc

import "unicode/utf8"

// RepairFootnotes scans content backwards from the end, reclassifying short
// trailing paragraphs as footnotes for pages that published them without
// a footnote marker. Each conversion costs 1+FootnotesPerParagraph of the
// budget accrued by Classify; the scan stops when the budget runs out or at
// the first element a footnote cannot follow. content is modified in place.
//
// A pull-quote or reference in the scanned tail has no repair rule and
// yields EUNRECOGNIZED.
func RepairFootnotes(content []Content, budget int, th Thresholds) error {
	for i := len(content) - 1; i >= 0 && budget > 0; i-- {
		switch c := content[i].(type) {
		case Footnote:
			continue
		case LetterAuthor, SubHeading, Image:
			return nil
		case Text:
			if utf8.RuneCountInString(c.Body) >= th.MinTextLen {
				return nil
			}
			content[i] = Footnote{Body: c.Body}
			budget -= 1 + th.FootnotesPerParagraph
		default:
			return Errorf(EUNRECOGNIZED, "no footnote repair rule for %s content at position %d", c.Kind(), i)
		}
	}
	return nil
}
