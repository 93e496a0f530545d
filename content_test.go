package magdoc_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paragraph is a body paragraph long enough to count as real text.
const paragraph = "The central bank raised interest rates again on Wednesday, citing persistent inflation in services and a tight labour market."

// otherParagraph is a second, distinct body paragraph.
const otherParagraph = "Economists had expected the move, though several argued that the lagged effect of earlier increases had yet to be felt in full."

const footnote = "This article appeared in the Finance section of the print edition."

const imageURL = "https://cdn.static-economist.com/sites/default/files/images/chart.png"

func TestValidateContent(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid payloads", func(t *testing.T) {
		t.Parallel()

		valid := []magdoc.Content{
			magdoc.Text{Body: paragraph},
			magdoc.SubHeading{Body: "Rising Importance"},
			magdoc.Image{URL: imageURL},
			magdoc.Footnote{Body: footnote},
			magdoc.PullQuote{Body: "“We are not done yet”"},
			magdoc.LetterAuthor{Name: "JOHN SMITH London"},
			magdoc.Reference{
				Before:   "See",
				LinkText: "our earlier report",
				LinkHref: "https://www.economist.com/finance/2024/01/04/rates",
				After:    "for details.",
			},
		}
		for _, c := range valid {
			assert.NoError(t, magdoc.ValidateContent(c), "%s", c.Kind())
		}
	})

	t.Run("rejects short text", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.Text{Body: "Too short to be a paragraph."})

		assert.Equal(t, magdoc.EVIOLATION, magdoc.ErrorCode(err))
		require.Len(t, magdoc.Violations(err), 1)
		assert.Equal(t, magdoc.ViolationLength, magdoc.Violations(err)[0].Kind)
	})

	t.Run("rejects text over the maximum", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.Text{Body: strings.Repeat("word ", 201)})

		assert.Equal(t, magdoc.EVIOLATION, magdoc.ErrorCode(err))
	})

	t.Run("names the illegal character", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.Footnote{Body: "Footnote with a snowman ☃ inside"})

		violations := magdoc.Violations(err)
		require.Len(t, violations, 1)
		assert.Equal(t, magdoc.ViolationCharset, violations[0].Kind)
		assert.Contains(t, violations[0].Message, "☃")
	})

	t.Run("rejects relative image URL", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.Image{URL: "/images/chart.png"})

		violations := magdoc.Violations(err)
		require.Len(t, violations, 1)
		assert.Equal(t, magdoc.ViolationMalformedURL, violations[0].Kind)
	})

	t.Run("rejects letter author in lower case", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.LetterAuthor{Name: "john smith, london"})

		assert.Equal(t, magdoc.EVIOLATION, magdoc.ErrorCode(err))
	})

	t.Run("rejects reference with long context", func(t *testing.T) {
		t.Parallel()

		err := magdoc.ValidateContent(magdoc.Reference{
			Before:   strings.Repeat("x", magdoc.MaxReferenceContext+1),
			LinkText: "our report",
			LinkHref: "https://www.economist.com/finance/2024/01/04/rates",
		})

		violations := magdoc.Violations(err)
		require.Len(t, violations, 1)
		assert.Equal(t, "reference.before", violations[0].Field)
	})
}

func TestLetterAuthorPattern(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"JOHN SMITH",
		"J.R. HARTLEY London",
		"MARY O’BRIEN, Dublin",
		"PROFESSOR ANNE-MARIE DUPONT Sciences Po, Paris",
		"JOHN McDONALD Glasgow",
		"JANE DOE former ambassador to Chile",
		"JOHN SMITH (retired) Oxford",
	} {
		assert.True(t, magdoc.LetterAuthorPattern.MatchString(s), s)
	}

	for _, s := range []string{
		"SIR – Your article on interest rates was mistaken.",
		"Mr SMITH, London",
		"JOHN smith",
		"John Smith",
		"SMITH",
	} {
		assert.False(t, magdoc.LetterAuthorPattern.MatchString(s), s)
	}
}

func TestContentKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sub-heading", magdoc.KindSubHeading.String())
	assert.Equal(t, "footnote", magdoc.Footnote{}.Kind().String())
}
