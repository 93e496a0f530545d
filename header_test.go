package magdoc_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/stretchr/testify/assert"
)

func TestCleanHeader(t *testing.T) {
	t.Parallel()

	shifted := magdoc.ArticleHeader{Topic: "Monetary policy", Strap: "The Fed stands firm"}

	t.Run("mini-article with main image", func(t *testing.T) {
		t.Parallel()

		got := magdoc.CleanHeader(shifted, magdoc.Layout{
			Body:       []magdoc.Content{magdoc.Text{Body: paragraph}},
			MainImage:  imageURL,
			Thresholds: magdoc.DefaultThresholds,
		})

		assert.Equal(t, magdoc.ArticleHeader{
			Title: "Monetary policy",
			Topic: "The Fed stands firm",
			Strap: magdoc.MiniStrap,
		}, got)
	})

	t.Run("mini-article with inline image", func(t *testing.T) {
		t.Parallel()

		got := magdoc.CleanHeader(shifted, magdoc.Layout{
			Body: []magdoc.Content{
				magdoc.Image{URL: imageURL},
				magdoc.Text{Body: strings.Repeat("long ", 80)},
				magdoc.Text{Body: paragraph},
			},
			Thresholds: magdoc.DefaultThresholds,
		})

		assert.Equal(t, magdoc.MiniStrap, got.Strap)
	})

	t.Run("caption becomes strap", func(t *testing.T) {
		t.Parallel()

		got := magdoc.CleanHeader(shifted, magdoc.Layout{
			Body:       []magdoc.Content{magdoc.Text{Body: paragraph}, magdoc.Text{Body: otherParagraph}},
			MainImage:  imageURL,
			Caption:    "Rates are going nowhere",
			Thresholds: magdoc.DefaultThresholds,
		})

		assert.Equal(t, magdoc.ArticleHeader{
			Title: "Monetary policy",
			Topic: "The Fed stands firm",
			Strap: "Rates are going nowhere",
		}, got)
	})

	t.Run("no rule applies", func(t *testing.T) {
		t.Parallel()

		got := magdoc.CleanHeader(shifted, magdoc.Layout{
			Body:       []magdoc.Content{magdoc.Text{Body: paragraph}, magdoc.Text{Body: otherParagraph}},
			Thresholds: magdoc.DefaultThresholds,
		})

		assert.Equal(t, shifted, got)
		assert.Empty(t, got.Title)
	})

	t.Run("complete header is untouched", func(t *testing.T) {
		t.Parallel()

		h := magdoc.ArticleHeader{Title: "Holding pattern", Topic: "Monetary policy", Strap: "The Fed stands firm"}

		got := magdoc.CleanHeader(h, magdoc.Layout{
			Body:       []magdoc.Content{magdoc.Text{Body: paragraph}},
			MainImage:  imageURL,
			Thresholds: magdoc.DefaultThresholds,
		})

		assert.Equal(t, h, got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		l := magdoc.Layout{
			Body:       []magdoc.Content{magdoc.Text{Body: paragraph}},
			MainImage:  imageURL,
			Thresholds: magdoc.DefaultThresholds,
		}

		once := magdoc.CleanHeader(shifted, l)

		assert.Equal(t, once, magdoc.CleanHeader(once, l))
	})
}

func TestIsMiniArticle(t *testing.T) {
	t.Parallel()

	th := magdoc.DefaultThresholds

	assert.False(t, magdoc.IsMiniArticle(magdoc.Layout{
		Body:       []magdoc.Content{magdoc.Image{URL: imageURL}},
		Thresholds: th,
	}))
	assert.False(t, magdoc.IsMiniArticle(magdoc.Layout{
		Body: []magdoc.Content{
			magdoc.Image{URL: imageURL},
			magdoc.Text{Body: paragraph},
			magdoc.Text{Body: strings.Repeat("long ", 80)},
		},
		Thresholds: th,
	}))
	assert.False(t, magdoc.IsMiniArticle(magdoc.Layout{
		Body:       []magdoc.Content{magdoc.Text{Body: paragraph}, magdoc.Image{URL: imageURL}},
		Thresholds: th,
	}))
	assert.False(t, magdoc.IsMiniArticle(magdoc.Layout{
		Body:       []magdoc.Content{magdoc.SubHeading{Body: "Rising Importance"}},
		MainImage:  imageURL,
		Thresholds: th,
	}))
}

func TestDropDuplicateLeadImage(t *testing.T) {
	t.Parallel()

	body := []magdoc.Content{magdoc.Image{URL: imageURL}, magdoc.Text{Body: paragraph}}

	assert.Equal(t, body[1:], magdoc.DropDuplicateLeadImage(body, imageURL))
	assert.Equal(t, body, magdoc.DropDuplicateLeadImage(body, "https://cdn.static-economist.com/other.png"))
	assert.Equal(t, body, magdoc.DropDuplicateLeadImage(body, ""))
}

func TestLettersHeader(t *testing.T) {
	t.Parallel()

	got := magdoc.LettersHeader(magdoc.ArticleHeader{Title: "On rates", Topic: "On rates, Brexit, cricket"})

	assert.Equal(t, magdoc.ArticleHeader{
		Title: magdoc.LettersTitle,
		Topic: magdoc.LettersTopic,
		Strap: "On rates, Brexit, cricket",
	}, got)
}
