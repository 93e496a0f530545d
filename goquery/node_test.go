package goquery_test

import (
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	t.Parallel()

	doc, err := goquery.Parse(`<html><body>
<div id="root" class="main-content wide">
	<p class="xhead">Rising
		Importance</p>
	<div class="content-image-mini"><span><img src="https://cdn.static-economist.com/x.png"></span></div>
</div>
</body></html>`)
	require.NoError(t, err)

	root := goquery.NewNode(doc.Find("#root"))

	t.Run("exposes tag and class", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "div", root.Tag())
		assert.Equal(t, "main-content wide", root.Class())
		id, ok := root.Attr("id")
		assert.True(t, ok)
		assert.Equal(t, "root", id)
	})

	t.Run("lists element children in order", func(t *testing.T) {
		t.Parallel()

		kids := root.Children()

		require.Len(t, kids, 2)
		assert.Equal(t, "p", kids[0].Tag())
		assert.Equal(t, "div", kids[1].Tag())
	})

	t.Run("collapses whitespace in text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Rising Importance", root.Children()[0].Text())
	})

	t.Run("finds nested descendants", func(t *testing.T) {
		t.Parallel()

		img, ok := root.Children()[1].First("img")
		require.True(t, ok)
		src, _ := img.Attr("src")
		assert.Equal(t, "https://cdn.static-economist.com/x.png", src)

		_, ok = root.First("sup")
		assert.False(t, ok)
	})

	t.Run("drives the classifier", func(t *testing.T) {
		t.Parallel()

		content, _ := magdoc.Classify(root, magdoc.ClassifyOptions{Thresholds: magdoc.DefaultThresholds})

		assert.Equal(t, []magdoc.Content{
			magdoc.SubHeading{Body: "Rising Importance"},
			magdoc.Image{URL: "https://cdn.static-economist.com/x.png"},
		}, content)
	})
}
