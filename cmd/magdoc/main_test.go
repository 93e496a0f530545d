package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/magdoc"
	main "github.com/fwojciec/magdoc/cmd/magdoc"
	"github.com/fwojciec/magdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	site = "https://www.economist.com"

	paragraph      = "The central bank raised interest rates again on Wednesday, citing persistent inflation in services and a tight labour market."
	otherParagraph = "Economists had expected the move, though several argued that the lagged effect of earlier increases had yet to be felt in full."

	mainImage = "https://cdn.static-economist.com/sites/default/files/images/main.jpg"
	kalImage  = "https://cdn.static-economist.com/sites/default/files/images/kal.png"

	articleURL = site + "/finance-and-economics/2024/01/04/holding-pattern"
)

func page(header, content string) string {
	return `<!DOCTYPE html>
<html>
<head><title>Holding pattern</title></head>
<body>
<article>
` + header + `
<div class="main-content">
` + content + `
</div>
</article>
</body>
</html>`
}

var (
	plainPage = page(`<hgroup><h3>Holding pattern</h3><h2>Monetary policy</h2><h1>The Fed stands firm</h1></hgroup>`, `
<div class="content-image-full"><img src="`+mainImage+`"></div>
<p>`+paragraph+`</p>
<p>`+otherParagraph+`</p>`)

	digestPage = page("", `
<p>`+paragraph+`</p>
<p>`+otherParagraph+`</p>`)

	cartoonPage = page("", `<div class="content-image-full"><img src="`+kalImage+`"></div>`)

	lettersPage = page(`<hgroup><h3>Letters to the editor</h3><h2>On rates, Brexit, cricket</h2></hgroup>`, `
<p>SIR – `+paragraph+`</p>
<p>JOHN SMITH London</p>`)
)

const contentsPage = `<!DOCTYPE html>
<html>
<body>
<div class="section">
	<div class="first">
		<a href="/the-world-this-week/2024/01/04/politics">Politics this week</a>
		<a href="/the-world-this-week/2024/01/04/business">Business this week</a>
		<a href="/the-world-this-week/2024/01/04/kals-cartoon">KAL's cartoon</a>
	</div>
</div>
<div class="section">
	<h4>Leaders</h4>
	<a href="/leaders/2024/01/04/rates">Rates</a>
	<a href="/leaders/2024/01/04/china">China</a>
</div>
<div class="section">
	<h4>Letters</h4>
	<a href="/letters/2024/01/04/on-rates">On rates, Brexit, cricket</a>
</div>
<div class="section">
	<h4>Briefing</h4>
	<a href="/briefing/2024/01/04/elections">Elections</a>
</div>
<div class="section">
	<h4>United States</h4>
	<a href="/united-states/2024/01/04/congress">Congress</a>
</div>
<div class="section">
	<h4>Europe</h4>
	<a href="/europe/2024/01/04/france">France</a>
</div>
<div class="section">
	<h4>Finance and economics</h4>
	<a href="/finance-and-economics/2024/01/04/holding-pattern">Holding pattern</a>
</div>
<div class="section">
	<h4>Obituary</h4>
	<a href="/obituary/2024/01/04/a-life">A life</a>
</div>
</body>
</html>`

// siteFetcher serves the contents page and one article page per slot.
func siteFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			switch {
			case strings.HasSuffix(url, "/printedition/2024-01-06"):
				return contentsPage, nil
			case strings.HasSuffix(url, "/politics"), strings.HasSuffix(url, "/business"):
				return digestPage, nil
			case strings.HasSuffix(url, "/kals-cartoon"):
				return cartoonPage, nil
			case strings.Contains(url, "/letters/"):
				return lettersPage, nil
			}
			return plainPage, nil
		},
		CloseFn: func() error { return nil },
	}
}

// imageDownloader serves every image and records the URLs requested.
type imageDownloader struct {
	mu   sync.Mutex
	urls []string
}

func (d *imageDownloader) downloader() *mock.Downloader {
	return &mock.Downloader{
		DownloadFn: func(_ context.Context, url string) ([]byte, error) {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.urls = append(d.urls, url)
			return []byte("image"), nil
		},
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns an error without arguments", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("parses a local article file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "article.html")
		require.NoError(t, os.WriteFile(path, []byte(plainPage), 0644))

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"parse", "plain", path, "--url", articleURL}, stdout, stderr)

		require.NoError(t, err)
		out := stdout.String()
		assert.True(t, strings.HasPrefix(out, "## Monetary policy: Holding pattern\n"), out)
		assert.Contains(t, out, "**The Fed stands firm**")
		assert.Contains(t, out, paragraph)
		assert.Empty(t, stderr.String())
	})

	t.Run("lists every violation of a rejected article", func(t *testing.T) {
		t.Parallel()

		untrusted := strings.ReplaceAll(plainPage, "cdn.static-economist.com", "images.example.com")
		path := filepath.Join(t.TempDir(), "article.html")
		require.NoError(t, os.WriteFile(path, []byte(untrusted), 0644))

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"parse", "plain", path}, stdout, stderr)

		assert.Equal(t, magdoc.EVIOLATION, magdoc.ErrorCode(err))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "UntrustedSource")
	})

	t.Run("rejects an invalid config file", func(t *testing.T) {
		t.Parallel()

		cfg := writeConfig(t, "concurrency: -1\n")
		m := main.NewMain()
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", cfg, "parse", "plain", "missing.html"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, magdoc.EINVALID, magdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "concurrency must be positive")
	})

	t.Run("writes and archives an edition", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dbPath := filepath.Join(dir, "magdoc.db")
		cfg := writeConfig(t, "requests_per_second: 1000\n")
		var images imageDownloader

		m := main.NewMain()
		m.DBPath = dbPath
		m.Fetcher = siteFetcher()
		m.Downloader = images.downloader()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", cfg, "edition", "2024-01-06", "--output", dir}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Edition 2024-01-06: 5 sections, 11 articles")
		assert.Contains(t, stdout.String(), "Archived 11 new, 0 updated, 0 unchanged")
		assert.ElementsMatch(t, []string{kalImage, mainImage}, images.urls)

		issue, err := os.ReadFile(filepath.Join(dir, "2024-01-06", "issue.md"))
		require.NoError(t, err)
		assert.Contains(t, string(issue), "# The world this week")
		assert.Contains(t, string(issue), "## Monetary policy: Holding pattern")
		assert.Contains(t, string(issue), "# Letters")
		assert.Contains(t, string(issue), "images/images-")
		assert.NoDirExists(t, filepath.Join(dir, "2024-01-06.tmp"))

		list := main.NewMain()
		list.DBPath = dbPath
		out := &bytes.Buffer{}
		err = list.Run(context.Background(), []string{"archive", "list", "--issue", "2024-01-06"}, out, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, out.String(), magdoc.CartoonLabel)
		assert.Contains(t, out.String(), "Holding pattern")
		assert.Contains(t, out.String(), articleURL)
	})

	t.Run("skips the archive when asked", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := writeConfig(t, "requests_per_second: 1000\n")
		var images imageDownloader

		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "magdoc.db")
		m.Fetcher = siteFetcher()
		m.Downloader = images.downloader()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", cfg, "edition", "2024-01-06", "-o", dir, "--no-archive"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.NotContains(t, stdout.String(), "Archived")
		assert.NoFileExists(t, m.DBPath)
		assert.FileExists(t, filepath.Join(dir, "2024-01-06", "issue.md"))
	})
}
