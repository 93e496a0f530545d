package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/bloom"
	"github.com/fwojciec/magdoc/crawl"
	"github.com/fwojciec/magdoc/fs"
	"github.com/fwojciec/magdoc/goquery"
	"github.com/fwojciec/magdoc/htmltomarkdown"
	magslog "github.com/fwojciec/magdoc/slog"
)

// Run executes the edition command.
func (c *EditionCmd) Run(deps *Dependencies) error {
	if _, err := time.Parse(time.DateOnly, c.Date); err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid edition date %q, want YYYY-MM-DD\n", c.Date)
		return magdoc.Errorf(magdoc.EINVALID, "invalid edition date %q", c.Date)
	}
	cfg := deps.Config

	contentsURL := c.URL
	if contentsURL == "" {
		contentsURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/printedition/" + c.Date
	}

	pages := crawl.NewPageCache(deps.Fetcher)
	delays := deps.RetryDelays
	if delays == nil {
		delays = crawl.DefaultRetryDelays()
	}

	html, err := crawl.FetchWithRetryDelays(deps.Ctx, contentsURL, pages.Fetch, nil, delays)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error fetching contents %s: %s\n", contentsURL, errorText(err))
		return err
	}

	var editions magdoc.EditionParser
	editions, err = goquery.NewEditionParser(cfg.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}
	if deps.Logger != nil {
		editions = magslog.NewLoggingEditionParser(editions, deps.Logger)
	}

	edition, err := editions.ParseEdition(c.Date, html)
	if err != nil {
		printParseError(deps, contentsURL, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Edition %s: %d sections, %d articles\n", edition.Date, len(edition.Sections), edition.ArticleCount())

	harvester := &crawl.Harvester{
		Fetcher:     pages,
		Parsers:     c.parsers(deps),
		RateLimiter: deps.RateLimiter,
		Seen:        bloom.NewURLSet(edition),
		Concurrency: cfg.Concurrency,
		RetryDelays: delays,
	}
	issue, err := harvester.Harvest(deps.Ctx, edition, progress(deps, "articles"))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error harvesting edition: %s\n", errorText(err))
		return err
	}

	store, err := fs.NewIssueStore(c.Output, c.Date)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}

	if err := c.writeIssue(deps, store, issue, delays); err != nil {
		_ = store.Abort()
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s (%d articles, %d failed)\n",
		filepath.Join(store.Dir(), fs.IssueFile), len(issue.Articles()), len(issue.Failures))

	if c.NoArchive || deps.Articles == nil {
		return nil
	}

	archiver := &crawl.Archiver{
		Articles: deps.Articles,
		Renderer: htmltomarkdown.NewRenderer(),
		Images:   store.Images(),
		Meta:     deps.Meta,
		Pages:    pages,
	}
	result, err := archiver.Archive(deps.Ctx, issue)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error archiving articles: %s\n", errorText(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Archived %d new, %d updated, %d unchanged\n", result.Created, result.Updated, result.Unchanged)
	return nil
}

// writeIssue downloads the issue's images and writes its Markdown file.
func (c *EditionCmd) writeIssue(deps *Dependencies, store *fs.IssueStore, issue *magdoc.Issue, delays []time.Duration) error {
	if deps.Downloader != nil {
		images := &crawl.ImageDownloader{
			Downloader:  deps.Downloader,
			Store:       store.Images(),
			RateLimiter: deps.RateLimiter,
			Concurrency: deps.Config.Concurrency,
			RetryDelays: delays,
		}
		failures, err := images.DownloadImages(deps.Ctx, issue, progress(deps, "images"))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error downloading images: %s\n", errorText(err))
			return err
		}
		if len(failures) > 0 {
			fmt.Fprintf(deps.Stderr, "  %d images missing from the issue\n", len(failures))
		}
	}

	if err := store.WriteIssue(issue, htmltomarkdown.NewRenderer()); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing issue: %s\n", errorText(err))
		return err
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing issue: %v\n", err)
		return err
	}
	return nil
}

// parsers returns the parser for each slot of an edition. Section
// articles go through the essay parser, which handles plain pages too.
func (c *EditionCmd) parsers(deps *Dependencies) crawl.Parsers {
	opts := deps.Config.ParserOptions()
	p := crawl.Parsers{
		Digest:  goquery.NewWeeklyDigestParser(opts...),
		Cartoon: goquery.NewSingleImageParser(opts...),
		Letters: goquery.NewLetterParser(opts...),
		Article: goquery.NewEssayParser(opts...),
	}
	if deps.Logger != nil {
		p.Digest = magslog.NewLoggingParser(p.Digest, deps.Logger)
		p.Cartoon = magslog.NewLoggingParser(p.Cartoon, deps.Logger)
		p.Letters = magslog.NewLoggingParser(p.Letters, deps.Logger)
		p.Article = magslog.NewLoggingParser(p.Article, deps.Logger)
	}
	return p
}

// progress prints harvest and download progress. Failures go to stderr.
func progress(deps *Dependencies, what string) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Fetching %d %s\n", event.Total, what)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, errorText(event.Error))
		case crawl.ProgressCompleted, crawl.ProgressSkipped, crawl.ProgressFinished:
			// Summary printed after the stage completes
		}
	}
}
