package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/goquery"
	"github.com/fwojciec/magdoc/htmltomarkdown"
	magslog "github.com/fwojciec/magdoc/slog"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	kind, err := magdoc.ParseArticleKind(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}

	parser, err := goquery.NewParser(kind, deps.Config.ParserOptions()...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}
	if deps.Logger != nil {
		parser = magslog.NewLoggingParser(parser, deps.Logger)
	}

	html, documentURL, err := c.read(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error reading %s: %v\n", c.Source, err)
		return err
	}

	a, err := parser.Parse(documentURL, html)
	if err != nil {
		printParseError(deps, documentURL, err)
		return err
	}

	label := c.Label
	if label == "" {
		label = defaultLabel(kind)
	}
	return htmltomarkdown.NewRenderer().RenderArticle(deps.Stdout, label, a, nil)
}

// read returns the page HTML and the URL to record for it.
func (c *ParseCmd) read(deps *Dependencies) (html, documentURL string, err error) {
	documentURL = c.URL
	if isURL(c.Source) {
		if documentURL == "" {
			documentURL = c.Source
		}
		if deps.Fetcher == nil {
			return "", "", magdoc.Errorf(magdoc.EINTERNAL, "no fetcher configured")
		}
		html, err = deps.Fetcher.Fetch(deps.Ctx, c.Source)
		return html, documentURL, err
	}

	b, err := os.ReadFile(c.Source)
	if err != nil {
		return "", "", err
	}
	if documentURL == "" {
		documentURL = c.Source
	}
	return string(b), documentURL, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func defaultLabel(kind magdoc.ArticleKind) string {
	switch kind {
	case magdoc.KindWeeklyDigestArticle:
		return magdoc.PoliticsLabel
	case magdoc.KindSingleImageArticle:
		return magdoc.CartoonLabel
	}
	return ""
}

// printParseError reports a failed parse. Structural violations are
// listed one per line.
func printParseError(deps *Dependencies, documentURL string, err error) {
	violations := magdoc.Violations(err)
	if len(violations) == 0 {
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", documentURL, magdoc.ErrorMessage(err))
		return
	}
	fmt.Fprintf(deps.Stderr, "error: %s: %d violations\n", documentURL, len(violations))
	for _, v := range violations {
		fmt.Fprintf(deps.Stderr, "  - %s\n", v)
	}
}
