package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/magdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config Config

	Fetcher     magdoc.Fetcher
	Downloader  magdoc.Downloader
	RateLimiter magdoc.DomainLimiter
	Articles    magdoc.ArticleService
	Meta        magdoc.MetaReader

	// RetryDelays overrides the fetch retry schedule.
	RetryDelays []time.Duration
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"existingfile" help:"YAML file overriding the default settings"`
	Verbose bool   `short:"v" help:"Log every fetch and parse to stderr"`

	Parse   ParseCmd   `cmd:"" help:"Parse one article page and print it as Markdown"`
	Edition EditionCmd `cmd:"" help:"Fetch a printed edition and write it as Markdown"`
	Archive ArchiveCmd `cmd:"" help:"Inspect archived articles"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Kind   string `arg:"" enum:"plain,letters,digest,image,essay" help:"Article kind (plain, letters, digest, image, essay)"`
	Source string `arg:"" help:"HTML file or URL of the article page"`
	URL    string `help:"Source URL to record when parsing a local file"`
	Label  string `help:"Heading for articles without a title of their own"`
}

// EditionCmd is the "edition" subcommand.
type EditionCmd struct {
	Date      string `arg:"" help:"Edition date (YYYY-MM-DD)"`
	Output    string `short:"o" default:"." help:"Directory the issue directory is written to"`
	URL       string `help:"Contents page URL (default: <base_url>/printedition/<date>)"`
	Render    bool   `short:"r" help:"Render pages in a headless browser"`
	NoArchive bool   `help:"Do not archive the articles"`
}

// ArchiveCmd groups the archive subcommands.
type ArchiveCmd struct {
	List   ArchiveListCmd   `cmd:"" help:"List archived articles"`
	Show   ArchiveShowCmd   `cmd:"" help:"Print an archived article"`
	Delete ArchiveDeleteCmd `cmd:"" help:"Delete an archived article"`
}

// ArchiveListCmd is the "archive list" subcommand.
type ArchiveListCmd struct {
	Issue string `short:"i" help:"Only list articles of this edition date"`
	Limit int    `short:"n" help:"Maximum number of articles to list"`
}

// ArchiveShowCmd is the "archive show" subcommand.
type ArchiveShowCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// ArchiveDeleteCmd is the "archive delete" subcommand.
type ArchiveDeleteCmd struct {
	ID    string `arg:"" help:"Article ID"`
	Force bool   `help:"Confirm deletion"`
}
