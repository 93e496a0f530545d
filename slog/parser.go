package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/magdoc"
)

var (
	_ magdoc.Parser        = (*LoggingParser)(nil)
	_ magdoc.EditionParser = (*LoggingEditionParser)(nil)
)

// LoggingParser wraps a Parser with logging. Failed parses log their error
// code and the number of structural violations.
type LoggingParser struct {
	next   magdoc.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next magdoc.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser.
func (p *LoggingParser) Parse(documentURL, html string) (a magdoc.Article, err error) {
	defer func(begin time.Time) {
		if err != nil {
			p.logger.Warn("parse",
				"url", documentURL,
				"code", magdoc.ErrorCode(err),
				"violations", len(magdoc.Violations(err)),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		p.logger.Info("parse",
			"url", documentURL,
			"kind", a.Kind(),
			"elements", len(magdoc.Body(a)),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Parse(documentURL, html)
}

// LoggingEditionParser wraps an EditionParser with logging.
type LoggingEditionParser struct {
	next   magdoc.EditionParser
	logger *slog.Logger
}

// NewLoggingEditionParser creates a new LoggingEditionParser.
func NewLoggingEditionParser(next magdoc.EditionParser, logger *slog.Logger) *LoggingEditionParser {
	return &LoggingEditionParser{next: next, logger: logger}
}

// ParseEdition delegates to the wrapped parser.
func (p *LoggingEditionParser) ParseEdition(date, html string) (e *magdoc.Edition, err error) {
	defer func(begin time.Time) {
		var sections, articles int
		if e != nil {
			sections, articles = len(e.Sections), e.ArticleCount()
		}
		p.logger.Info("parse edition",
			"date", date,
			"sections", sections,
			"articles", articles,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseEdition(date, html)
}
