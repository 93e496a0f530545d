// Package crawl fetches the articles and images of a printed edition.
// It coordinates fetching, rate limiting, retries and parsing; the parsing
// itself is delegated to magdoc.Parser implementations.
package crawl

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/magdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at once when a
// Harvester or ImageDownloader does not set one.
const DefaultConcurrency = 4

// ProgressEvent reports progress during a harvest or image download.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)

// Parsers holds the parser used for each slot of an edition.
type Parsers struct {
	Digest  magdoc.Parser // politics and business this week
	Cartoon magdoc.Parser
	Letters magdoc.Parser
	Article magdoc.Parser // section articles and the obituary
}

// Harvester fetches and parses every article of an edition.
type Harvester struct {
	Fetcher     magdoc.Fetcher
	Parsers     Parsers
	RateLimiter magdoc.DomainLimiter // optional
	Seen        magdoc.URLSet        // optional; an in-memory set is used when nil
	Concurrency int
	RetryDelays []time.Duration
	RetryLog    LogFunc
}

type slot int

const (
	slotPolitics slot = iota
	slotBusiness
	slotCartoon
	slotLetters
	slotSection
	slotObituary
)

type job struct {
	position int
	slot     slot
	section  int
	url      string
	parser   magdoc.Parser
}

type harvestResult struct {
	job
	article magdoc.Article
	err     error
}

// Harvest fetches and parses the articles listed by e. An article that
// cannot be fetched or parsed is recorded in Issue.Failures and does not
// stop the others. A URL listed more than once is fetched once, for the
// first slot it appears in. Sections keep the order of the edition;
// sections left without articles are dropped.
func (h *Harvester) Harvest(ctx context.Context, e *magdoc.Edition, progress ProgressFunc) (*magdoc.Issue, error) {
	if err := h.Parsers.validate(); err != nil {
		return nil, err
	}

	jobs, skipped := h.plan(e)
	total := len(jobs)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
		for _, u := range skipped {
			progress(ProgressEvent{Type: ProgressSkipped, Total: total, URL: u})
		}
	}

	results := make([]harvestResult, total)
	var completed int
	for r := range fanOut(ctx, total, h.concurrency(), func(ctx context.Context, i int) harvestResult {
		return h.process(ctx, jobs[i])
	}) {
		completed++
		results[r.position] = r
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: r.url}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issue := &magdoc.Issue{Date: e.Date}
	sections := make([]magdoc.IssueSection, len(e.Sections))
	for i, s := range e.Sections {
		sections[i].Name = s.Name
	}
	for _, r := range results {
		err := r.err
		if err == nil {
			err = place(issue, sections, r)
		}
		if err != nil {
			issue.Failures = append(issue.Failures, magdoc.Failure{URL: r.url, Err: err})
		}
	}
	for _, s := range sections {
		if len(s.Articles) > 0 {
			issue.Sections = append(issue.Sections, s)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return issue, nil
}

// plan lists the pages to fetch in reading order and returns the URLs
// skipped as duplicates.
func (h *Harvester) plan(e *magdoc.Edition) (jobs []job, skipped []string) {
	seen := h.Seen
	if seen == nil {
		seen = make(urlSet)
	}
	add := func(s slot, section int, u string, p magdoc.Parser) {
		if u == "" {
			return
		}
		if seen.TestAndAdd(u) {
			skipped = append(skipped, u)
			return
		}
		jobs = append(jobs, job{position: len(jobs), slot: s, section: section, url: u, parser: p})
	}

	add(slotPolitics, 0, e.PoliticsThisWeek, h.Parsers.Digest)
	add(slotBusiness, 0, e.BusinessThisWeek, h.Parsers.Digest)
	add(slotCartoon, 0, e.Cartoon, h.Parsers.Cartoon)
	add(slotLetters, 0, e.Letters, h.Parsers.Letters)
	for i, s := range e.Sections {
		for _, u := range s.Articles {
			add(slotSection, i, u, h.Parsers.Article)
		}
	}
	add(slotObituary, 0, e.Obituary, h.Parsers.Article)
	return jobs, skipped
}

// process fetches and parses a single page.
func (h *Harvester) process(ctx context.Context, j job) harvestResult {
	result := harvestResult{job: j}

	if h.RateLimiter != nil {
		if err := h.RateLimiter.Wait(ctx, hostOf(j.url)); err != nil {
			result.err = err
			return result
		}
	}

	html, err := FetchWithRetryDelays(ctx, j.url, h.Fetcher.Fetch, h.RetryLog, retryDelays(h.RetryDelays))
	if err != nil {
		result.err = err
		return result
	}

	result.article, result.err = j.parser.Parse(j.url, html)
	return result
}

func (h *Harvester) concurrency() int {
	if h.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return h.Concurrency
}

// place stores a parsed article in its slot of the issue.
func place(issue *magdoc.Issue, sections []magdoc.IssueSection, r harvestResult) error {
	switch r.slot {
	case slotPolitics, slotBusiness:
		digest, ok := r.article.(*magdoc.WeeklyDigestArticle)
		if !ok {
			return unexpected("weekly digest", r)
		}
		if r.slot == slotPolitics {
			issue.PoliticsThisWeek = digest
		} else {
			issue.BusinessThisWeek = digest
		}
	case slotCartoon:
		cartoon, ok := r.article.(*magdoc.SingleImageArticle)
		if !ok {
			return unexpected("single image", r)
		}
		issue.Cartoon = cartoon
	case slotLetters:
		letters, ok := r.article.(*magdoc.LetterArticle)
		if !ok {
			return unexpected("letters", r)
		}
		issue.Letters = letters
	case slotSection:
		sections[r.section].Articles = append(sections[r.section].Articles, r.article)
	case slotObituary:
		issue.Obituary = r.article
	}
	return nil
}

func unexpected(want string, r harvestResult) error {
	return magdoc.Errorf(magdoc.EUNRECOGNIZED, "expected a %s article at %s, got %s", want, r.url, r.article.Kind())
}

func (p Parsers) validate() error {
	if p.Digest == nil || p.Cartoon == nil || p.Letters == nil || p.Article == nil {
		return magdoc.Errorf(magdoc.EINVALID, "a parser is required for every edition slot")
	}
	return nil
}

// fanOut calls work for every index in [0, n) with at most limit calls in
// flight. Results arrive on the returned channel, which is closed once
// every call has returned.
func fanOut[T any](ctx context.Context, n, limit int, work func(ctx context.Context, i int) T) <-chan T {
	resultCh := make(chan T, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	go func() {
		for i := range n {
			g.Go(func() error {
				resultCh <- work(gctx, i)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	return resultCh
}

func retryDelays(delays []time.Duration) []time.Duration {
	if delays == nil {
		return DefaultRetryDelays()
	}
	return delays
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// urlSet is an exact magdoc.URLSet for callers that do not supply one.
type urlSet map[string]bool

func (s urlSet) TestAndAdd(u string) bool {
	if s[u] {
		return true
	}
	s[u] = true
	return false
}
