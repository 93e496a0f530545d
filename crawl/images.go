package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/magdoc"
)

// ImageDownloader downloads the images referenced by an issue into an
// image store.
type ImageDownloader struct {
	Downloader  magdoc.Downloader
	Store       magdoc.ImageStore
	RateLimiter magdoc.DomainLimiter // optional
	Concurrency int
	RetryDelays []time.Duration
	RetryLog    LogFunc
}

type imageResult struct {
	position int
	url      string
	err      error
}

// DownloadImages downloads every image of issue the store cannot resolve
// yet. Images that fail are returned as failures in reading order; only a
// canceled context fails the whole call.
func (d *ImageDownloader) DownloadImages(ctx context.Context, issue *magdoc.Issue, progress ProgressFunc) ([]magdoc.Failure, error) {
	var urls []string
	for _, u := range issue.ImageURLs() {
		if _, ok := d.Store.ResolveImage(u); !ok {
			urls = append(urls, u)
		}
	}
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]imageResult, total)
	var completed int
	for r := range fanOut(ctx, total, concurrency, func(ctx context.Context, i int) imageResult {
		return imageResult{position: i, url: urls[i], err: d.download(ctx, urls[i])}
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

	var failures []magdoc.Failure
	for _, r := range results {
		if r.err != nil {
			failures = append(failures, magdoc.Failure{URL: r.url, Err: r.err})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return failures, nil
}

func (d *ImageDownloader) download(ctx context.Context, u string) error {
	if d.RateLimiter != nil {
		if err := d.RateLimiter.Wait(ctx, hostOf(u)); err != nil {
			return err
		}
	}
	data, err := DownloadWithRetryDelays(ctx, u, d.Downloader.Download, d.RetryLog, retryDelays(d.RetryDelays))
	if err != nil {
		return err
	}
	_, err = d.Store.PutImage(u, data)
	return err
}
