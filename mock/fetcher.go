package mock

import (
	"context"

	"github.com/fwojciec/magdoc"
)

var (
	_ magdoc.Fetcher       = (*Fetcher)(nil)
	_ magdoc.Downloader    = (*Downloader)(nil)
	_ magdoc.ImageStore    = (*ImageStore)(nil)
	_ magdoc.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of magdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Downloader is a mock implementation of magdoc.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}

// ImageStore is a mock implementation of magdoc.ImageStore.
type ImageStore struct {
	ResolveImageFn func(url string) (string, bool)
	PutImageFn     func(url string, data []byte) (string, error)
}

func (s *ImageStore) ResolveImage(url string) (string, bool) {
	return s.ResolveImageFn(url)
}

func (s *ImageStore) PutImage(url string, data []byte) (string, error) {
	return s.PutImageFn(url, data)
}

// DomainLimiter is a mock implementation of magdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
