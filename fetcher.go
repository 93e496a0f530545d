package magdoc

import "context"

// Fetcher retrieves the HTML of article and contents pages.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Downloader retrieves binary resources such as images.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// ImageResolver maps image URLs to downloaded local files. Only renderers
// consult it; parsing never does.
type ImageResolver interface {
	// ResolveImage returns the local path of the image at url, and false
	// when it was not downloaded.
	ResolveImage(url string) (path string, ok bool)
}

// ImageStore keeps downloaded images on disk and resolves them for
// renderers.
type ImageStore interface {
	ImageResolver

	// PutImage stores data as the image downloaded from url and returns
	// the path it was written to.
	PutImage(url string, data []byte) (path string, err error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLSet remembers URLs that were already scheduled. Implementations may
// report false positives.
type URLSet interface {
	// TestAndAdd adds url to the set and reports whether it was (probably)
	// present before.
	TestAndAdd(url string) bool
}
