package fs

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/magdoc"
)

// ImagesDir is the directory, relative to the issue, holding its images.
const ImagesDir = "images"

// Ensure ImageStore implements magdoc.ImageStore at compile time.
var _ magdoc.ImageStore = (*ImageStore)(nil)

// ImageStore saves downloaded images as images-N.{jpg,gif,png} under
// dir/images. Resolved paths are relative to dir, so a Markdown file in
// dir can link them directly. It is safe for concurrent use.
type ImageStore struct {
	dir string

	mu    sync.Mutex
	paths map[string]string
	next  int
}

// NewImageStore creates an ImageStore rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{
		dir:   dir,
		paths: make(map[string]string),
	}
}

// ResolveImage implements magdoc.ImageResolver.
func (s *ImageStore) ResolveImage(rawURL string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.paths[rawURL]
	return p, ok
}

// PutImage implements magdoc.ImageStore. Returns EINVALID when the URL
// does not end in a supported image extension. Storing the same URL twice
// keeps the first file.
func (s *ImageStore) PutImage(rawURL string, data []byte) (string, error) {
	ext, err := ImageExt(rawURL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.paths[rawURL]; ok {
		return p, nil
	}

	if err := os.MkdirAll(filepath.Join(s.dir, ImagesDir), 0755); err != nil {
		return "", err
	}
	s.next++
	rel := path.Join(ImagesDir, fmt.Sprintf("images-%d.%s", s.next, ext))
	if err := os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(rel)), data, 0644); err != nil {
		return "", err
	}
	s.paths[rawURL] = rel
	return rel, nil
}

// Len returns the number of stored images.
func (s *ImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// ImageExt returns the file extension (jpg, gif or png) for an image URL.
func ImageExt(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", magdoc.Errorf(magdoc.EINVALID, "invalid image URL: %q", rawURL)
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg":
		return "jpg", nil
	case ".gif":
		return "gif", nil
	case ".png":
		return "png", nil
	}
	return "", magdoc.Errorf(magdoc.EINVALID, "unsupported image type: %s", rawURL)
}
