package fs_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cdn = "https://cdn.static-economist.com/sites/default/files/images/"

func TestImageStore_PutImage(t *testing.T) {
	t.Parallel()

	t.Run("numbers images in the order they are stored", func(t *testing.T) {
		t.Parallel()

		// Given an empty store
		dir := t.TempDir()
		store := fs.NewImageStore(dir)

		// When I store three images
		p1, err := store.PutImage(cdn+"main.JPG", []byte("jpg"))
		require.NoError(t, err)
		p2, err := store.PutImage(cdn+"chart.png?v=2", []byte("png"))
		require.NoError(t, err)
		p3, err := store.PutImage(cdn+"kal.gif", []byte("gif"))
		require.NoError(t, err)

		// Then each gets the next number and its own extension
		assert.Equal(t, "images/images-1.jpg", p1)
		assert.Equal(t, "images/images-2.png", p2)
		assert.Equal(t, "images/images-3.gif", p3)

		// And the bytes are on disk
		data, err := os.ReadFile(filepath.Join(dir, "images", "images-2.png"))
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), data)
	})

	t.Run("maps jpeg to jpg", func(t *testing.T) {
		t.Parallel()

		store := fs.NewImageStore(t.TempDir())

		p, err := store.PutImage(cdn+"photo.jpeg", []byte("jpg"))

		require.NoError(t, err)
		assert.Equal(t, "images/images-1.jpg", p)
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewImageStore(dir)

		_, err := store.PutImage(cdn+"vector.svg", []byte("<svg/>"))

		assert.Equal(t, magdoc.EINVALID, magdoc.ErrorCode(err))
		_, statErr := os.Stat(filepath.Join(dir, "images"))
		assert.True(t, os.IsNotExist(statErr), "nothing should be written")
	})

	t.Run("keeps the first copy of a URL", func(t *testing.T) {
		t.Parallel()

		store := fs.NewImageStore(t.TempDir())

		first, err := store.PutImage(cdn+"main.jpg", []byte("a"))
		require.NoError(t, err)
		second, err := store.PutImage(cdn+"main.jpg", []byte("b"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		store := fs.NewImageStore(t.TempDir())

		var wg sync.WaitGroup
		for _, name := range []string{"a.jpg", "b.jpg", "c.png", "d.gif", "e.png"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.PutImage(cdn+name, []byte(name))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, store.Len())
	})
}

func TestImageStore_ResolveImage(t *testing.T) {
	t.Parallel()

	store := fs.NewImageStore(t.TempDir())
	_, err := store.PutImage(cdn+"main.jpg", []byte("jpg"))
	require.NoError(t, err)

	p, ok := store.ResolveImage(cdn + "main.jpg")
	assert.True(t, ok)
	assert.Equal(t, "images/images-1.jpg", p)

	_, ok = store.ResolveImage(cdn + "missing.jpg")
	assert.False(t, ok)
}

func TestImageExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: cdn + "a.jpg", want: "jpg"},
		{url: cdn + "a.JPEG", want: "jpg"},
		{url: cdn + "a.png#x", want: "png"},
		{url: cdn + "a.gif", want: "gif"},
		{url: cdn + "a.webp", wantErr: true},
		{url: cdn + "a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			got, err := fs.ImageExt(tt.url)
			if tt.wantErr {
				assert.Equal(t, magdoc.EINVALID, magdoc.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
