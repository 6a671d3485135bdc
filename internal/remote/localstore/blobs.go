package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore implements remote.BlobStore on a local directory. Objects are
// written atomically and served over HTTP by NewRouter so that PublicURL
// resolves for other clients.
type BlobStore struct {
	dir     string
	baseURL string
}

// NewBlobStore creates a blob store rooted at dir. baseURL is the public
// base under which NewRouter serves the objects.
func NewBlobStore(dir, baseURL string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &BlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put stores data under the given object path, overwriting any previous
// object with the same path.
func (b *BlobStore) Put(object string, data []byte) error {
	path := filepath.Join(b.dir, filepath.FromSlash(object))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	// Write to a temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "blob_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, path)
}

// PublicURL returns the URL under which the object is served.
func (b *BlobStore) PublicURL(object string) string {
	return b.baseURL + "/storage/" + object
}

// Dir returns the blob root directory.
func (b *BlobStore) Dir() string {
	return b.dir
}
