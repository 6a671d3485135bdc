// Package localfile stores files in the app-private data directory.
package localfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// BookImagesDir is the subdirectory holding locally saved book covers.
const BookImagesDir = "book_images"

// Store manages files under an app-private base directory.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveBookCover writes a cover image for the given book id and returns the
// absolute path of the saved file. Repeated saves for the same id overwrite.
func (s *Store) SaveBookCover(bookID string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, BookImagesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("book_cover_%s.jpg", bookID))

	// Write to a temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(dir, "cover_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", err
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// Read returns the contents of a stored file.
func (s *Store) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether the file at path exists.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes a stored file. A missing file counts as deleted.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileURI returns a file:// URI for a stored path, for handing the file to
// other components without exposing the raw path convention.
func (s *Store) FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}

// BookImagesPath returns the directory holding locally saved book covers.
func (s *Store) BookImagesPath() string {
	return filepath.Join(s.baseDir, BookImagesDir)
}
