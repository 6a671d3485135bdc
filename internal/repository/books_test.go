package repository

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azeemi/sharebook/internal/config"
	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/images"
	"github.com/azeemi/sharebook/internal/localfile"
	"github.com/azeemi/sharebook/internal/remote"
	"github.com/azeemi/sharebook/internal/remote/localstore"
)

func setupBookRepo(t *testing.T, persistence config.ImagePersistence) (*BookRepository, *localstore.Store, func()) {
	t.Helper()
	dir := t.TempDir()
	store, err := localstore.NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	blobs, err := localstore.NewBlobStore(filepath.Join(dir, "blobs"), "http://localhost:8790")
	require.NoError(t, err)

	files, err := localfile.NewStore(filepath.Join(dir, "data"))
	require.NoError(t, err)

	repo := NewBookRepository(store.Documents(), blobs, files, images.NewProcessor(0, 0), persistence)
	return repo, store, func() {
		store.Close()
	}
}

func testImage(t *testing.T) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return bytes.NewReader(buf.Bytes())
}

func TestAddBookRoundTrip(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{
		Title:       "Atomic Habits",
		Author:      "James Clear",
		Genre:       "Self-Help",
		OwnerUID:    "user-1",
		IsAvailable: true,
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, book.ID)
	assert.Equal(t, "Atomic Habits", book.Title)
	assert.Equal(t, "user-1", book.OwnerUID)
	assert.True(t, book.IsAvailable)
	assert.NotZero(t, book.CreatedAt)
	assert.Equal(t, book.CreatedAt, book.UpdatedAt)
}

func TestAddBookWithoutImageUsesPlaceholder(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Atomic Habits", Author: "James Clear", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, "https://via.placeholder.com/300x400/4CAF50/FFFFFF?text=Atomic+Hab", book.CoverImageURL)
	assert.Empty(t, book.LocalCoverImagePath)
}

func TestAddBookWithBlankTitleUsesGenericPlaceholder(t *testing.T) {
	assert.Equal(t, "https://via.placeholder.com/300x400/9E9E9E/FFFFFF?text=Book", placeholderCoverURL(""))
}

func TestAddBookWithUnreadableImageFallsBackToPlaceholder(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Atomic Habits", Author: "James Clear", OwnerUID: "user-1"},
		iotest.ErrReader(errors.New("read failed")))
	require.NoError(t, err)

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Contains(t, book.CoverImageURL, "via.placeholder.com")
}

func TestAddBookSavesCoverLocally(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Atomic Habits", Author: "James Clear", OwnerUID: "user-1"}, testImage(t))
	require.NoError(t, err)

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(book.CoverImageURL, "file://"))
	assert.Contains(t, book.LocalCoverImagePath, "book_cover_"+id+".jpg")
	assert.True(t, repo.files.Exists(book.LocalCoverImagePath))
}

func TestAddBookUploadsCoverRemotely(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceRemote)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Atomic Habits", Author: "James Clear", OwnerUID: "user-1"}, testImage(t))
	require.NoError(t, err)

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8790/storage/book_covers/book_cover_"+id+".jpg", book.CoverImageURL)
	assert.Empty(t, book.LocalCoverImagePath)
}

func TestGetBookByIDMissing(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	_, err := repo.GetBookByID("nope")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestGetBooksByUser(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	_, err := repo.AddBook(entities.Book{Title: "Mine", Author: "A", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)
	_, err = repo.AddBook(entities.Book{Title: "Theirs", Author: "B", OwnerUID: "user-2"}, nil)
	require.NoError(t, err)

	books, err := repo.GetBooksByUser("user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Mine", books[0].Title)
}

func TestGetBooksByGenre(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	_, err := repo.AddBook(entities.Book{Title: "A", Author: "X", Genre: "Fiction", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)
	_, err = repo.AddBook(entities.Book{Title: "B", Author: "Y", Genre: "Science", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)

	books, err := repo.GetBooksByGenre("Fiction")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A", books[0].Title)
}

func TestSearchBooksMatchesTitlePrefix(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	for _, title := range []string{"Atomic Habits", "Atlas Shrugged", "Brave New World"} {
		_, err := repo.AddBook(entities.Book{Title: title, Author: "Author", OwnerUID: "user-1"}, nil)
		require.NoError(t, err)
	}

	results, err := repo.SearchBooks("At")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.SearchBooks("Atomic")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Atomic Habits", results[0].Title)

	// Case sensitive, author not considered
	results, err = repo.SearchBooks("atomic")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = repo.SearchBooks("z")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateBookPreservesOwnerAndCreation(t *testing.T) {
	repo, store, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Old Title", Author: "Author", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)
	original, err := repo.GetBookByID(id)
	require.NoError(t, err)

	err = repo.UpdateBook(id, entities.Book{
		Title:       "New Title",
		Author:      "New Author",
		OwnerUID:    "spoofed-owner",
		IsAvailable: true,
	}, nil)
	require.NoError(t, err)

	updated, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "New Author", updated.Author)
	assert.Equal(t, "user-1", updated.OwnerUID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)

	// No second document appeared
	docs, err := store.Documents().List(remote.CollectionBooks)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestUpdateBookMissing(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	err := repo.UpdateBook("nope", entities.Book{Title: "T", Author: "A", OwnerUID: "u"}, nil)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateBookUploadsNewCover(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Title", Author: "Author", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)

	err = repo.UpdateBook(id, entities.Book{Title: "Title", Author: "Author", OwnerUID: "user-1"},
		strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	updated, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8790/storage/book_covers/book_cover_"+id+".jpg", updated.CoverImageURL)
}

func TestUpdateBookCoverFailureIsNotFatal(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Old Title", Author: "Author", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)

	err = repo.UpdateBook(id, entities.Book{Title: "New Title", Author: "Author", OwnerUID: "user-1"},
		iotest.ErrReader(errors.New("read failed")))
	require.NoError(t, err)

	updated, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Empty(t, updated.CoverImageURL)
}

func TestDeleteBook(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Title", Author: "Author", OwnerUID: "user-1"}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBook(id))

	_, err = repo.GetBookByID(id)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Deleting again is a no-op
	assert.NoError(t, repo.DeleteBook(id))
}

func TestMarkBookAsUnavailable(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	id, err := repo.AddBook(entities.Book{Title: "Title", Author: "Author", OwnerUID: "user-1", IsAvailable: true}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.MarkBookAsUnavailable(id))

	book, err := repo.GetBookByID(id)
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)
	assert.Equal(t, "Title", book.Title)

	// Idempotent
	require.NoError(t, repo.MarkBookAsUnavailable(id))
	book, err = repo.GetBookByID(id)
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)
}

func TestMarkBookAsUnavailableMissing(t *testing.T) {
	repo, _, cleanup := setupBookRepo(t, config.ImagePersistenceLocal)
	defer cleanup()

	err := repo.MarkBookAsUnavailable("nope")
	assert.ErrorIs(t, err, ErrBookNotFound)
}
