package repository

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/google/uuid"

	"github.com/azeemi/sharebook/internal/config"
	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/images"
	"github.com/azeemi/sharebook/internal/localfile"
	"github.com/azeemi/sharebook/internal/remote"
)

// searchEndSentinel closes the title prefix range: every title starting
// with the query sorts between the query itself and query+sentinel.
const searchEndSentinel = ""

// BookRepository handles the books collection and cover images.
type BookRepository struct {
	docs        remote.DocumentStore
	blobs       remote.BlobStore
	files       *localfile.Store
	processor   *images.Processor
	persistence config.ImagePersistence
}

// NewBookRepository creates a new book repository. persistence selects
// where newly added covers are stored (local device directory by default,
// blob storage when configured).
func NewBookRepository(docs remote.DocumentStore, blobs remote.BlobStore, files *localfile.Store, processor *images.Processor, persistence config.ImagePersistence) *BookRepository {
	if persistence == "" {
		persistence = config.ImagePersistenceLocal
	}
	return &BookRepository{
		docs:        docs,
		blobs:       blobs,
		files:       files,
		processor:   processor,
		persistence: persistence,
	}
}

// GetAllBooks fetches the whole collection.
func (r *BookRepository) GetAllBooks() ([]entities.Book, error) {
	docs, err := r.docs.List(remote.CollectionBooks)
	if err != nil {
		return nil, wrapRemote("get all books", err)
	}
	return mapBooks(docs), nil
}

// GetBooksByUser fetches books owned by the given user.
func (r *BookRepository) GetBooksByUser(ownerUID string) ([]entities.Book, error) {
	docs, err := r.docs.QueryEqual(remote.CollectionBooks, "ownerUid", ownerUID)
	if err != nil {
		return nil, wrapRemote("get books by user", err)
	}
	return mapBooks(docs), nil
}

// GetBooksByGenre fetches books with the given genre.
func (r *BookRepository) GetBooksByGenre(genre string) ([]entities.Book, error) {
	docs, err := r.docs.QueryEqual(remote.CollectionBooks, "genre", genre)
	if err != nil {
		return nil, wrapRemote("get books by genre", err)
	}
	return mapBooks(docs), nil
}

// SearchBooks fetches books whose title starts with the query. The match
// is case-sensitive and considers the title only.
func (r *BookRepository) SearchBooks(query string) ([]entities.Book, error) {
	docs, err := r.docs.QueryRange(remote.CollectionBooks, "title", query, query+searchEndSentinel)
	if err != nil {
		return nil, wrapRemote("search books", err)
	}
	return mapBooks(docs), nil
}

// GetBookByID fetches a single book. Returns ErrBookNotFound when no
// document with that id exists.
func (r *BookRepository) GetBookByID(id string) (entities.Book, error) {
	doc, err := r.docs.Get(remote.CollectionBooks, id)
	if errors.Is(err, remote.ErrDocumentNotFound) {
		return entities.Book{}, ErrBookNotFound
	}
	if err != nil {
		return entities.Book{}, wrapRemote("get book", err)
	}
	book, err := documentToBook(doc)
	if err != nil {
		return entities.Book{}, ErrBookNotFound
	}
	return book, nil
}

// AddBook persists a new book under a freshly generated id and returns the
// id. A supplied cover image is persisted according to the configured
// policy; when it is absent or fails to save, a placeholder URL derived
// from the title is used instead.
func (r *BookRepository) AddBook(book entities.Book, image io.Reader) (string, error) {
	id := uuid.NewString()

	var localPath, coverURL string
	if image != nil {
		localPath, coverURL = r.saveNewCover(id, image)
	}
	if coverURL == "" {
		coverURL = placeholderCoverURL(book.Title)
	}

	now := entities.NowMillis()
	book.ID = id
	book.CoverImageURL = coverURL
	book.LocalCoverImagePath = localPath
	book.CreatedAt = now
	book.UpdatedAt = now

	doc, err := bookToDocument(book)
	if err != nil {
		return "", wrapRemote("add book", err)
	}
	if err := r.docs.Set(remote.CollectionBooks, id, doc); err != nil {
		return "", wrapRemote("add book", err)
	}
	return id, nil
}

// UpdateBook writes a partial update of the book's editable fields. The
// owner and creation timestamp are never touched. When a new cover image
// is supplied it is uploaded to blob storage, keyed by the book id so
// repeated updates overwrite the same object; an upload failure is logged
// and the update proceeds with an empty cover URL.
func (r *BookRepository) UpdateBook(id string, book entities.Book, newImage io.Reader) error {
	coverURL := book.CoverImageURL
	if newImage != nil {
		uploaded, err := r.uploadBookCover(id, newImage)
		if err != nil {
			log.Printf("upload book cover failed for %s, saving without image: %v", id, err)
			uploaded = ""
		}
		coverURL = uploaded
	}

	fields := map[string]any{
		"title":         book.Title,
		"author":        book.Author,
		"description":   book.Description,
		"isbn":          book.ISBN,
		"genre":         book.Genre,
		"coverImageUrl": coverURL,
		"isAvailable":   book.IsAvailable,
		"updatedAt":     entities.NowMillis(),
	}
	err := r.docs.Update(remote.CollectionBooks, id, fields)
	if errors.Is(err, remote.ErrDocumentNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return wrapRemote("update book", err)
	}
	return nil
}

// DeleteBook removes the book document. Hard delete, no tombstone.
func (r *BookRepository) DeleteBook(id string) error {
	if err := r.docs.Delete(remote.CollectionBooks, id); err != nil {
		return wrapRemote("delete book", err)
	}
	return nil
}

// MarkBookAsUnavailable flips the availability flag of a book.
func (r *BookRepository) MarkBookAsUnavailable(id string) error {
	fields := map[string]any{
		"isAvailable": false,
		"updatedAt":   entities.NowMillis(),
	}
	err := r.docs.Update(remote.CollectionBooks, id, fields)
	if errors.Is(err, remote.ErrDocumentNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return wrapRemote("mark book unavailable", err)
	}
	return nil
}

// saveNewCover persists the cover of a new book. Failures are logged and
// leave both results empty so the caller falls back to a placeholder.
func (r *BookRepository) saveNewCover(id string, image io.Reader) (localPath, coverURL string) {
	data, err := r.processor.Resize(image)
	if err != nil {
		log.Printf("failed to process cover image for %s: %v", id, err)
		return "", ""
	}

	if r.persistence == config.ImagePersistenceRemote {
		object := bookCoverObject(id)
		if err := r.blobs.Put(object, data); err != nil {
			log.Printf("failed to upload cover image for %s: %v", id, err)
			return "", ""
		}
		return "", r.blobs.PublicURL(object)
	}

	path, err := r.files.SaveBookCover(id, data)
	if err != nil {
		log.Printf("failed to save cover image for %s: %v", id, err)
		return "", ""
	}
	uri, err := r.files.FileURI(path)
	if err != nil {
		log.Printf("failed to resolve cover URI for %s: %v", id, err)
		return path, ""
	}
	return path, uri
}

func (r *BookRepository) uploadBookCover(id string, image io.Reader) (string, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return "", err
	}
	object := bookCoverObject(id)
	if err := r.blobs.Put(object, data); err != nil {
		return "", err
	}
	return r.blobs.PublicURL(object), nil
}

func bookCoverObject(id string) string {
	return fmt.Sprintf("%s/book_cover_%s.jpg", remote.PrefixBookCovers, id)
}

// placeholderCoverURL derives a deterministic placeholder image URL from
// the first 10 characters of the title, or a generic one when it is blank.
func placeholderCoverURL(title string) string {
	if title == "" {
		return "https://via.placeholder.com/300x400/9E9E9E/FFFFFF?text=Book"
	}
	runes := []rune(title)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return "https://via.placeholder.com/300x400/4CAF50/FFFFFF?text=" + url.QueryEscape(string(runes))
}

// mapBooks converts documents to books, skipping any that fail to decode.
func mapBooks(docs []remote.Document) []entities.Book {
	books := make([]entities.Book, 0, len(docs))
	for _, doc := range docs {
		book, err := documentToBook(doc)
		if err != nil {
			log.Printf("failed to convert document to book: %v", err)
			continue
		}
		books = append(books, book)
	}
	return books
}
