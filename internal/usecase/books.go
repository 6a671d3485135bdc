package usecase

import (
	"io"
	"strings"

	"github.com/azeemi/sharebook/internal/entities"
)

// MinSearchQueryLength is the minimum accepted server-side search query.
const MinSearchQueryLength = 2

// BookRepository is the book surface the use case delegates to.
type BookRepository interface {
	GetAllBooks() ([]entities.Book, error)
	GetBooksByUser(ownerUID string) ([]entities.Book, error)
	GetBooksByGenre(genre string) ([]entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	GetBookByID(id string) (entities.Book, error)
	AddBook(book entities.Book, image io.Reader) (string, error)
	UpdateBook(id string, book entities.Book, newImage io.Reader) error
	DeleteBook(id string) error
	MarkBookAsUnavailable(id string) error
}

// BookUseCase validates book inputs and delegates.
type BookUseCase struct {
	repo BookRepository
}

// NewBookUseCase creates a new book use case.
func NewBookUseCase(repo BookRepository) *BookUseCase {
	return &BookUseCase{repo: repo}
}

func (u *BookUseCase) GetAllBooks() ([]entities.Book, error) {
	return u.repo.GetAllBooks()
}

func (u *BookUseCase) GetBooksByUser(userID string) ([]entities.Book, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	return u.repo.GetBooksByUser(userID)
}

func (u *BookUseCase) GetBooksByGenre(genre string) ([]entities.Book, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, ErrGenreRequired
	}
	return u.repo.GetBooksByGenre(genre)
}

func (u *BookUseCase) SearchBooks(query string) ([]entities.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}
	if len([]rune(query)) < MinSearchQueryLength {
		return nil, ErrQueryTooShort
	}
	return u.repo.SearchBooks(query)
}

func (u *BookUseCase) GetBookByID(bookID string) (entities.Book, error) {
	if strings.TrimSpace(bookID) == "" {
		return entities.Book{}, ErrBookIDRequired
	}
	return u.repo.GetBookByID(bookID)
}

// GetUserBooks is an alias of GetBooksByUser kept for the my-books flows.
func (u *BookUseCase) GetUserBooks(userID string) ([]entities.Book, error) {
	return u.GetBooksByUser(userID)
}

func (u *BookUseCase) AddBook(book entities.Book, image io.Reader) (string, error) {
	if !book.IsValid() {
		return "", ErrBookInvalid
	}
	return u.repo.AddBook(book, image)
}

func (u *BookUseCase) UpdateBook(bookID string, book entities.Book, newImage io.Reader) error {
	if strings.TrimSpace(bookID) == "" {
		return ErrBookIDRequired
	}
	if !book.IsValid() {
		return ErrBookInvalid
	}
	return u.repo.UpdateBook(bookID, book, newImage)
}

func (u *BookUseCase) DeleteBook(bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return ErrBookIDRequired
	}
	return u.repo.DeleteBook(bookID)
}

func (u *BookUseCase) MarkBookAsUnavailable(bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return ErrBookIDRequired
	}
	return u.repo.MarkBookAsUnavailable(bookID)
}
