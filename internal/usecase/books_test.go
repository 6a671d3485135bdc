package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/repository"
)

func validBook() entities.Book {
	return entities.Book{Title: "Atomic Habits", Author: "James Clear", OwnerUID: "user-1"}
}

func TestAddBookRejectsInvalidBook(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	for _, book := range []entities.Book{
		{},
		{Title: "T", Author: "A"},
		{Title: "T", OwnerUID: "u"},
		{Author: "A", OwnerUID: "u"},
		{Title: "  ", Author: "A", OwnerUID: "u"},
	} {
		_, err := uc.AddBook(book, nil)
		assert.ErrorIs(t, err, ErrBookInvalid)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, repo.Calls())
}

func TestAddBookDelegates(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	id, err := uc.AddBook(validBook(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{"AddBook"}, repo.Calls())
}

func TestUpdateBookValidation(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	err := uc.UpdateBook("", validBook(), nil)
	assert.ErrorIs(t, err, ErrBookIDRequired)

	err = uc.UpdateBook("book-1", entities.Book{}, nil)
	assert.ErrorIs(t, err, ErrBookInvalid)

	assert.Empty(t, repo.Calls())
}

func TestGetBooksByGenreRequiresGenre(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	_, err := uc.GetBooksByGenre("")
	assert.ErrorIs(t, err, ErrGenreRequired)
	_, err = uc.GetBooksByGenre("   ")
	assert.ErrorIs(t, err, ErrGenreRequired)
	assert.Empty(t, repo.Calls())

	_, err = uc.GetBooksByGenre("Fiction")
	require.NoError(t, err)
	assert.Equal(t, []string{"GetBooksByGenre"}, repo.Calls())
}

func TestGetBooksByUserRequiresID(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	_, err := uc.GetBooksByUser("")
	assert.ErrorIs(t, err, ErrUserIDRequired)
	assert.Empty(t, repo.Calls())
}

func TestSearchBooksValidation(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	_, err := uc.SearchBooks("  ")
	assert.ErrorIs(t, err, ErrQueryRequired)

	_, err = uc.SearchBooks("a")
	assert.ErrorIs(t, err, ErrQueryTooShort)

	assert.Empty(t, repo.Calls())

	_, err = uc.SearchBooks("at")
	require.NoError(t, err)
	assert.Equal(t, []string{"SearchBooks"}, repo.Calls())
}

func TestGetBookByIDRequiresID(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	_, err := uc.GetBookByID("")
	assert.ErrorIs(t, err, ErrBookIDRequired)
	assert.Empty(t, repo.Calls())
}

func TestDeleteAndMarkUnavailableRequireID(t *testing.T) {
	repo := repository.NewMockBookRepository()
	uc := NewBookUseCase(repo)

	assert.ErrorIs(t, uc.DeleteBook(""), ErrBookIDRequired)
	assert.ErrorIs(t, uc.MarkBookAsUnavailable("  "), ErrBookIDRequired)
	assert.Empty(t, repo.Calls())
}

func TestGetUserBooksAliasesGetBooksByUser(t *testing.T) {
	repo := repository.NewMockBookRepository()
	repo.Seed(entities.Book{ID: "book-1", Title: "Mine", OwnerUID: "user-1"})
	uc := NewBookUseCase(repo)

	books, err := uc.GetUserBooks("user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Mine", books[0].Title)
	assert.Equal(t, []string{"GetBooksByUser"}, repo.Calls())
}
