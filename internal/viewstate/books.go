package viewstate

import (
	"io"
	"strings"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/usecase"
)

// BookState owns the cached book collections and their derived views.
// Mutations are applied to the caches only after the remote store has
// confirmed them; a failure leaves the prior cache state intact.
//
// Methods are synchronous; the UI layer runs them on its own goroutines.
// All slot access is safe for concurrent use.
type BookState struct {
	useCase *usecase.BookUseCase

	books         *Slot[[]entities.Book]
	userBooks     *Slot[[]entities.Book]
	filteredBooks *Slot[[]entities.Book]
	selectedBook  *Slot[*entities.Book]
	isLoading     *Slot[bool]
	errorMessage  *Slot[string]
	searchQuery   *Slot[string]
	selectedGenre *Slot[string]

	booksGen     generation
	userBooksGen generation
	filteredGen  generation
	selectedGen  generation
}

// NewBookState creates a book state holder.
func NewBookState(useCase *usecase.BookUseCase) *BookState {
	return &BookState{
		useCase:       useCase,
		books:         NewSlot[[]entities.Book](nil),
		userBooks:     NewSlot[[]entities.Book](nil),
		filteredBooks: NewSlot[[]entities.Book](nil),
		selectedBook:  NewSlot[*entities.Book](nil),
		isLoading:     NewSlot(false),
		errorMessage:  NewSlot(""),
		searchQuery:   NewSlot(""),
		selectedGenre: NewSlot(""),
	}
}

// Observable slots.

func (s *BookState) Books() *Slot[[]entities.Book]         { return s.books }
func (s *BookState) UserBooks() *Slot[[]entities.Book]     { return s.userBooks }
func (s *BookState) FilteredBooks() *Slot[[]entities.Book] { return s.filteredBooks }
func (s *BookState) SelectedBook() *Slot[*entities.Book]   { return s.selectedBook }
func (s *BookState) IsLoading() *Slot[bool]                { return s.isLoading }
func (s *BookState) ErrorMessage() *Slot[string]           { return s.errorMessage }
func (s *BookState) SearchQuery() *Slot[string]            { return s.searchQuery }
func (s *BookState) SelectedGenre() *Slot[string]          { return s.selectedGenre }

func (s *BookState) begin() {
	s.isLoading.Set(true)
	s.errorMessage.Set("")
}

func (s *BookState) finish() {
	s.isLoading.Set(false)
}

func (s *BookState) fail(err error) {
	s.errorMessage.Set(err.Error())
}

// LoadAllBooks reloads the all-books collection and resets the filtered
// view to it.
func (s *BookState) LoadAllBooks() {
	s.begin()
	defer s.finish()

	booksToken := s.booksGen.begin()
	filteredToken := s.filteredGen.begin()

	books, err := s.useCase.GetAllBooks()
	if err != nil {
		s.fail(err)
		return
	}
	s.booksGen.commit(booksToken, func() { s.books.Set(books) })
	s.filteredGen.commit(filteredToken, func() { s.filteredBooks.Set(books) })
}

// LoadMyBooks loads the given user's books into the primary collection
// and the filtered view.
func (s *BookState) LoadMyBooks(userID string) {
	s.begin()
	defer s.finish()

	booksToken := s.booksGen.begin()
	filteredToken := s.filteredGen.begin()

	books, err := s.useCase.GetBooksByUser(userID)
	if err != nil {
		s.fail(err)
		return
	}
	s.booksGen.commit(booksToken, func() { s.books.Set(books) })
	s.filteredGen.commit(filteredToken, func() { s.filteredBooks.Set(books) })
}

// LoadBooksByGenre replaces the filtered view with the genre's books.
func (s *BookState) LoadBooksByGenre(genre string) {
	s.begin()
	defer s.finish()
	s.selectedGenre.Set(genre)

	filteredToken := s.filteredGen.begin()

	books, err := s.useCase.GetBooksByGenre(genre)
	if err != nil {
		s.fail(err)
		return
	}
	s.filteredGen.commit(filteredToken, func() { s.filteredBooks.Set(books) })
}

// LoadBook loads a single book into the selected slot.
func (s *BookState) LoadBook(bookID string) {
	s.begin()
	defer s.finish()

	selectedToken := s.selectedGen.begin()

	book, err := s.useCase.GetBookByID(bookID)
	if err != nil {
		s.fail(err)
		return
	}
	s.selectedGen.commit(selectedToken, func() { s.selectedBook.Set(&book) })
}

// LoadUserBooks loads the acting user's books into the user-books
// collection and mirrors them into the filtered view.
func (s *BookState) LoadUserBooks(userID string) {
	s.begin()
	defer s.finish()

	userBooksToken := s.userBooksGen.begin()
	filteredToken := s.filteredGen.begin()

	books, err := s.useCase.GetUserBooks(userID)
	if err != nil {
		s.fail(err)
		return
	}
	s.userBooksGen.commit(userBooksToken, func() { s.userBooks.Set(books) })
	s.filteredGen.commit(filteredToken, func() { s.filteredBooks.Set(books) })
}

// AddBook persists a new book. There is no optimistic insert: on success
// the all-books and user-books collections are reloaded, so the new entity
// becomes visible only once the reload completes.
func (s *BookState) AddBook(book entities.Book, image io.Reader) {
	s.begin()

	_, err := s.useCase.AddBook(book, image)
	if err != nil {
		s.fail(err)
		s.finish()
		return
	}
	s.finish()

	s.LoadAllBooks()
	s.LoadUserBooks(book.OwnerUID)
}

// UpdateBook persists the update, then replaces the matching entity in
// every cached collection and in the selection with the caller-supplied
// value (updatedAt refreshed), not a re-fetched copy.
func (s *BookState) UpdateBook(bookID string, book entities.Book, newImage io.Reader) {
	s.begin()
	defer s.finish()

	if err := s.useCase.UpdateBook(bookID, book, newImage); err != nil {
		s.fail(err)
		return
	}

	updated := book
	updated.ID = bookID
	updated.UpdatedAt = entities.NowMillis()

	replace := func(books []entities.Book) []entities.Book {
		out := make([]entities.Book, len(books))
		for i, b := range books {
			if b.ID == bookID {
				out[i] = updated
			} else {
				out[i] = b
			}
		}
		return out
	}
	s.books.Set(replace(s.books.Get()))
	s.userBooks.Set(replace(s.userBooks.Get()))
	s.filteredBooks.Set(replace(s.filteredBooks.Get()))

	if selected := s.selectedBook.Get(); selected != nil && selected.ID == bookID {
		s.selectedBook.Set(&updated)
	}
}

// DeleteBook removes the book remotely, then from every cached collection;
// the selection is cleared if it matched.
func (s *BookState) DeleteBook(bookID string) {
	s.begin()
	defer s.finish()

	if err := s.useCase.DeleteBook(bookID); err != nil {
		s.fail(err)
		return
	}

	remove := func(books []entities.Book) []entities.Book {
		out := make([]entities.Book, 0, len(books))
		for _, b := range books {
			if b.ID != bookID {
				out = append(out, b)
			}
		}
		return out
	}
	s.books.Set(remove(s.books.Get()))
	s.userBooks.Set(remove(s.userBooks.Get()))
	s.filteredBooks.Set(remove(s.filteredBooks.Get()))

	if selected := s.selectedBook.Get(); selected != nil && selected.ID == bookID {
		s.selectedBook.Set(nil)
	}
}

// MarkBookAsUnavailable flips the availability flag remotely, then applies
// the same field change to the matching entity in every cached collection
// via copy-with-change.
func (s *BookState) MarkBookAsUnavailable(bookID string) {
	s.begin()
	defer s.finish()

	if err := s.useCase.MarkBookAsUnavailable(bookID); err != nil {
		s.fail(err)
		return
	}

	apply := func(books []entities.Book) []entities.Book {
		out := make([]entities.Book, len(books))
		for i, b := range books {
			if b.ID == bookID {
				b.IsAvailable = false
			}
			out[i] = b
		}
		return out
	}
	s.books.Set(apply(s.books.Get()))
	s.userBooks.Set(apply(s.userBooks.Get()))
	s.filteredBooks.Set(apply(s.filteredBooks.Get()))

	if selected := s.selectedBook.Get(); selected != nil && selected.ID == bookID {
		unavailable := *selected
		unavailable.IsAvailable = false
		s.selectedBook.Set(&unavailable)
	}
}

// FilterBooks applies an instant client-side filter over the cached
// all-books collection: a case-insensitive substring match on title,
// author and genre. It never calls the remote store.
func (s *BookState) FilterBooks(query string) {
	s.searchQuery.Set(query)

	if strings.TrimSpace(query) == "" {
		s.filteredBooks.Set(s.books.Get())
		return
	}

	needle := strings.ToLower(query)
	var matched []entities.Book
	for _, b := range s.books.Get() {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Genre), needle) {
			matched = append(matched, b)
		}
	}
	s.filteredBooks.Set(matched)
}

// SearchBooks runs the server-side title search and replaces the filtered
// view wholesale with its result. A blank query resets the filtered view
// to the cached all-books collection.
func (s *BookState) SearchBooks(query string) {
	s.searchQuery.Set(query)

	if strings.TrimSpace(query) == "" {
		s.filteredBooks.Set(s.books.Get())
		return
	}

	s.begin()
	defer s.finish()

	filteredToken := s.filteredGen.begin()

	books, err := s.useCase.SearchBooks(query)
	if err != nil {
		s.fail(err)
		return
	}
	s.filteredGen.commit(filteredToken, func() { s.filteredBooks.Set(books) })
}

// ClearFilters resets the filtered view to the all-books collection.
func (s *BookState) ClearFilters() {
	s.filteredBooks.Set(s.books.Get())
}

// ClearSearch resets the search query, the genre selection and the
// filtered view.
func (s *BookState) ClearSearch() {
	s.searchQuery.Set("")
	s.selectedGenre.Set("")
	s.filteredBooks.Set(s.books.Get())
}

func (s *BookState) ClearError() {
	s.errorMessage.Set("")
}

func (s *BookState) ClearSelectedBook() {
	s.selectedBook.Set(nil)
}

func (s *BookState) ClearUserBooks() {
	s.userBooks.Set(nil)
}
