package repository

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
)

// MockBookRepository is an in-memory implementation of the book
// repository surface. It records every invocation, so tests can assert
// that validation failures never reach the store, and can be forced to
// fail via FailWith.
type MockBookRepository struct {
	mu       sync.Mutex
	books    map[string]entities.Book
	calls    []string
	FailWith error
}

// NewMockBookRepository creates an empty mock book repository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{books: make(map[string]entities.Book)}
}

// Calls returns the recorded invocations in order.
func (m *MockBookRepository) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Seed inserts a book directly, bypassing call recording.
func (m *MockBookRepository) Seed(book entities.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
}

func (m *MockBookRepository) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.FailWith
}

func (m *MockBookRepository) GetAllBooks() ([]entities.Book, error) {
	if err := m.record("GetAllBooks"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	books := make([]entities.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	return books, nil
}

func (m *MockBookRepository) GetBooksByUser(ownerUID string) ([]entities.Book, error) {
	if err := m.record("GetBooksByUser"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []entities.Book
	for _, b := range m.books {
		if b.OwnerUID == ownerUID {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *MockBookRepository) GetBooksByGenre(genre string) ([]entities.Book, error) {
	if err := m.record("GetBooksByGenre"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []entities.Book
	for _, b := range m.books {
		if b.Genre == genre {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *MockBookRepository) SearchBooks(query string) ([]entities.Book, error) {
	if err := m.record("SearchBooks"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []entities.Book
	for _, b := range m.books {
		if len(b.Title) >= len(query) && b.Title[:len(query)] == query {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *MockBookRepository) GetBookByID(id string) (entities.Book, error) {
	if err := m.record("GetBookByID"); err != nil {
		return entities.Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return entities.Book{}, ErrBookNotFound
	}
	return book, nil
}

func (m *MockBookRepository) AddBook(book entities.Book, image io.Reader) (string, error) {
	if err := m.record("AddBook"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	now := entities.NowMillis()
	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now
	m.books[id] = book
	return id, nil
}

func (m *MockBookRepository) UpdateBook(id string, book entities.Book, newImage io.Reader) error {
	if err := m.record("UpdateBook"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[id]
	if !ok {
		return ErrBookNotFound
	}
	book.ID = id
	book.OwnerUID = existing.OwnerUID
	book.CreatedAt = existing.CreatedAt
	book.UpdatedAt = entities.NowMillis()
	m.books[id] = book
	return nil
}

func (m *MockBookRepository) DeleteBook(id string) error {
	if err := m.record("DeleteBook"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

func (m *MockBookRepository) MarkBookAsUnavailable(id string) error {
	if err := m.record("MarkBookAsUnavailable"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return ErrBookNotFound
	}
	book.IsAvailable = false
	book.UpdatedAt = entities.NowMillis()
	m.books[id] = book
	return nil
}

// MockAuthRepository is an in-memory implementation of the auth
// repository surface with the same recording and failure hooks.
type MockAuthRepository struct {
	mu        sync.Mutex
	session   *entities.AuthUser
	profiles  map[string]entities.User
	listeners map[int]remote.SessionListener
	nextID    int
	calls     []string
	FailWith  error
}

// NewMockAuthRepository creates an empty mock auth repository.
func NewMockAuthRepository() *MockAuthRepository {
	return &MockAuthRepository{
		profiles:  make(map[string]entities.User),
		listeners: make(map[int]remote.SessionListener),
	}
}

// Calls returns the recorded invocations in order.
func (m *MockAuthRepository) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// SetSession installs a session directly and notifies listeners, standing
// in for an external session change.
func (m *MockAuthRepository) SetSession(user *entities.AuthUser) {
	m.mu.Lock()
	m.session = user
	listeners := make([]remote.SessionListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()
	for _, l := range listeners {
		l(user)
	}
}

func (m *MockAuthRepository) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.FailWith
}

func (m *MockAuthRepository) SignIn(email, password string) (*entities.AuthUser, error) {
	if err := m.record("SignIn"); err != nil {
		return nil, err
	}
	user := &entities.AuthUser{UID: uuid.NewString(), Email: email}
	m.SetSession(user)
	return user, nil
}

func (m *MockAuthRepository) SignUp(email, password string, profile entities.User) (*entities.AuthUser, error) {
	if err := m.record("SignUp"); err != nil {
		return nil, err
	}
	user := &entities.AuthUser{UID: uuid.NewString(), Email: email}
	profile.UID = user.UID
	profile.Email = email
	m.mu.Lock()
	m.profiles[user.UID] = profile
	m.mu.Unlock()
	m.SetSession(user)
	return user, nil
}

func (m *MockAuthRepository) SignInWithGoogle(idToken string) (*entities.AuthUser, error) {
	if err := m.record("SignInWithGoogle"); err != nil {
		return nil, err
	}
	user := &entities.AuthUser{UID: uuid.NewString()}
	m.SetSession(user)
	return user, nil
}

func (m *MockAuthRepository) SignOut() error {
	if err := m.record("SignOut"); err != nil {
		return err
	}
	m.SetSession(nil)
	return nil
}

func (m *MockAuthRepository) GetCurrentUserData() (entities.User, error) {
	if err := m.record("GetCurrentUserData"); err != nil {
		return entities.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return entities.User{}, ErrNotLoggedIn
	}
	profile, ok := m.profiles[m.session.UID]
	if !ok {
		profile = entities.User{UID: m.session.UID, Email: m.session.Email}
		m.profiles[m.session.UID] = profile
	}
	return profile, nil
}

func (m *MockAuthRepository) UpdateUserData(user entities.User) error {
	if err := m.record("UpdateUserData"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNotLoggedIn
	}
	user.UID = m.session.UID
	m.profiles[user.UID] = user
	return nil
}

func (m *MockAuthRepository) UpdateUserProfile(user entities.User, image io.Reader) error {
	if err := m.record("UpdateUserProfile"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNotLoggedIn
	}
	user.UID = m.session.UID
	if image != nil {
		user.ProfileImageURL = "https://example.com/profile_images/profile_mock.jpg"
	}
	m.profiles[user.UID] = user
	return nil
}

func (m *MockAuthRepository) CurrentUser() *entities.AuthUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	user := *m.session
	return &user
}

func (m *MockAuthRepository) IsLoggedIn() bool {
	return m.CurrentUser() != nil
}

func (m *MockAuthRepository) SubscribeSession(listener remote.SessionListener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	current := m.session
	m.mu.Unlock()

	listener(current)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}
