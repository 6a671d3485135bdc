// Package remote defines the narrow surface of the managed backend the
// application depends on: account/session management, a schema-less
// document store and a blob store. Implementations live in subpackages.
package remote

import (
	"errors"

	"github.com/azeemi/sharebook/internal/entities"
)

// Collection names used by the application.
const (
	CollectionUsers = "users"
	CollectionBooks = "books"
)

// Blob object prefixes used by the application.
const (
	PrefixProfileImages = "profile_images"
	PrefixBookCovers    = "book_covers"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("account already exists")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidIDToken     = errors.New("invalid ID token")
)

// Document is a schema-less record in a document-store collection.
type Document map[string]any

// DocumentStore is the document-database surface consumed by repositories.
type DocumentStore interface {
	// Get retrieves a document by id. Returns ErrDocumentNotFound when absent.
	Get(collection, id string) (Document, error)
	// List returns every document in the collection.
	List(collection string) ([]Document, error)
	// Set fully overwrites (or creates) the document with the given id.
	Set(collection, id string, doc Document) error
	// Update applies a partial field update to an existing document.
	// Returns ErrDocumentNotFound when absent.
	Update(collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting an absent document is not an error.
	Delete(collection, id string) error
	// QueryEqual returns all documents whose field equals value.
	QueryEqual(collection, field string, value any) ([]Document, error)
	// QueryRange returns all documents with start <= field <= end.
	QueryRange(collection, field, start, end string) ([]Document, error)
}

// BlobStore is the blob-storage surface consumed by repositories.
type BlobStore interface {
	// Put stores data under the given object path, overwriting any
	// previous object with the same path.
	Put(object string, data []byte) error
	// PublicURL returns the publicly resolvable URL for an object path.
	PublicURL(object string) string
}

// SessionListener receives the session projection on every change. A nil
// value means the session was cleared. Listeners must tolerate spurious
// re-emissions carrying the same value.
type SessionListener func(*entities.AuthUser)

// AuthClient is the account and session surface consumed by repositories.
// The current-session slot lives inside the client; there is no ambient
// process-global session state.
type AuthClient interface {
	// SignUp creates an account and establishes a session for it.
	SignUp(email, password string) (*entities.AuthUser, error)
	// SignIn establishes a session for existing credentials. Returns
	// ErrInvalidCredentials when they do not match an account.
	SignIn(email, password string) (*entities.AuthUser, error)
	// SignInWithIDToken exchanges a federated ID token for a session,
	// creating an account on first sight of the federated identity.
	SignInWithIDToken(idToken string) (*entities.AuthUser, error)
	// SignOut clears the current session.
	SignOut() error
	// CurrentUser returns the current session projection, or nil.
	CurrentUser() *entities.AuthUser
	// Subscribe registers a session-change listener. The listener is
	// invoked immediately with the current value, then on every change.
	// The returned function unsubscribes it.
	Subscribe(listener SessionListener) (unsubscribe func())
}
