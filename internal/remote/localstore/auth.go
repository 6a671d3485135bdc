package localstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
)

const providerPassword = "password"
const providerFederated = "google"

// ErrPasswordTooLong is returned when a password exceeds the bcrypt limit.
var ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")

// AuthClient implements remote.AuthClient on the accounts table. It owns
// the current-session slot and the session-change listener registry.
type AuthClient struct {
	db         *gorm.DB
	bcryptCost int

	mu        sync.Mutex
	current   *entities.AuthUser
	listeners map[int]remote.SessionListener
	nextID    int
}

// Auth returns the auth-client view of the store.
func (s *Store) Auth(bcryptCost int) *AuthClient {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthClient{
		db:         s.db,
		bcryptCost: bcryptCost,
		listeners:  make(map[int]remote.SessionListener),
	}
}

// SignUp creates a password account and establishes a session for it.
func (a *AuthClient) SignUp(email, password string) (*entities.AuthUser, error) {
	var existing accountRow
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, remote.ErrAccountExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := hashPassword(password, a.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := accountRow{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Provider:     providerPassword,
	}
	if err := a.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user := toAuthUser(account)
	a.setSession(user)
	return user, nil
}

// SignIn validates credentials and establishes a session.
func (a *AuthClient) SignIn(email, password string) (*entities.AuthUser, error) {
	var account accountRow
	err := a.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, remote.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, remote.ErrInvalidCredentials
		}
		return nil, err
	}

	user := toAuthUser(account)
	a.setSession(user)
	return user, nil
}

// SignInWithIDToken establishes a session from a federated ID token,
// creating an account on first sight of the federated identity. The token
// is parsed but not signature-verified; the local backend trusts its caller.
func (a *AuthClient) SignInWithIDToken(idToken string) (*entities.AuthUser, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", remote.ErrInvalidIDToken, err)
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if subject == "" && email == "" {
		return nil, remote.ErrInvalidIDToken
	}
	displayName, _ := claims["name"].(string)
	photoURL, _ := claims["picture"].(string)
	emailVerified, _ := claims["email_verified"].(bool)

	var account accountRow
	err := a.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		uid := subject
		if uid == "" {
			uid = uuid.NewString()
		}
		account = accountRow{
			UID:           uid,
			Email:         email,
			DisplayName:   displayName,
			PhotoURL:      photoURL,
			Provider:      providerFederated,
			EmailVerified: emailVerified,
		}
		if err := a.db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	user := toAuthUser(account)
	a.setSession(user)
	return user, nil
}

// SignOut clears the current session.
func (a *AuthClient) SignOut() error {
	a.setSession(nil)
	return nil
}

// CurrentUser returns a copy of the current session projection, or nil.
func (a *AuthClient) CurrentUser() *entities.AuthUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	user := *a.current
	return &user
}

// Subscribe registers a session-change listener. The listener is invoked
// immediately with the current value and again on every change. The
// returned function unsubscribes it.
func (a *AuthClient) Subscribe(listener remote.SessionListener) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = listener
	current := a.current
	a.mu.Unlock()

	listener(copyUser(current))

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

// setSession updates the session slot and notifies listeners. Listeners
// run outside the lock so they may call back into the client.
func (a *AuthClient) setSession(user *entities.AuthUser) {
	a.mu.Lock()
	a.current = user
	listeners := make([]remote.SessionListener, 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(copyUser(user))
	}
}

func toAuthUser(account accountRow) *entities.AuthUser {
	return &entities.AuthUser{
		UID:             account.UID,
		Email:           account.Email,
		DisplayName:     account.DisplayName,
		PhotoURL:        account.PhotoURL,
		IsEmailVerified: account.EmailVerified,
	}
}

func copyUser(user *entities.AuthUser) *entities.AuthUser {
	if user == nil {
		return nil
	}
	clone := *user
	return &clone
}

func hashPassword(password string, cost int) (string, error) {
	// bcrypt has a 72-byte limit
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
