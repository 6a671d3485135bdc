// Package usecase validates inputs before delegating to the repositories.
// No validation failure ever reaches the remote store.
package usecase

import (
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
)

// MinPasswordLength is the minimum accepted password length at sign-up.
const MinPasswordLength = 6

var validate = validator.New()

// AuthRepository is the auth surface the use case delegates to.
type AuthRepository interface {
	SignIn(email, password string) (*entities.AuthUser, error)
	SignUp(email, password string, profile entities.User) (*entities.AuthUser, error)
	SignInWithGoogle(idToken string) (*entities.AuthUser, error)
	SignOut() error
	GetCurrentUserData() (entities.User, error)
	UpdateUserData(user entities.User) error
	UpdateUserProfile(user entities.User, image io.Reader) error
	CurrentUser() *entities.AuthUser
	IsLoggedIn() bool
	SubscribeSession(listener remote.SessionListener) func()
}

// AuthUseCase validates authentication inputs and delegates.
type AuthUseCase struct {
	repo AuthRepository
}

// NewAuthUseCase creates a new auth use case.
func NewAuthUseCase(repo AuthRepository) *AuthUseCase {
	return &AuthUseCase{repo: repo}
}

func (u *AuthUseCase) SignIn(email, password string) (*entities.AuthUser, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrEmailPasswordRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrEmailInvalid
	}
	return u.repo.SignIn(email, password)
}

func (u *AuthUseCase) SignUp(email, password string, profile entities.User) (*entities.AuthUser, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrEmailPasswordRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrEmailInvalid
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, ErrNameRequired
	}
	return u.repo.SignUp(email, password, profile)
}

func (u *AuthUseCase) SignInWithGoogle(idToken string) (*entities.AuthUser, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrIDTokenRequired
	}
	return u.repo.SignInWithGoogle(idToken)
}

func (u *AuthUseCase) SignOut() error {
	return u.repo.SignOut()
}

func (u *AuthUseCase) GetCurrentUserData() (entities.User, error) {
	return u.repo.GetCurrentUserData()
}

func (u *AuthUseCase) UpdateUserData(user entities.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return ErrNameRequired
	}
	return u.repo.UpdateUserData(user)
}

func (u *AuthUseCase) UpdateUserProfile(user entities.User, image io.Reader) error {
	if strings.TrimSpace(user.Name) == "" {
		return ErrNameRequired
	}
	return u.repo.UpdateUserProfile(user, image)
}

func (u *AuthUseCase) CurrentUser() *entities.AuthUser {
	return u.repo.CurrentUser()
}

func (u *AuthUseCase) IsLoggedIn() bool {
	return u.repo.IsLoggedIn()
}

// SubscribeSession registers a session-change listener with the underlying
// auth client and returns its unsubscribe function.
func (u *AuthUseCase) SubscribeSession(listener remote.SessionListener) func() {
	return u.repo.SubscribeSession(listener)
}
