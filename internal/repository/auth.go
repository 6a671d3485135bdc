// Package repository translates domain operations into remote-store calls
// and maps wire documents to and from domain entities.
package repository

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
)

// AuthRepository handles authentication and the user profile document.
type AuthRepository struct {
	auth  remote.AuthClient
	docs  remote.DocumentStore
	blobs remote.BlobStore
}

// NewAuthRepository creates a new auth repository.
func NewAuthRepository(auth remote.AuthClient, docs remote.DocumentStore, blobs remote.BlobStore) *AuthRepository {
	return &AuthRepository{auth: auth, docs: docs, blobs: blobs}
}

// CurrentUser returns the current session projection, or nil.
func (r *AuthRepository) CurrentUser() *entities.AuthUser {
	return r.auth.CurrentUser()
}

// IsLoggedIn reports whether a session is active.
func (r *AuthRepository) IsLoggedIn() bool {
	return r.auth.CurrentUser() != nil
}

// SubscribeSession registers a session-change listener and returns its
// unsubscribe function.
func (r *AuthRepository) SubscribeSession(listener remote.SessionListener) func() {
	return r.auth.Subscribe(listener)
}

// SignIn establishes a session for the given credentials.
func (r *AuthRepository) SignIn(email, password string) (*entities.AuthUser, error) {
	user, err := r.auth.SignIn(email, password)
	if err != nil {
		if errors.Is(err, remote.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, wrapRemote("sign in", err)
	}
	return user, nil
}

// SignUp creates an account, then persists a profile document keyed by the
// new account's uid. If the profile write fails after account creation
// succeeded, the account exists without a profile document; the next
// GetCurrentUserData repairs it.
func (r *AuthRepository) SignUp(email, password string, profile entities.User) (*entities.AuthUser, error) {
	user, err := r.auth.SignUp(email, password)
	if err != nil {
		if errors.Is(err, remote.ErrAccountExists) {
			return nil, err
		}
		return nil, wrapRemote("sign up", err)
	}

	profile.UID = user.UID
	if user.Email != "" {
		profile.Email = user.Email
	} else {
		profile.Email = email
	}
	now := entities.NowMillis()
	if profile.CreatedAt == 0 {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt == 0 {
		profile.UpdatedAt = now
	}

	doc, err := userToDocument(profile)
	if err != nil {
		return nil, wrapRemote("sign up", err)
	}
	if err := r.docs.Set(remote.CollectionUsers, user.UID, doc); err != nil {
		return nil, wrapRemote("sign up: write profile", err)
	}

	return user, nil
}

// SignInWithGoogle exchanges a federated ID token for a session. On the
// first sign-in of an identity a default profile document is synthesized
// from the federated claims and persisted.
func (r *AuthRepository) SignInWithGoogle(idToken string) (*entities.AuthUser, error) {
	user, err := r.auth.SignInWithIDToken(idToken)
	if err != nil {
		if errors.Is(err, remote.ErrInvalidIDToken) {
			return nil, err
		}
		return nil, wrapRemote("google sign in", err)
	}

	_, err = r.docs.Get(remote.CollectionUsers, user.UID)
	if errors.Is(err, remote.ErrDocumentNotFound) {
		if err := r.persistDefaultProfile(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, wrapRemote("google sign in", err)
	}

	return user, nil
}

// SignOut clears the remote session. Local view state is not cleared here;
// callers clear their own caches.
func (r *AuthRepository) SignOut() error {
	if err := r.auth.SignOut(); err != nil {
		return wrapRemote("sign out", err)
	}
	return nil
}

// GetCurrentUserData returns the current user's profile document. When no
// document exists yet a default one is synthesized from the session,
// persisted and returned.
func (r *AuthRepository) GetCurrentUserData() (entities.User, error) {
	session := r.auth.CurrentUser()
	if session == nil {
		return entities.User{}, ErrNotLoggedIn
	}

	doc, err := r.docs.Get(remote.CollectionUsers, session.UID)
	if errors.Is(err, remote.ErrDocumentNotFound) {
		defaultUser := defaultProfile(session)
		if err := r.setProfile(defaultUser); err != nil {
			return entities.User{}, err
		}
		return defaultUser, nil
	}
	if err != nil {
		return entities.User{}, wrapRemote("get user data", err)
	}

	user, err := documentToUser(doc)
	if err != nil {
		return entities.User{}, wrapRemote("get user data", err)
	}
	return user, nil
}

// UpdateUserData overwrites the profile document of the current session.
// This is a full-document overwrite, not a partial merge.
func (r *AuthRepository) UpdateUserData(user entities.User) error {
	session := r.auth.CurrentUser()
	if session == nil {
		return ErrNotLoggedIn
	}
	user.UID = session.UID
	return r.setProfile(user)
}

// UpdateUserProfile updates the profile document, first uploading the
// supplied image (if any) to blob storage and splicing its public URL into
// the document.
func (r *AuthRepository) UpdateUserProfile(user entities.User, image io.Reader) error {
	session := r.auth.CurrentUser()
	if session == nil {
		return ErrNotLoggedIn
	}

	if image == nil {
		return r.UpdateUserData(user)
	}

	imageURL, err := r.uploadProfileImage(image)
	if err != nil {
		return wrapRemote("upload profile image", err)
	}
	user.UID = session.UID
	user.ProfileImageURL = imageURL
	return r.setProfile(user)
}

func (r *AuthRepository) uploadProfileImage(image io.Reader) (string, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return "", err
	}
	// A fresh object name per upload; old profile images are not reclaimed.
	object := fmt.Sprintf("%s/profile_%s.jpg", remote.PrefixProfileImages, uuid.NewString())
	if err := r.blobs.Put(object, data); err != nil {
		return "", err
	}
	return r.blobs.PublicURL(object), nil
}

func (r *AuthRepository) persistDefaultProfile(session *entities.AuthUser) error {
	log.Printf("no profile document for %s, creating default", session.UID)
	return r.setProfile(defaultProfile(session))
}

func (r *AuthRepository) setProfile(user entities.User) error {
	doc, err := userToDocument(user)
	if err != nil {
		return wrapRemote("write profile", err)
	}
	if err := r.docs.Set(remote.CollectionUsers, user.UID, doc); err != nil {
		return wrapRemote("write profile", err)
	}
	return nil
}

func defaultProfile(session *entities.AuthUser) entities.User {
	now := entities.NowMillis()
	return entities.User{
		UID:             session.UID,
		Name:            session.DisplayName,
		Email:           session.Email,
		ProfileImageURL: session.PhotoURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
