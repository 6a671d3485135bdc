package repository

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
	"github.com/azeemi/sharebook/internal/remote/localstore"
)

func setupAuthRepo(t *testing.T) (*AuthRepository, *localstore.Store, func()) {
	t.Helper()
	dir := t.TempDir()
	store, err := localstore.NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	blobs, err := localstore.NewBlobStore(filepath.Join(dir, "blobs"), "http://localhost:8790")
	require.NoError(t, err)

	repo := NewAuthRepository(store.Auth(4), store.Documents(), blobs)
	return repo, store, func() {
		store.Close()
	}
}

func TestSignUpCreatesProfileDocument(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	user, err := repo.SignUp("alice@example.com", "password123", entities.User{
		Name:  "Alice Barnes",
		Phone: "555-0100",
	})
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Barnes", doc["name"])
	assert.Equal(t, "alice@example.com", doc["email"])
	assert.Equal(t, user.UID, doc["uid"])
	assert.NotZero(t, doc["createdAt"])
}

func TestSignUpThenGetCurrentUserData(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	_, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice Barnes"})
	require.NoError(t, err)

	data, err := repo.GetCurrentUserData()
	require.NoError(t, err)
	assert.Equal(t, "Alice Barnes", data.Name)
	assert.Equal(t, "alice@example.com", data.Email)
}

func TestGetCurrentUserDataWithoutSession(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	_, err := repo.GetCurrentUserData()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestGetCurrentUserDataRepairsMissingProfile(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	user, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice Barnes"})
	require.NoError(t, err)

	// Simulate an account whose profile write was lost
	require.NoError(t, store.Documents().Delete(remote.CollectionUsers, user.UID))

	data, err := repo.GetCurrentUserData()
	require.NoError(t, err)
	assert.Equal(t, user.UID, data.UID)
	assert.Equal(t, "alice@example.com", data.Email)

	// The default document was persisted, not just returned
	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", doc["email"])
}

func TestSignInPassesThroughInvalidCredentials(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	_, err := repo.SignIn("nobody@example.com", "password123")
	assert.ErrorIs(t, err, remote.ErrInvalidCredentials)
}

func TestSignOutClearsRemoteSession(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	_, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice"})
	require.NoError(t, err)
	require.True(t, repo.IsLoggedIn())

	require.NoError(t, repo.SignOut())
	assert.False(t, repo.IsLoggedIn())
	assert.Nil(t, repo.CurrentUser())
}

func TestUpdateUserDataForcesSessionUID(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	user, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice"})
	require.NoError(t, err)

	err = repo.UpdateUserData(entities.User{
		UID:  "spoofed-uid",
		Name: "Alice Updated",
	})
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, user.UID, doc["uid"])
	assert.Equal(t, "Alice Updated", doc["name"])

	_, err = store.Documents().Get(remote.CollectionUsers, "spoofed-uid")
	assert.ErrorIs(t, err, remote.ErrDocumentNotFound)
}

func TestUpdateUserDataWithoutSession(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	err := repo.UpdateUserData(entities.User{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestUpdateUserProfileUploadsImage(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	user, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice"})
	require.NoError(t, err)

	err = repo.UpdateUserProfile(entities.User{Name: "Alice"}, strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	imageURL, _ := doc["profileImageUrl"].(string)
	assert.Contains(t, imageURL, "/storage/profile_images/profile_")
	assert.True(t, strings.HasSuffix(imageURL, ".jpg"))
}

func TestUpdateUserProfileWithoutImage(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	user, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice"})
	require.NoError(t, err)

	err = repo.UpdateUserProfile(entities.User{Name: "Alice Renamed", ProfileImageURL: "https://example.com/keep.jpg"}, nil)
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", doc["name"])
	assert.Equal(t, "https://example.com/keep.jpg", doc["profileImageUrl"])
}

func TestSignInWithGoogleSynthesizesProfile(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "google-uid-1",
		"email":   "alice@example.com",
		"name":    "Alice Barnes",
		"picture": "https://example.com/alice.jpg",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	user, err := repo.SignInWithGoogle(token)
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Barnes", doc["name"])
	assert.Equal(t, "alice@example.com", doc["email"])
	assert.Equal(t, "https://example.com/alice.jpg", doc["profileImageUrl"])
}

func TestSignInWithGoogleKeepsExistingProfile(t *testing.T) {
	repo, store, cleanup := setupAuthRepo(t)
	defer cleanup()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "google-uid-1",
		"email": "alice@example.com",
		"name":  "Alice Barnes",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	user, err := repo.SignInWithGoogle(token)
	require.NoError(t, err)

	// Edit the profile, then sign in again
	require.NoError(t, repo.UpdateUserData(entities.User{Name: "Alice Renamed"}))
	_, err = repo.SignInWithGoogle(token)
	require.NoError(t, err)

	doc, err := store.Documents().Get(remote.CollectionUsers, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", doc["name"])
}

func TestSubscribeSessionMirrorsAuthClient(t *testing.T) {
	repo, _, cleanup := setupAuthRepo(t)
	defer cleanup()

	var got []*entities.AuthUser
	unsubscribe := repo.SubscribeSession(func(user *entities.AuthUser) {
		got = append(got, user)
	})
	defer unsubscribe()

	_, err := repo.SignUp("alice@example.com", "password123", entities.User{Name: "Alice"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	require.NotNil(t, got[1])
	assert.Equal(t, "alice@example.com", got[1].Email)
}
