package viewstate

import (
	"io"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/usecase"
)

// AuthState owns the session-derived view state. It mirrors the auth
// client's session-change notifications into its own slots, so external
// session changes (token refresh, revocation) are reflected without a
// user-driven operation.
type AuthState struct {
	useCase *usecase.AuthUseCase

	isLoggedIn   *Slot[bool]
	currentUser  *Slot[*entities.AuthUser]
	userData     *Slot[*entities.User]
	isLoading    *Slot[bool]
	errorMessage *Slot[string]

	unsubscribe func()
}

// NewAuthState creates an auth state holder and subscribes it to session
// changes. Call Close when the holder is no longer needed.
func NewAuthState(useCase *usecase.AuthUseCase) *AuthState {
	s := &AuthState{
		useCase:      useCase,
		isLoggedIn:   NewSlot(useCase.IsLoggedIn()),
		currentUser:  NewSlot(useCase.CurrentUser()),
		userData:     NewSlot[*entities.User](nil),
		isLoading:    NewSlot(false),
		errorMessage: NewSlot(""),
	}
	s.unsubscribe = useCase.SubscribeSession(func(user *entities.AuthUser) {
		s.currentUser.Set(user)
		s.isLoggedIn.Set(user != nil)
	})
	return s
}

// Close unsubscribes the holder from session changes.
func (s *AuthState) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Observable slots.

func (s *AuthState) IsLoggedIn() *Slot[bool]                { return s.isLoggedIn }
func (s *AuthState) CurrentUser() *Slot[*entities.AuthUser] { return s.currentUser }
func (s *AuthState) UserData() *Slot[*entities.User]        { return s.userData }
func (s *AuthState) IsLoading() *Slot[bool]                 { return s.isLoading }
func (s *AuthState) ErrorMessage() *Slot[string]            { return s.errorMessage }

// SignIn authenticates and, on success, loads the profile document.
func (s *AuthState) SignIn(email, password string) {
	s.isLoading.Set(true)
	s.errorMessage.Set("")
	defer s.isLoading.Set(false)

	user, err := s.useCase.SignIn(email, password)
	if err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.currentUser.Set(user)
	s.isLoggedIn.Set(true)
	s.LoadUserData()
}

// SignUp creates the account and seeds the profile slot with the supplied
// profile data.
func (s *AuthState) SignUp(email, password string, profile entities.User) {
	s.isLoading.Set(true)
	s.errorMessage.Set("")
	defer s.isLoading.Set(false)

	user, err := s.useCase.SignUp(email, password, profile)
	if err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.currentUser.Set(user)
	s.isLoggedIn.Set(true)
	profile.UID = user.UID
	profile.Email = user.Email
	s.userData.Set(&profile)
}

// SignInWithGoogle signs in with a federated ID token.
func (s *AuthState) SignInWithGoogle(idToken string) {
	s.isLoading.Set(true)
	s.errorMessage.Set("")
	defer s.isLoading.Set(false)

	user, err := s.useCase.SignInWithGoogle(idToken)
	if err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.currentUser.Set(user)
	s.isLoggedIn.Set(true)
	s.LoadUserData()
}

// SignOut clears the session and this holder's own caches. Other holders
// clear their own state.
func (s *AuthState) SignOut() {
	s.isLoading.Set(true)
	defer s.isLoading.Set(false)

	if err := s.useCase.SignOut(); err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.currentUser.Set(nil)
	s.isLoggedIn.Set(false)
	s.userData.Set(nil)
}

// LoadUserData fetches the profile document into the userData slot.
func (s *AuthState) LoadUserData() {
	user, err := s.useCase.GetCurrentUserData()
	if err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.userData.Set(&user)
}

// UpdateUserProfile persists the profile (with an optional new image) and
// refreshes the cached profile document on success.
func (s *AuthState) UpdateUserProfile(user entities.User, image io.Reader) {
	s.isLoading.Set(true)
	s.errorMessage.Set("")
	defer s.isLoading.Set(false)

	if err := s.useCase.UpdateUserProfile(user, image); err != nil {
		s.errorMessage.Set(err.Error())
		return
	}
	s.LoadUserData()
}

func (s *AuthState) ClearError() {
	s.errorMessage.Set("")
}

// SetErrorMessage surfaces an error raised outside the holder (e.g. by
// the federated sign-in UI flow).
func (s *AuthState) SetErrorMessage(message string) {
	s.errorMessage.Set(message)
}
