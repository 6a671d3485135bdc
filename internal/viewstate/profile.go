package viewstate

import (
	"io"
	"os"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/usecase"
)

// ProfileUIState is the single state record rendered by the profile
// screen. The edit fields shadow the loaded user until saved or cancelled.
type ProfileUIState struct {
	User              *entities.User
	IsLoading         bool
	IsUploadingImage  bool
	IsEditing         bool
	Name              string
	Email             string
	Phone             string
	Location          string
	Bio               string
	SelectedImagePath string
	ErrorMessage      string
	SuccessMessage    string
}

// ProfileState owns the profile screen's state record.
type ProfileState struct {
	useCase *usecase.AuthUseCase
	uiState *Slot[ProfileUIState]
}

// NewProfileState creates a profile state holder.
func NewProfileState(useCase *usecase.AuthUseCase) *ProfileState {
	return &ProfileState{
		useCase: useCase,
		uiState: NewSlot(ProfileUIState{}),
	}
}

// UIState returns the observable state record.
func (s *ProfileState) UIState() *Slot[ProfileUIState] { return s.uiState }

func (s *ProfileState) update(apply func(*ProfileUIState)) {
	state := s.uiState.Get()
	apply(&state)
	s.uiState.Set(state)
}

// LoadUserData fetches the profile document and populates the edit
// fields. A missing document is repaired by the repository, so a success
// here always carries a persisted profile.
func (s *ProfileState) LoadUserData() {
	s.update(func(st *ProfileUIState) {
		st.IsLoading = true
		st.ErrorMessage = ""
	})

	if s.useCase.CurrentUser() == nil {
		s.update(func(st *ProfileUIState) {
			st.IsLoading = false
			st.ErrorMessage = "No user logged in. Please sign in again."
		})
		return
	}

	user, err := s.useCase.GetCurrentUserData()
	if err != nil {
		s.update(func(st *ProfileUIState) {
			st.IsLoading = false
			st.ErrorMessage = err.Error()
		})
		return
	}

	s.update(func(st *ProfileUIState) {
		st.User = &user
		st.IsLoading = false
		st.Name = user.Name
		st.Email = user.Email
		st.Phone = user.Phone
		st.Location = user.Location
		st.Bio = user.Bio
	})
}

// Edit-field updaters.

func (s *ProfileState) UpdateName(name string) {
	s.update(func(st *ProfileUIState) { st.Name = name })
}

func (s *ProfileState) UpdateEmail(email string) {
	s.update(func(st *ProfileUIState) { st.Email = email })
}

func (s *ProfileState) UpdatePhone(phone string) {
	s.update(func(st *ProfileUIState) { st.Phone = phone })
}

func (s *ProfileState) UpdateLocation(location string) {
	s.update(func(st *ProfileUIState) { st.Location = location })
}

func (s *ProfileState) UpdateBio(bio string) {
	s.update(func(st *ProfileUIState) { st.Bio = bio })
}

// SetSelectedImage records the picked image file for the next save.
func (s *ProfileState) SetSelectedImage(path string) {
	s.update(func(st *ProfileUIState) { st.SelectedImagePath = path })
}

// UploadProfileImage uploads a new profile image for the loaded user.
func (s *ProfileState) UploadProfileImage(imagePath string) {
	s.update(func(st *ProfileUIState) {
		st.IsUploadingImage = true
		st.ErrorMessage = ""
	})

	user := s.uiState.Get().User
	if user == nil {
		s.update(func(st *ProfileUIState) {
			st.IsUploadingImage = false
			st.ErrorMessage = "User not found"
		})
		return
	}

	image, err := os.Open(imagePath)
	if err != nil {
		s.update(func(st *ProfileUIState) {
			st.IsUploadingImage = false
			st.ErrorMessage = err.Error()
		})
		return
	}
	defer image.Close()

	s.UpdateUserProfile(*user, image)
}

// UpdateUserProfile persists the given profile, with an optional new
// image, and records the outcome in the state record.
func (s *ProfileState) UpdateUserProfile(user entities.User, image io.Reader) {
	s.update(func(st *ProfileUIState) {
		st.IsLoading = true
		st.ErrorMessage = ""
	})

	if err := s.useCase.UpdateUserProfile(user, image); err != nil {
		s.update(func(st *ProfileUIState) {
			st.IsLoading = false
			st.IsUploadingImage = false
			st.ErrorMessage = err.Error()
		})
		return
	}

	s.update(func(st *ProfileUIState) {
		st.IsLoading = false
		st.IsUploadingImage = false
		st.SuccessMessage = "Profile updated successfully!"
		st.User = &user
	})
}

// SaveProfileChanges builds the updated profile from the edit fields and
// persists it, including the selected image if one was picked.
func (s *ProfileState) SaveProfileChanges() {
	state := s.uiState.Get()
	if state.User == nil {
		// Try to recover the profile before asking the user to retry
		s.LoadUserData()
		s.update(func(st *ProfileUIState) {
			st.ErrorMessage = "User data not loaded. Please try again."
		})
		return
	}

	updated := *state.User
	updated.Name = state.Name
	updated.Email = state.Email
	updated.Phone = state.Phone
	updated.Location = state.Location
	updated.Bio = state.Bio
	updated.UpdatedAt = entities.NowMillis()

	if state.SelectedImagePath != "" {
		image, err := os.Open(state.SelectedImagePath)
		if err != nil {
			s.update(func(st *ProfileUIState) { st.ErrorMessage = err.Error() })
			return
		}
		defer image.Close()
		s.UpdateUserProfile(updated, image)
		return
	}
	s.UpdateUserProfile(updated, nil)
}

// SetEditingMode toggles the editing flag.
func (s *ProfileState) SetEditingMode(isEditing bool) {
	s.update(func(st *ProfileUIState) { st.IsEditing = isEditing })
}

// CancelEditing restores the edit fields from the loaded user and leaves
// editing mode.
func (s *ProfileState) CancelEditing() {
	state := s.uiState.Get()
	if state.User == nil {
		return
	}
	user := state.User
	s.update(func(st *ProfileUIState) {
		st.IsEditing = false
		st.Name = user.Name
		st.Email = user.Email
		st.Phone = user.Phone
		st.Location = user.Location
		st.Bio = user.Bio
		st.SelectedImagePath = ""
		st.ErrorMessage = ""
	})
}

func (s *ProfileState) ClearError() {
	s.update(func(st *ProfileUIState) { st.ErrorMessage = "" })
}

func (s *ProfileState) ClearSuccessMessage() {
	s.update(func(st *ProfileUIState) { st.SuccessMessage = "" })
}
