// Package entities holds the domain models shared by repositories,
// use cases and view-state holders.
package entities

import "strings"

// User is the profile document persisted in the "users" collection,
// keyed by the auth UID. The JSON tags are the wire contract.
type User struct {
	UID                   string `json:"uid"`
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Location              string `json:"location"`
	Bio                   string `json:"bio,omitempty"`
	ProfileImageURL       string `json:"profileImageUrl"`
	LocalProfileImagePath string `json:"localProfileImagePath"`
	CreatedAt             int64  `json:"createdAt"`
	UpdatedAt             int64  `json:"updatedAt"`
}

// DisplayName returns the user's name, or the local part of their email
// when the name is blank.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	if idx := strings.Index(u.Email, "@"); idx >= 0 {
		return u.Email[:idx]
	}
	return u.Email
}

// Initials returns up to two uppercase initials derived from the display name.
func (u User) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(u.DisplayName()) {
		initials = append(initials, []rune(word)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
