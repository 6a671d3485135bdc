package entities

// AuthUser is a read-only projection of the remote auth session. It is
// derived from the session and never persisted by the app itself.
type AuthUser struct {
	UID             string
	Email           string
	DisplayName     string
	PhotoURL        string
	IsEmailVerified bool
}
