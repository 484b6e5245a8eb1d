package models

// User represents a registered user as stored
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Bio          string `json:"bio"`
	Image        string `json:"image"`
	PasswordHash string `json:"-"` // Not serialized
}

// AuthUser is the caller identity attached to a request.
// It never carries the password hash.
type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// Identity trims a stored user down to the request identity
func (u *User) Identity() *AuthUser {
	return &AuthUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}

// AuthenticatedUser is the account view returned with a fresh token
type AuthenticatedUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

// UserUpdate holds the optional fields of a profile update
type UserUpdate struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}
