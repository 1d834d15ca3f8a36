package core

import "time"

// User is a registered account as persisted by the credential store.
// PasswordDigest and RefreshToken never leave the service layer.
type User struct {
	ID             string    // Unique identifier, immutable
	Username       string    // Unique login name, immutable
	FullName       string    // Display name
	Email          string    // Contact address
	PasswordDigest string    // Salted one-way hash of the password
	RefreshToken   string    // Current session reference; empty means no active session
	Bio            string    // Profile text
	Website        string    // Social link
	CreatedAt      time.Time // When the account was created
	UpdatedAt      time.Time // Last mutation of any field
}

// PublicProfile is the only user shape handed to transport code.
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile strips the credential fields from a user record.
func (u *User) Profile() *PublicProfile {
	return &PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Bio:       u.Bio,
		Website:   u.Website,
		CreatedAt: u.CreatedAt,
	}
}

// Identity is the claim set recovered from a verified token.
type Identity struct {
	UserID   string    // Subject of the token
	Username string    // Login name at issue time
	IssuedAt time.Time // When the token was minted
}

// TokenPair is the credential pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access token lifetime in seconds
}
