package domain

import (
	"context"
	"time"
)

// User is a row of the users table, keyed by the Supabase auth user id.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is whoever is making the request: a signed-in user or a mentor
// pseudo-identity.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	IsMentor  bool   `json:"is_mentor"`
}

// DisplayName is the name attributed on comments and touch points.
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// TokenClaims are the parts of a Supabase access token the API reads.
type TokenClaims struct {
	Subject      string
	Email        string
	UserMetadata map[string]interface{}
}

// MetadataString returns the first non-empty string among keys.
func (c TokenClaims) MetadataString(keys ...string) string {
	for _, k := range keys {
		if s, ok := c.UserMetadata[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Session is the result of a completed OAuth sign-in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	User         *Identity `json:"user"`
}

type UserRepository interface {
	// GetByID returns nil, nil when no row exists.
	GetByID(ctx context.Context, id string) (*User, error)
	// EnsureExists inserts the user when missing. Existing rows keep their
	// name, avatar and admin flag; only the email is refreshed.
	EnsureExists(ctx context.Context, user *User) (*User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*User, error)
}

type AuthUsecase interface {
	ResolveIdentity(ctx context.Context, claims TokenClaims) (*Identity, error)
	SyncUser(ctx context.Context) (*User, error)
	SignInURL(redirectTo string) (signInURL string, verifier string, err error)
	CompleteSignIn(ctx context.Context, code, verifier string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) (*User, error)
}
