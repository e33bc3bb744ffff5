package auth

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongCredential = errors.New("wrong credential")
	ErrRateLimited     = errors.New("rate limited")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingToken    = errors.New("missing token")
)

// DevUserID owns every record while authentication is bypassed.
const DevUserID = "dev-user-123"

type User struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Session struct {
	User         User   `json:"user"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    string `json:"expiresIn,omitempty"`
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

type Authenticator interface {
	Verifier
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// Message returns the text shown to a user for an authentication error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email"
	case errors.Is(err, ErrWrongCredential):
		return "Incorrect password"
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts, try again later"
	case errors.Is(err, ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, ErrInvalidToken):
		return "Invalid authentication credentials"
	default:
		return "Authentication failed"
	}
}

type DevVerifier struct{}

func (DevVerifier) Verify(context.Context, string) (*User, error) {
	return devUser(), nil
}

func (DevVerifier) SignIn(_ context.Context, email, _ string) (*Session, error) {
	u := devUser()
	if email != "" {
		u.Email = email
	}
	return &Session{User: *u, IDToken: "dev-token"}, nil
}

func devUser() *User {
	return &User{UID: DevUserID, Email: "dev@example.com", Name: "Development User"}
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok && u != nil
}
