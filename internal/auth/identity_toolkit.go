package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

const DefaultIdentityEndpoint = "https://identitytoolkit.googleapis.com/v1"

type IdentityConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// IdentityToolkit verifies ID tokens and signs users in against the managed
// identity REST API.
type IdentityToolkit struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewIdentityToolkit(cfg IdentityConfig, client *http.Client) *IdentityToolkit {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultIdentityEndpoint
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &IdentityToolkit{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   client,
	}
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Disabled    bool   `json:"disabled"`
	} `json:"users"`
}

func (t *IdentityToolkit) Verify(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	var resp lookupResponse
	if err := t.call(ctx, "accounts:lookup", map[string]any{"idToken": token}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 || resp.Users[0].Disabled {
		return nil, ErrInvalidToken
	}

	u := resp.Users[0]
	return &User{UID: u.LocalID, Email: u.Email, Name: u.DisplayName}, nil
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

func (t *IdentityToolkit) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp signInResponse
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	if err := t.call(ctx, "accounts:signInWithPassword", body, &resp); err != nil {
		return nil, err
	}

	return &Session{
		User:         User{UID: resp.LocalID, Email: resp.Email, Name: resp.DisplayName},
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (t *IdentityToolkit) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", t.endpoint, method, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return mapProviderError(err)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// mapProviderError turns the provider's error codes into sentinel errors.
// Codes may carry a suffix, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
func mapProviderError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	code := strings.TrimSpace(strings.SplitN(gerr.Message, ":", 2)[0])
	switch code {
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return fmt.Errorf("%w: %s", ErrUserNotFound, code)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return fmt.Errorf("%w: %s", ErrWrongCredential, code)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("%w: %s", ErrRateLimited, code)
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "MISSING_ID_TOKEN":
		return fmt.Errorf("%w: %s", ErrInvalidToken, code)
	}
	if gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
	}
	return fmt.Errorf("identity provider error (%d): %s", gerr.Code, gerr.Message)
}
