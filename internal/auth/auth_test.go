package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func providerError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

func newToolkit(t *testing.T, handler http.HandlerFunc) *IdentityToolkit {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewIdentityToolkit(IdentityConfig{APIKey: "k", Endpoint: srv.URL + "/v1"}, srv.Client())
}

func TestIdentityToolkitVerify(t *testing.T) {
	tk := newToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:lookup" || r.URL.Query().Get("key") != "k" {
			t.Errorf("unexpected request %s", r.URL)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["idToken"] == "expired" {
			providerError(w, http.StatusBadRequest, "INVALID_ID_TOKEN")
			return
		}
		_, _ = w.Write([]byte(`{"users":[{"localId":"u1","email":"a@b.c","displayName":"Ann"}]}`))
	})

	u, err := tk.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.UID != "u1" || u.Email != "a@b.c" || u.Name != "Ann" {
		t.Errorf("user = %+v", u)
	}

	if _, err := tk.Verify(context.Background(), "expired"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := tk.Verify(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}

func TestIdentityToolkitSignInErrors(t *testing.T) {
	tests := []struct {
		email   string
		status  int
		message string
		want    error
		text    string
	}{
		{"nobody@x.io", http.StatusBadRequest, "EMAIL_NOT_FOUND", ErrUserNotFound, "No account found with this email"},
		{"ann@x.io", http.StatusBadRequest, "INVALID_PASSWORD", ErrWrongCredential, "Incorrect password"},
		{"ann@x.io", http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled", ErrRateLimited, "Too many attempts, try again later"},
		{"ann@x.io", http.StatusTooManyRequests, "QUOTA_EXCEEDED", ErrRateLimited, "Too many attempts, try again later"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			tk := newToolkit(t, func(w http.ResponseWriter, r *http.Request) {
				providerError(w, tt.status, tt.message)
			})
			_, err := tk.SignIn(context.Background(), tt.email, "pw")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := Message(err); got != tt.text {
				t.Errorf("Message() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestIdentityToolkitSignIn(t *testing.T) {
	tk := newToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["returnSecureToken"] != true {
			t.Errorf("returnSecureToken not set: %v", body)
		}
		_, _ = w.Write([]byte(`{"idToken":"tok","refreshToken":"ref","expiresIn":"3600","localId":"u1","email":"ann@x.io"}`))
	})

	s, err := tk.SignIn(context.Background(), "ann@x.io", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.IDToken != "tok" || s.User.UID != "u1" || s.ExpiresIn != "3600" {
		t.Errorf("session = %+v", s)
	}
}

func TestDevVerifier(t *testing.T) {
	u, err := DevVerifier{}.Verify(context.Background(), "")
	if err != nil || u.UID != DevUserID {
		t.Fatalf("Verify() = %+v, %v", u, err)
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := UserFrom(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
	ctx := WithUser(context.Background(), &User{UID: "u1"})
	u, ok := UserFrom(ctx)
	if !ok || u.UID != "u1" {
		t.Errorf("UserFrom() = %+v, %v", u, ok)
	}
}

func TestMessageDefault(t *testing.T) {
	if got := Message(errors.New("boom")); got != "Authentication failed" {
		t.Errorf("Message() = %q", got)
	}
}
