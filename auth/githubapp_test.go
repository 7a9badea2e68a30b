package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAppTokenSource_Validation(t *testing.T) {
	key := rsaKey(t)

	tests := []struct {
		name string
		cfg  AppConfig
		want error
	}{
		{"missing app id", AppConfig{InstallationID: 2, PrivateKey: key}, ErrAppConfig},
		{"missing installation", AppConfig{AppID: 1, PrivateKey: key}, ErrAppConfig},
		{"missing key", AppConfig{AppID: 1, InstallationID: 2}, ErrInvalidPrivateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAppTokenSource(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAppTokenSource_Token(t *testing.T) {
	key := rsaKey(t)
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/app/installations/99/access_tokens" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		calls.Add(1)

		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims, err := ParseAppJWT(bearer, &key.PublicKey)
		if err != nil || claims.Issuer != "7" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "A JSON web token could not be decoded"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"token":      "ghs_installation",
			"expires_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		})
	}))
	defer server.Close()

	ts, err := NewAppTokenSource(AppConfig{
		AppID:          7,
		InstallationID: 99,
		PrivateKey:     key,
		APIURL:         server.URL,
	})
	if err != nil {
		t.Fatalf("NewAppTokenSource() error = %v", err)
	}

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "ghs_installation" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if !tok.Valid() {
		t.Error("token should be valid")
	}

	// A still-valid token is reused rather than minted again.
	if _, err := ts.Token(); err != nil {
		t.Fatalf("Token() second call error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("exchange calls = %d, want 1", got)
	}
}

func TestAppTokenSource_Rejected(t *testing.T) {
	key := rsaKey(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	ts, err := NewAppTokenSource(AppConfig{AppID: 7, InstallationID: 1, PrivateKey: key, APIURL: server.URL})
	if err != nil {
		t.Fatalf("NewAppTokenSource() error = %v", err)
	}

	_, err = ts.Token()
	if !errors.Is(err, ErrTokenExchange) {
		t.Errorf("error = %v, want ErrTokenExchange", err)
	}
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("ghp_abc").Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "ghp_abc" || tok.TokenType != "Bearer" {
		t.Errorf("token = %+v", tok)
	}
}
