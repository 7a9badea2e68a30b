package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/randalmurphal/issueflow/http"
)

// DefaultGitHubAPIURL is the public GitHub API root.
const DefaultGitHubAPIURL = "https://api.github.com"

// AppConfig identifies a GitHub App installation.
type AppConfig struct {
	AppID          int64
	InstallationID int64
	PrivateKey     *rsa.PrivateKey

	// APIURL defaults to DefaultGitHubAPIURL. Enterprise servers use
	// "https://host/api/v3".
	APIURL string

	Timeout time.Duration
	Logger  *slog.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// appTokenSource mints installation access tokens.
type appTokenSource struct {
	cfg AppConfig
}

// installationToken is the access_tokens response body.
type installationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAppTokenSource returns a token source that exchanges app JWTs for
// installation tokens and reuses each token until shortly before it expires.
//
// Example:
//
//	key, _ := auth.LoadPrivateKey(cfg.GitHubAppKeyPath)
//	ts, err := auth.NewAppTokenSource(auth.AppConfig{AppID: 12, InstallationID: 34, PrivateKey: key})
//	provider, _ := pr.NewGitHubProvider(ts)
func NewAppTokenSource(cfg AppConfig) (oauth2.TokenSource, error) {
	if cfg.AppID <= 0 || cfg.InstallationID <= 0 {
		return nil, ErrAppConfig
	}
	if cfg.PrivateKey == nil {
		return nil, ErrInvalidPrivateKey
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultGitHubAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = http.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return oauth2.ReuseTokenSource(nil, &appTokenSource{cfg: cfg}), nil
}

// Token implements oauth2.TokenSource.
func (s *appTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	appJWT, err := SignAppJWT(s.cfg.AppID, s.cfg.PrivateKey, s.cfg.Now())
	if err != nil {
		return nil, fmt.Errorf("sign app JWT: %w", err)
	}

	client := http.NewClient(http.ClientConfig{
		BaseURL:     s.cfg.APIURL,
		ServiceName: "github-app",
		Timeout:     s.cfg.Timeout,
		BeforeRequest: func(req *nethttp.Request) {
			req.Header.Set("Authorization", "Bearer "+appJWT)
			req.Header.Set("Accept", "application/vnd.github+json")
			req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		},
	})

	path := fmt.Sprintf("/app/installations/%d/access_tokens", s.cfg.InstallationID)
	resp, err := client.Post(ctx, path, nil)
	if err != nil {
		var apiErr *http.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
		}
		return nil, err
	}

	var tok installationToken
	if decodeErr := resp.Decode(&tok); decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, decodeErr)
	}
	if tok.Token == "" {
		return nil, fmt.Errorf("%w: empty token in response", ErrTokenExchange)
	}

	s.cfg.Logger.Debug("github app installation token minted",
		"installation_id", s.cfg.InstallationID, "expires_at", tok.ExpiresAt)

	return &oauth2.Token{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		Expiry:      tok.ExpiresAt,
	}, nil
}

// StaticTokenSource wraps a personal access token.
func StaticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
