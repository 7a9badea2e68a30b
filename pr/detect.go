package pr

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Host kinds.
const (
	HostGitHub = "github"
	HostGitLab = "gitlab"
)

// DetectHost decides which provider serves repo. A non-empty override
// ("github" or "gitlab") wins; otherwise the hostname decides.
func DetectHost(repo Repo, override string) (string, error) {
	switch kind := strings.ToLower(strings.TrimSpace(override)); kind {
	case HostGitHub, HostGitLab:
		return kind, nil
	case "":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, override)
	}

	host := strings.ToLower(repo.Host)
	switch {
	case strings.Contains(host, "github"):
		return HostGitHub, nil
	case strings.Contains(host, "gitlab"):
		return HostGitLab, nil
	default:
		return "", fmt.Errorf("%w: %s (set the host kind explicitly)", ErrUnknownProvider, repo.Host)
	}
}

// APIBaseURL returns the API root for a self-hosted instance, or "" for the
// public services.
func APIBaseURL(kind, host string) string {
	host = strings.ToLower(host)
	switch kind {
	case HostGitHub:
		if host == "" || host == "github.com" {
			return ""
		}
		return "https://" + host + "/api/v3/"
	case HostGitLab:
		if host == "" || host == "gitlab.com" {
			return ""
		}
		return "https://" + host + "/api/v4"
	}
	return ""
}

// ProviderConfig holds what NewProvider needs to build a provider.
type ProviderConfig struct {
	Kind    string // "github" or "gitlab"
	BaseURL string // API root; derived from the repo host when empty
	Token   oauth2.TokenSource
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewProvider builds the provider for repo.
//
// Example:
//
//	repo, _ := pr.ParseRepoURL(remoteURL)
//	kind, _ := pr.DetectHost(repo, cfg.HostKind)
//	provider, err := pr.NewProvider(repo, pr.ProviderConfig{Kind: kind, Token: ts})
func NewProvider(repo Repo, cfg ProviderConfig) (Provider, error) {
	if cfg.Token == nil {
		return nil, ErrMissingToken
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = APIBaseURL(cfg.Kind, repo.Host)
	}

	switch cfg.Kind {
	case HostGitHub:
		opts := []GitHubOption{WithGitHubTimeout(cfg.Timeout), WithGitHubLogger(cfg.Logger)}
		if baseURL != "" {
			opts = append(opts, WithGitHubBaseURL(baseURL))
		}
		return NewGitHubProvider(cfg.Token, opts...)

	case HostGitLab:
		tok, err := cfg.Token.Token()
		if err != nil {
			return nil, fmt.Errorf("gitlab token: %w", err)
		}
		opts := []GitLabOption{WithGitLabTimeout(cfg.Timeout), WithGitLabLogger(cfg.Logger)}
		if baseURL != "" {
			opts = append(opts, WithGitLabBaseURL(baseURL))
		}
		return NewGitLabProvider(tok.AccessToken, opts...)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Kind)
	}
}
