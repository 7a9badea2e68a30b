package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/randalmurphal/issueflow/auth"
	"github.com/randalmurphal/issueflow/config"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/pr"
)

// Host is a source host provider bound to the repository it serves.
type Host struct {
	Provider pr.Provider
	Repo     pr.Repo
}

// HostResolver resolves the repository identity and its provider. It runs
// before any source host network call and fails with a ConfigurationError
// when the identity or credentials are missing.
type HostResolver interface {
	Resolve(ctx context.Context) (*Host, error)
}

// StaticHost always resolves to the same provider and repository.
type StaticHost Host

// Resolve implements HostResolver.
func (h StaticHost) Resolve(ctx context.Context) (*Host, error) {
	host := Host(h)
	return &host, nil
}

// configHostResolver builds providers from configuration.
type configHostResolver struct {
	o *Orchestrator

	// The GitHub App token source caches installation tokens, so it is
	// built once and shared by every call.
	appOnce sync.Once
	appTS   oauth2.TokenSource
	appErr  error
}

func newConfigHostResolver(o *Orchestrator) *configHostResolver {
	return &configHostResolver{o: o}
}

// Resolve implements HostResolver.
func (r *configHostResolver) Resolve(ctx context.Context) (*Host, error) {
	cfg := r.o.cfg

	remote, err := r.repoURL(ctx)
	if err != nil {
		return nil, err
	}

	repo, err := pr.ParseRepoURL(remote)
	if err != nil {
		return nil, deverrors.Wrap(deverrors.KindConfiguration, "cannot determine repository owner and name", err).
			WithHint("set " + config.KeyGitRepoURL + " to the repository's https or ssh URL")
	}

	kind, err := pr.DetectHost(repo, cfg.Host.Kind)
	if err != nil {
		return nil, deverrors.Wrap(deverrors.KindConfiguration, "cannot determine source host for "+repo.Host, err).
			WithHint("set SOURCE_HOST to github or gitlab")
	}
	if err := cfg.RequireHost(kind); err != nil {
		return nil, err
	}

	ts, baseURL, err := r.credentials(kind, repo)
	if err != nil {
		return nil, err
	}

	provider, err := pr.NewProvider(repo, pr.ProviderConfig{
		Kind:    kind,
		BaseURL: baseURL,
		Token:   ts,
		Timeout: cfg.HTTPTimeout,
		Logger:  r.o.logger,
	})
	if err != nil {
		return nil, err
	}
	return &Host{Provider: provider, Repo: repo}, nil
}

// repoURL returns the configured repository URL, falling back to the
// origin remote of the local repository.
func (r *configHostResolver) repoURL(ctx context.Context) (string, error) {
	if u := r.o.cfg.Git.RepoURL; u != "" {
		return u, nil
	}

	missing := deverrors.Configuration("repository not configured: missing " + config.KeyGitRepoURL).
		WithHint("set GIT_REPO_URL or run inside a clone with an origin remote")

	local, err := r.o.openRepo(ctx, r.o.cfg.Git.LocalPath)
	if err != nil {
		return "", missing
	}
	u, err := local.RemoteURL(ctx, git.DefaultRemote)
	if err != nil || u == "" {
		return "", missing
	}
	return u, nil
}

func (r *configHostResolver) credentials(kind string, repo pr.Repo) (oauth2.TokenSource, string, error) {
	host := r.o.cfg.Host

	if kind == pr.HostGitLab {
		return auth.StaticTokenSource(host.GitLabToken), host.GitLabBaseURL, nil
	}

	if host.GitHubToken != "" {
		return auth.StaticTokenSource(host.GitHubToken), host.GitHubAPIURL, nil
	}

	apiURL := host.GitHubAPIURL
	if apiURL == "" {
		apiURL = pr.APIBaseURL(pr.HostGitHub, repo.Host)
	}
	r.appOnce.Do(func() {
		key, err := auth.LoadPrivateKey(host.AppKeyPath)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidPrivateKey) {
				err = fmt.Errorf("%w: %w", auth.ErrInvalidPrivateKey, err)
			}
			r.appErr = err
			return
		}
		r.appTS, r.appErr = auth.NewAppTokenSource(auth.AppConfig{
			AppID:          host.AppID,
			InstallationID: host.AppInstallationID,
			PrivateKey:     key,
			APIURL:         apiURL,
			Timeout:        r.o.cfg.HTTPTimeout,
			Logger:         r.o.logger,
		})
	})
	if r.appErr != nil {
		return nil, "", r.appErr
	}
	return r.appTS, apiURL, nil
}
