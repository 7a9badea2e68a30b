package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/issueflow/config"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/logging"
	"github.com/randalmurphal/issueflow/pr"
	"github.com/randalmurphal/issueflow/testutil"
)

func resolveWith(t *testing.T, cfg config.Config) (*Host, error) {
	t.Helper()
	o := New(cfg, WithLogger(logging.Discard()))
	return o.host.Resolve(context.Background())
}

func TestConfigHostResolver(t *testing.T) {
	t.Run("github token", func(t *testing.T) {
		cfg := testConfig()
		cfg.Git.RepoURL = "git@github.com:acme/shop.git"
		cfg.Host.GitHubToken = "ghp_test"

		host, err := resolveWith(t, cfg)
		require.NoError(t, err)
		assert.Equal(t, "github", host.Provider.Name())
		assert.Equal(t, pr.Repo{Host: "github.com", Owner: "acme", Name: "shop"}, host.Repo)
	})

	t.Run("gitlab detected from host", func(t *testing.T) {
		cfg := testConfig()
		cfg.Git.RepoURL = "https://gitlab.example.com/group/sub/shop.git"
		cfg.Host.GitLabToken = "glpat-test"

		host, err := resolveWith(t, cfg)
		require.NoError(t, err)
		assert.Equal(t, "gitlab", host.Provider.Name())
		assert.Equal(t, "group/sub", host.Repo.Owner)
	})

	t.Run("explicit host kind", func(t *testing.T) {
		cfg := testConfig()
		cfg.Git.RepoURL = "https://code.example.com/acme/shop"
		cfg.Host.Kind = "gitlab"
		cfg.Host.GitLabToken = "glpat-test"

		host, err := resolveWith(t, cfg)
		require.NoError(t, err)
		assert.Equal(t, "gitlab", host.Provider.Name())
	})
}

func TestConfigHostResolver_Failures(t *testing.T) {
	testutil.RequireGit(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "no repository",
			mutate: func(c *config.Config) { c.Git.LocalPath = t.TempDir() },
			want:   "GIT_REPO_URL",
		},
		{
			name:   "unparseable url",
			mutate: func(c *config.Config) { c.Git.RepoURL = "not a url" },
			want:   "owner and name",
		},
		{
			name:   "unknown host",
			mutate: func(c *config.Config) { c.Git.RepoURL = "https://code.example.com/acme/shop" },
			want:   "SOURCE_HOST",
		},
		{
			name:   "missing token",
			mutate: func(c *config.Config) { c.Git.RepoURL = "https://github.com/acme/shop" },
			want:   config.KeyGitHubToken,
		},
		{
			name: "unreadable app key",
			mutate: func(c *config.Config) {
				c.Git.RepoURL = "https://github.com/acme/shop"
				c.Host.AppID = 1
				c.Host.AppInstallationID = 2
				c.Host.AppKeyPath = "/nonexistent/key.pem"
			},
			want: "private key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			o, _ := newTestOrchestrator(t, newTracker(), nil)
			o.cfg = cfg
			o.host = newConfigHostResolver(o)

			res := o.CreateBranchForIssue(context.Background(), CreateBranchParams{IssueKey: "KAN-1"})
			requireFailure(t, res, deverrors.KindConfiguration)
			assert.Contains(t, res.Error, tt.want)
		})
	}
}

func TestConfigHostResolver_OriginFallback(t *testing.T) {
	dir := testutil.SetupTestRepo(t)
	testutil.Git(t, dir, "remote", "add", "origin", "git@github.com:acme/shop.git")

	cfg := testConfig()
	cfg.Git.LocalPath = dir
	cfg.Host.GitHubToken = "ghp_test"

	host, err := resolveWith(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, "acme/shop", host.Repo.FullName())
}

// TestEndToEnd_ConfiguredClients drives actions through clients built from
// configuration against fake Jira and GitHub servers.
func TestEndToEnd_ConfiguredClients(t *testing.T) {
	var created map[string]any
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/shop/git/ref/heads/main":
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"ref":    "refs/heads/main",
				"object": map[string]any{"sha": "aaa111", "type": "commit"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/shop/git/refs":
			created = testutil.DecodeJSON[map[string]any](t, r)
			testutil.WriteJSON(w, http.StatusCreated, map[string]any{
				"ref":    created["ref"],
				"object": map[string]any{"sha": created["sha"], "type": "commit"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer github.Close()

	tracker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/api/3/issue/KAN-1/transitions" && r.Method == http.MethodGet:
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"transitions": []map[string]any{
					{"id": "11", "name": "Start Progress", "to": map[string]any{"name": "In Progress"}},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/rest/api/3/issue/KAN-404"):
			testutil.WriteJSON(w, http.StatusNotFound, map[string]any{"errorMessages": []string{"Issue does not exist"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer tracker.Close()

	cfg := testConfig()
	cfg.Git.RepoURL = "https://github.com/acme/shop.git"
	cfg.Host.GitHubToken = "ghp_test"
	cfg.Host.GitHubAPIURL = github.URL + "/"
	cfg.Jira = config.JiraConfig{
		BaseURL:    tracker.URL,
		Email:      "dev@example.com",
		APIToken:   "token",
		AuthType:   jira.AuthAPIToken,
		APIVersion: jira.APIVersionV3,
	}
	o := New(cfg, WithLogger(logging.Discard()))
	ctx := testutil.TestContext(t)

	res := o.CreateBranchForIssue(ctx, CreateBranchParams{IssueKey: "KAN-1"})
	requireSuccess(t, res)
	assert.Equal(t, "refs/heads/feature/KAN-1", created["ref"])
	assert.Equal(t, "aaa111", created["sha"])

	res = o.TransitionIssue(ctx, TransitionIssueParams{IssueKey: "KAN-1", ToStatus: "Done"})
	requireFailure(t, res, deverrors.KindInvalidTransition)

	res = o.GetIssue(ctx, GetIssueParams{IssueKey: "KAN-404"})
	requireFailure(t, res, deverrors.KindNotFound)
}
