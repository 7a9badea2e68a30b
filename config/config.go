package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/jira"
)

// Config is the resolved, typed configuration. It holds only value fields,
// so copies are independent; build it once with Load and pass it down.
type Config struct {
	Jira   JiraConfig
	Host   HostConfig
	Git    GitConfig
	Log    LogConfig
	Notify NotifyConfig

	HTTPTimeout time.Duration
}

// JiraConfig is the issue tracker connection.
type JiraConfig struct {
	BaseURL    string
	Email      string
	APIToken   string
	AuthType   jira.AuthType
	APIVersion jira.APIVersion
}

// HostConfig is the source host connection.
type HostConfig struct {
	Kind          string // "github", "gitlab", or "" to detect
	GitHubToken   string
	GitLabToken   string
	GitHubAPIURL  string
	GitLabBaseURL string

	AppID             int64
	AppInstallationID int64
	AppKeyPath        string
}

// HasGitHubApp reports whether GitHub App credentials are configured.
func (h HostConfig) HasGitHubApp() bool {
	return h.AppID > 0 && h.AppInstallationID > 0 && h.AppKeyPath != ""
}

// GitConfig locates the repository.
type GitConfig struct {
	RepoURL       string // derived from the origin remote when empty
	DefaultBranch string
	LocalPath     string // absolute
}

// LogConfig configures the logging backend.
type LogConfig struct {
	Level  string
	Format string
}

// NotifyConfig configures event delivery.
type NotifyConfig struct {
	SlackWebhookURL string
	WebhookURL      string
}

// Load converts resolved values into a Config. Malformed values fail with
// a ConfigurationError; missing credentials are checked later by
// RequireTracker and RequireHost so unrelated actions keep working.
func Load(r *Resolved) (*Config, error) {
	var problems []string

	cfg := &Config{
		Jira: JiraConfig{
			BaseURL:    strings.TrimRight(r.Get(KeyJiraBaseURL), "/"),
			Email:      r.Get(KeyJiraEmail),
			APIToken:   r.Get(KeyJiraAPIToken),
			AuthType:   jira.AuthType(strings.ToLower(r.Get(KeyJiraAuthType))),
			APIVersion: jira.APIVersion(strings.ToLower(r.Get(KeyJiraAPIVersion))),
		},
		Host: HostConfig{
			Kind:          strings.ToLower(r.Get(KeySourceHost)),
			GitHubToken:   r.Get(KeyGitHubToken),
			GitLabToken:   r.Get(KeyGitLabToken),
			GitHubAPIURL:  r.Get(KeyGitHubAPIURL),
			GitLabBaseURL: r.Get(KeyGitLabBaseURL),
			AppKeyPath:    r.Get(KeyGitHubAppKeyPath),
		},
		Git: GitConfig{
			RepoURL:       r.Get(KeyGitRepoURL),
			DefaultBranch: r.Get(KeyGitDefaultBranch),
		},
		Log: LogConfig{
			Level:  strings.ToLower(r.Get(KeyLogLevel)),
			Format: strings.ToLower(r.Get(KeyLogFormat)),
		},
		Notify: NotifyConfig{
			SlackWebhookURL: r.Get(KeySlackWebhookURL),
			WebhookURL:      r.Get(KeyWebhookURL),
		},
	}

	if cfg.Jira.AuthType == "" {
		cfg.Jira.AuthType = jira.AuthAPIToken
	}
	if cfg.Jira.APIVersion == "" {
		cfg.Jira.APIVersion = jira.APIVersionV3
	}
	if cfg.Git.DefaultBranch == "" {
		cfg.Git.DefaultBranch = "main"
	}

	switch cfg.Jira.AuthType {
	case jira.AuthAPIToken, jira.AuthPAT, jira.AuthBasic:
	default:
		problems = append(problems, fmt.Sprintf("%s must be api_token, pat, or basic", KeyJiraAuthType))
	}
	switch cfg.Jira.APIVersion {
	case jira.APIVersionV2, jira.APIVersionV3:
	default:
		problems = append(problems, fmt.Sprintf("%s must be v2 or v3", KeyJiraAPIVersion))
	}
	switch cfg.Host.Kind {
	case "", "github", "gitlab":
	default:
		problems = append(problems, fmt.Sprintf("%s must be github or gitlab", KeySourceHost))
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("%s must be debug, info, warn, or error", KeyLogLevel))
	}
	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("%s must be json or console", KeyLogFormat))
	}

	if v := r.Get(KeyGitHubAppID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer", KeyGitHubAppID))
		}
		cfg.Host.AppID = id
	}
	if v := r.Get(KeyGitHubAppInstall); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer", KeyGitHubAppInstall))
		}
		cfg.Host.AppInstallationID = id
	}

	cfg.HTTPTimeout = 30 * time.Second
	if v := r.Get(KeyHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive duration like 30s", KeyHTTPTimeout))
		} else {
			cfg.HTTPTimeout = d
		}
	}

	localPath := r.Get(KeyGitLocalPath)
	if localPath == "" {
		localPath = "."
	}
	abs, err := filepath.Abs(localPath)
	if err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", KeyGitLocalPath, err))
	}
	cfg.Git.LocalPath = abs

	if len(problems) > 0 {
		return nil, deverrors.Configuration("invalid configuration: " + strings.Join(problems, "; ")).
			WithHint("fix with `issueflow config set <key> <value>` or the matching environment variable")
	}
	return cfg, nil
}

// RequireTracker checks the issue tracker settings, naming every missing key.
func (c *Config) RequireTracker() error {
	var missing []string
	if c.Jira.BaseURL == "" {
		missing = append(missing, KeyJiraBaseURL)
	}
	switch c.Jira.AuthType {
	case jira.AuthPAT:
		if c.Jira.APIToken == "" {
			missing = append(missing, KeyJiraAPIToken)
		}
	default:
		if c.Jira.Email == "" {
			missing = append(missing, KeyJiraEmail)
		}
		if c.Jira.APIToken == "" {
			missing = append(missing, KeyJiraAPIToken)
		}
	}
	return missingError("issue tracker", missing)
}

// RequireHost checks credentials for the given host kind ("github" or
// "gitlab"), naming every missing key.
func (c *Config) RequireHost(kind string) error {
	var missing []string
	switch kind {
	case "gitlab":
		if c.Host.GitLabToken == "" {
			missing = append(missing, KeyGitLabToken)
		}
	default:
		if c.Host.GitHubToken == "" && !c.Host.HasGitHubApp() {
			missing = append(missing, KeyGitHubToken)
			// Partially configured app credentials are reported key by key.
			if c.Host.AppID > 0 || c.Host.AppInstallationID > 0 || c.Host.AppKeyPath != "" {
				if c.Host.AppID == 0 {
					missing = append(missing, KeyGitHubAppID)
				}
				if c.Host.AppInstallationID == 0 {
					missing = append(missing, KeyGitHubAppInstall)
				}
				if c.Host.AppKeyPath == "" {
					missing = append(missing, KeyGitHubAppKeyPath)
				}
			}
		}
	}
	return missingError("source host", missing)
}

func missingError(what string, missing []string) error {
	if len(missing) == 0 {
		return nil
	}

	envs := make([]string, 0, len(missing))
	for _, key := range missing {
		if names := EnvNames[key]; len(names) > 0 {
			envs = append(envs, names[0])
		}
	}
	slices.Sort(envs)

	return deverrors.Configuration(fmt.Sprintf("%s not configured: missing %s", what, strings.Join(missing, ", "))).
		WithHint("set " + strings.Join(envs, ", "))
}

// JiraClientConfig builds the tracker client configuration.
func (c *Config) JiraClientConfig() *jira.Config {
	cfg := &jira.Config{
		URL:        c.Jira.BaseURL,
		APIVersion: c.Jira.APIVersion,
		Timeout:    c.HTTPTimeout,
		Auth:       jira.AuthConfig{Type: c.Jira.AuthType, Email: c.Jira.Email, Token: c.Jira.APIToken},
	}
	if c.Jira.AuthType == jira.AuthBasic {
		cfg.Auth.Username = c.Jira.Email
		cfg.Auth.Password = c.Jira.APIToken
	}
	return cfg
}

// Mask hides all but the last four characters of a secret.
func Mask(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", 8) + value[len(value)-4:]
}
