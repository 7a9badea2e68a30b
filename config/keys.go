package config

// Configuration keys as they appear in YAML files and `config set`.
const (
	KeyJiraBaseURL    = "jira_base_url"
	KeyJiraEmail      = "jira_email"
	KeyJiraAPIToken   = "jira_api_token"
	KeyJiraAuthType   = "jira_auth_type"   // api_token | pat | basic
	KeyJiraAPIVersion = "jira_api_version" // v3 (Cloud) | v2 (Server/DC)

	KeySourceHost       = "source_host" // github | gitlab; detected from the repo URL when empty
	KeyGitHubToken      = "github_token"
	KeyGitLabToken      = "gitlab_token"
	KeyGitHubAPIURL     = "github_api_url"
	KeyGitLabBaseURL    = "gitlab_base_url"
	KeyGitHubAppID      = "github_app_id"
	KeyGitHubAppInstall = "github_app_installation_id"
	KeyGitHubAppKeyPath = "github_app_private_key_path"

	KeyGitRepoURL       = "git_repo_url"
	KeyGitDefaultBranch = "git_default_branch"
	KeyGitLocalPath     = "git_local_path"

	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyHTTPTimeout     = "http_timeout"
	KeySlackWebhookURL = "slack_webhook_url"
	KeyWebhookURL      = "webhook_url"
)

// Keys lists every recognized key in display order.
var Keys = []string{
	KeyJiraBaseURL, KeyJiraEmail, KeyJiraAPIToken, KeyJiraAuthType, KeyJiraAPIVersion,
	KeySourceHost, KeyGitHubToken, KeyGitLabToken, KeyGitHubAPIURL, KeyGitLabBaseURL,
	KeyGitHubAppID, KeyGitHubAppInstall, KeyGitHubAppKeyPath,
	KeyGitRepoURL, KeyGitDefaultBranch, KeyGitLocalPath,
	KeyLogLevel, KeyLogFormat, KeyHTTPTimeout, KeySlackWebhookURL, KeyWebhookURL,
}

// secretKeys are masked by `config show`.
var secretKeys = map[string]bool{
	KeyJiraAPIToken: true,
	KeyGitHubToken:  true,
	KeyGitLabToken:  true,
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// EnvNames maps keys to their environment variables.
var EnvNames = map[string][]string{
	KeyJiraBaseURL:    {"JIRA_BASE_URL"},
	KeyJiraEmail:      {"JIRA_EMAIL"},
	KeyJiraAPIToken:   {"JIRA_API_TOKEN"},
	KeyJiraAuthType:   {"JIRA_AUTH_TYPE"},
	KeyJiraAPIVersion: {"JIRA_API_VERSION"},

	KeySourceHost:       {"SOURCE_HOST"},
	KeyGitHubToken:      {"GITHUB_TOKEN", "GH_TOKEN"},
	KeyGitLabToken:      {"GITLAB_TOKEN"},
	KeyGitHubAPIURL:     {"GITHUB_API_URL"},
	KeyGitLabBaseURL:    {"GITLAB_BASE_URL"},
	KeyGitHubAppID:      {"GITHUB_APP_ID"},
	KeyGitHubAppInstall: {"GITHUB_APP_INSTALLATION_ID"},
	KeyGitHubAppKeyPath: {"GITHUB_APP_PRIVATE_KEY_PATH"},

	KeyGitRepoURL:       {"GIT_REPO_URL"},
	KeyGitDefaultBranch: {"GIT_DEFAULT_BRANCH"},
	KeyGitLocalPath:     {"GIT_LOCAL_PATH"},

	KeyLogLevel:        {"ISSUEFLOW_LOG_LEVEL"},
	KeyLogFormat:       {"ISSUEFLOW_LOG_FORMAT"},
	KeyHTTPTimeout:     {"ISSUEFLOW_HTTP_TIMEOUT"},
	KeySlackWebhookURL: {"ISSUEFLOW_SLACK_WEBHOOK_URL"},
	KeyWebhookURL:      {"ISSUEFLOW_WEBHOOK_URL"},
}

// Defaults are the built-in values.
var Defaults = map[string]string{
	KeyJiraAuthType:     "api_token",
	KeyJiraAPIVersion:   "v3",
	KeyGitDefaultBranch: "main",
	KeyGitLocalPath:     ".",
	KeyLogLevel:         "info",
	KeyLogFormat:        "json",
	KeyHTTPTimeout:      "30s",
}

// Application file locations.
const (
	AppDir        = "issueflow"
	LocalFileName = ".issueflow.yaml"
)

// ResolverSettings returns the resolver configuration for issueflow.
func ResolverSettings() ResolverConfig {
	return ResolverConfig{
		EnvNames:        EnvNames,
		GlobalConfigDir: AppDir,
		LocalConfigName: LocalFileName,
		Defaults:        Defaults,
		ValidKeys:       Keys,
	}
}
