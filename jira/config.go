package jira

import (
	"time"
)

// APIVersion represents the Jira REST API version.
type APIVersion string

// API versions.
const (
	APIVersionV2 APIVersion = "v2" // Server/DC: plain-text rich fields
	APIVersionV3 APIVersion = "v3" // Cloud: ADF rich fields
)

// AuthType represents the type of authentication to use.
type AuthType string

// Authentication types supported by the Jira client.
const (
	AuthAPIToken AuthType = "api_token" // Cloud: email + API token
	AuthBasic    AuthType = "basic"     // Server: username + password
	AuthPAT      AuthType = "pat"       // Server/DC: Personal Access Token
)

// Config holds the configuration for the Jira client.
type Config struct {
	// URL is the base URL of the Jira instance.
	// For Cloud: https://your-domain.atlassian.net
	URL string

	// APIVersion specifies which API version to use. Defaults to v3.
	APIVersion APIVersion

	// Auth contains authentication configuration.
	Auth AuthConfig

	// Timeout is the request timeout. Defaults to 30s.
	Timeout time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Type is the authentication method to use.
	Type AuthType

	// Email is required for api_token auth (Cloud).
	Email string

	// Token is the API token (Cloud) or PAT (Server/DC).
	Token string

	// Username and Password are required for basic auth.
	Username string
	Password string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersionV3,
		Auth:       AuthConfig{Type: AuthAPIToken},
		Timeout:    30 * time.Second,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigURLRequired
	}

	switch c.Auth.Type {
	case "":
		return ErrConfigAuthTypeRequired
	case AuthAPIToken:
		if c.Auth.Email == "" || c.Auth.Token == "" {
			return ErrConfigAPITokenAuth
		}
	case AuthBasic:
		if c.Auth.Username == "" || c.Auth.Password == "" {
			return ErrConfigBasicAuth
		}
	case AuthPAT:
		if c.Auth.Token == "" {
			return ErrConfigPATAuth
		}
	default:
		return ErrConfigAuthTypeInvalid
	}

	if c.APIVersion != "" && c.APIVersion != APIVersionV2 && c.APIVersion != APIVersionV3 {
		return ErrConfigAPIVersionInvalid
	}

	return nil
}

// GetAPIVersion returns the effective API version.
func (c *Config) GetAPIVersion() APIVersion {
	if c.APIVersion == "" {
		return APIVersionV3
	}
	return c.APIVersion
}
