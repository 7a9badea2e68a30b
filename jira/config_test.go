package jira

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIVersion != APIVersionV3 {
		t.Errorf("APIVersion = %v, want %v", cfg.APIVersion, APIVersionV3)
	}
	if cfg.Auth.Type != AuthAPIToken {
		t.Errorf("Auth.Type = %v, want %v", cfg.Auth.Type, AuthAPIToken)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, 30*time.Second)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid api_token config",
			config: Config{
				URL:  "https://example.atlassian.net",
				Auth: AuthConfig{Type: AuthAPIToken, Email: "user@example.com", Token: "api-token"},
			},
		},
		{
			name: "valid basic auth config",
			config: Config{
				URL:  "https://jira.example.com",
				Auth: AuthConfig{Type: AuthBasic, Username: "admin", Password: "secret"},
			},
		},
		{
			name: "valid PAT config",
			config: Config{
				URL:        "https://jira.example.com",
				APIVersion: APIVersionV2,
				Auth:       AuthConfig{Type: AuthPAT, Token: "pat"},
			},
		},
		{
			name:    "missing URL",
			config:  Config{Auth: AuthConfig{Type: AuthPAT, Token: "pat"}},
			wantErr: ErrConfigURLRequired,
		},
		{
			name:    "missing auth type",
			config:  Config{URL: "https://x"},
			wantErr: ErrConfigAuthTypeRequired,
		},
		{
			name:    "api_token without email",
			config:  Config{URL: "https://x", Auth: AuthConfig{Type: AuthAPIToken, Token: "t"}},
			wantErr: ErrConfigAPITokenAuth,
		},
		{
			name:    "basic without password",
			config:  Config{URL: "https://x", Auth: AuthConfig{Type: AuthBasic, Username: "u"}},
			wantErr: ErrConfigBasicAuth,
		},
		{
			name:    "pat without token",
			config:  Config{URL: "https://x", Auth: AuthConfig{Type: AuthPAT}},
			wantErr: ErrConfigPATAuth,
		},
		{
			name:    "unknown auth type",
			config:  Config{URL: "https://x", Auth: AuthConfig{Type: "kerberos"}},
			wantErr: ErrConfigAuthTypeInvalid,
		},
		{
			name: "bad api version",
			config: Config{
				URL:        "https://x",
				APIVersion: "v9",
				Auth:       AuthConfig{Type: AuthPAT, Token: "t"},
			},
			wantErr: ErrConfigAPIVersionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetAPIVersion(t *testing.T) {
	if got := (&Config{}).GetAPIVersion(); got != APIVersionV3 {
		t.Errorf("empty GetAPIVersion() = %v, want v3", got)
	}
	if got := (&Config{APIVersion: APIVersionV2}).GetAPIVersion(); got != APIVersionV2 {
		t.Errorf("GetAPIVersion() = %v, want v2", got)
	}
}
