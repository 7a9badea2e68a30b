// Package config resolves issueflow's settings and loads them into an
// immutable Config.
//
// Values are layered, highest priority first:
//  1. Command-line flags
//  2. Environment variables (JIRA_API_TOKEN, GITHUB_TOKEN, ...; see EnvNames)
//  3. Local config (.issueflow.yaml in the git root)
//  4. Global config (~/.config/issueflow/config.yaml)
//  5. Built-in defaults
//
// # Basic Usage
//
//	resolver := config.NewResolver(config.ResolverSettings(), ".")
//	cfg, err := config.Load(resolver.Resolve())
//	if err != nil {
//	    return err
//	}
//	if err := cfg.RequireTracker(); err != nil {
//	    return err // ConfigurationError naming every missing key
//	}
//
// Each resolved value tracks where it came from (default, global, local,
// env, flag), which `issueflow config show` prints alongside masked secrets.
//
// # Saving
//
// SaveConfig writes single keys for `issueflow config set`. Credentials may
// only be saved to the global file, which is created 0600.
package config
