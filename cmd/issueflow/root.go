package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/config"
	"github.com/randalmurphal/issueflow/logging"
	"github.com/randalmurphal/issueflow/mcpserver"
	"github.com/randalmurphal/issueflow/notify"
	"github.com/randalmurphal/issueflow/tools"
	"github.com/randalmurphal/issueflow/workflow"
)

// errActionFailed is returned after a failed envelope was already printed.
var errActionFailed = errors.New("action failed")

// app holds state shared by every command.
type app struct {
	out    io.Writer
	errOut io.Writer

	// Flag overrides, keyed by config key.
	flags map[string]*string

	resolver *config.Resolver
	resolved *config.Resolved
	cfg      *config.Config
	logger   *logging.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		out:    out,
		errOut: errOut,
		flags:  make(map[string]*string),
	}

	root := &cobra.Command{
		Use:   "issueflow",
		Short: "Jira and GitHub/GitLab workflow tools for AI agents",
		Long: `issueflow exposes issue tracker and source host actions as MCP tools:
fetch, search and transition Jira issues, create branches, commit and push,
open and merge pull requests.

Configuration comes from ~/.config/issueflow/config.yaml, .issueflow.yaml at
the git root, environment variables, and flags, in increasing priority.`,
		Version:       mcpserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	a.flags[config.KeyLogLevel] = pf.String("log-level", "", "log level: debug, info, warn, error")
	a.flags[config.KeyLogFormat] = pf.String("log-format", "", "log format: json or console")
	a.flags[config.KeyGitLocalPath] = pf.String("local-path", "", "local repository path")
	a.flags[config.KeyGitRepoURL] = pf.String("repo-url", "", "repository URL (defaults to the origin remote)")

	root.AddCommand(
		newServeCmd(a),
		newCallCmd(a),
		newToolsCmd(),
		newConfigCmd(a),
		newIssuesCmd(a),
	)
	return root
}

// resolve loads layered configuration without validating it.
func (a *app) resolve() *config.Resolved {
	if a.resolved != nil {
		return a.resolved
	}

	settings := config.ResolverSettings()
	settings.ErrWriter = a.errOut

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	a.resolver = config.NewResolver(settings, cwd)

	flags := make(map[string]string, len(a.flags))
	for key, v := range a.flags {
		flags[key] = *v
	}
	a.resolved = a.resolver.ResolveWithFlags(flags)
	return a.resolved
}

// load validates configuration and builds the logger.
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.resolve())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: a.errOut,
		Name:   "issueflow",
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// registry builds the orchestrator and the tool registry over it.
func (a *app) registry() (*tools.Registry, error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	log := a.logger.Logger
	o := workflow.New(*a.cfg,
		workflow.WithLogger(log),
		workflow.WithNotifier(notify.FromConfig(a.cfg.Notify, log)),
	)
	return tools.New(o, tools.WithLogger(log)), nil
}

// promptDirs returns override directories for prompt templates.
func (a *app) promptDirs() []string {
	var dirs []string
	if root := a.resolver.GitRoot(); root != "" {
		dirs = append(dirs, filepath.Join(root, ".issueflow", "prompts"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", config.AppDir, "prompts"))
	}
	return dirs
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
