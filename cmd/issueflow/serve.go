package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/mcpserver"
	"github.com/randalmurphal/issueflow/prompt"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP on stdio",
		Long: `Serve the workflow tools, the dev_workflow_guide prompt and the
guide://workflow, docs://api and issue://current resources over MCP on
stdin/stdout.

Logs go to stderr. Prompt templates can be overridden by files in
.issueflow/prompts at the git root or ~/.config/issueflow/prompts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			defer a.sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := mcpserver.New(reg, mcpserver.Options{
				Prompts:       prompt.NewLoader(a.promptDirs()...),
				CurrentBranch: a.currentBranch,
				Logger:        a.logger.Logger,
			})
			return mcpserver.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger.Logger)
		},
	}
}

// currentBranch reads the checked-out branch of the configured local
// repository on every call, so the current issue follows checkouts.
func (a *app) currentBranch(ctx context.Context) (string, error) {
	repo, err := git.Open(ctx, a.cfg.Git.LocalPath)
	if err != nil {
		return "", err
	}
	return repo.CurrentBranch(ctx)
}
