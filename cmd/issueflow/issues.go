package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/workflow"
)

func newIssuesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Query the issue tracker directly",
	}
	cmd.AddCommand(newIssuesMineCmd(a))
	return cmd
}

func newIssuesMineCmd(a *app) *cobra.Command {
	var (
		status    string
		issueType string
		limit     int
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List issues assigned to you",
		Long: `List issues assigned to the configured user, highest priority first.
With --all every page is fetched; otherwise at most --limit issues are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}
			if err := a.load(); err != nil {
				return err
			}
			defer a.sync()
			if err := a.cfg.RequireTracker(); err != nil {
				return err
			}

			client, err := jira.NewClient(a.cfg.JiraClientConfig(), jira.WithLogger(a.logger.Logger))
			if err != nil {
				return err
			}

			pageSize := min(limit, jira.MaxSearchResults)
			if all {
				pageSize = jira.MaxSearchResults
			}
			it := client.SearchAll(jira.MyIssuesQuery(status, issueType), jira.ListPreset, pageSize)

			var issues []*jira.Issue
			if all {
				issues, err = it.All(cmd.Context())
			} else {
				issues, err = it.Take(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSTATUS\tPRIORITY\tSUMMARY")
			for _, issue := range issues {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", issue.Key, deref(issue.Status), deref(issue.Priority), deref(issue.Summary))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d issues in %d pages\n", len(issues), it.Pages())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&status, "status", "", "only issues in this status")
	f.StringVar(&issueType, "type", "", "only issues of this type")
	f.IntVar(&limit, "limit", workflow.DefaultMyIssues, "maximum issues to show without --all")
	f.BoolVar(&all, "all", false, "fetch every page")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
