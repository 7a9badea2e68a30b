package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCallCmd(a *app) *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <action>",
		Short: "Run one action and print its result envelope",
		Example: `  issueflow call get_issue --args '{"issue_key":"KAN-42"}'
  issueflow call merge_pull_request --args '{"pr_number":123,"check_status":true}'
  echo '{"query":"project = KAN"}' | issueflow call search_issues --args -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			defer a.sync()

			payload := []byte(rawArgs)
			if rawArgs == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read arguments: %w", err)
				}
			}

			res := reg.Invoke(cmd.Context(), args[0], json.RawMessage(payload))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if !res.Success {
				return errActionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "action arguments as a JSON object, or - to read stdin")
	return cmd
}
