package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/config"
	"github.com/randalmurphal/issueflow/logging"
	"github.com/randalmurphal/issueflow/tools"
	"github.com/randalmurphal/issueflow/workflow"
)

func newToolsCmd() *cobra.Command {
	var asJSON, asMarkdown bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Listing never touches the network, so it works unconfigured.
			log := logging.Discard()
			reg := tools.New(workflow.New(config.Config{}, workflow.WithLogger(log)), tools.WithLogger(log))
			out := cmd.OutOrStdout()

			switch {
			case asMarkdown:
				_, err := fmt.Fprint(out, reg.Reference())
				return err
			case asJSON:
				type entry struct {
					Name        string         `json:"name"`
					Description string         `json:"description"`
					InputSchema map[string]any `json:"inputSchema"`
				}
				var list []entry
				for _, t := range reg.Tools() {
					list = append(list, entry{Name: t.Name, Description: t.Description, InputSchema: t.Schema()})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, t := range reg.Tools() {
				fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print names, descriptions and input schemas as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "print the Markdown tool reference")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	return cmd
}
