package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change configuration",
		Long: "Keys: " + strings.Join(config.Keys, ", ") + `

Values are resolved from defaults, ~/.config/issueflow/config.yaml,
.issueflow.yaml at the git root, environment variables and flags, in
increasing priority.`,
	}
	cmd.AddCommand(
		newConfigGetCmd(a),
		newConfigSetCmd(a),
		newConfigUnsetCmd(),
		newConfigShowCmd(a),
	)
	return cmd
}

func validKey(key string) error {
	if !slices.Contains(config.Keys, key) {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(config.Keys, ", "))
	}
	return nil
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the resolved value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validKey(key); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.resolve().Get(key))
			return err
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a key to the global config file, or the local one with --local",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			saver := config.SaveSettings()

			if local {
				a.resolve()
				if err := saver.SaveLocal(a.resolver.GitRoot(), key, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, a.resolver.LocalPath())
				return nil
			}

			if err := saver.SaveGlobal(key, value); err != nil {
				return err
			}
			path, _ := saver.GlobalPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "write .issueflow.yaml at the git root (credentials are refused)")
	return cmd
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key from the global config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validKey(args[0]); err != nil {
				return err
			}
			return config.SaveSettings().DeleteGlobalKey(args[0])
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every key with its value and source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved := a.resolve()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, key := range config.Keys {
				value, source := resolved.GetWithSource(key)
				if value == "" {
					fmt.Fprintf(tw, "%s\t-\t-\n", key)
					continue
				}
				if config.IsSecret(key) && !reveal {
					value = config.Mask(value)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, value, source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if _, err := config.Load(resolved); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print credentials unmasked")
	return cmd
}
