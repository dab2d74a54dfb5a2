package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
)

// ConfigCmd creates the config command and its subcommands.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set persisted defaults",
		Long: fmt.Sprintf(`Persist defaults so they don't have to be passed as flags on every run.

Valid keys: %s`, strings.Join(config.Keys(), ", ")),
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(env.Stderr, "Set %s=%s\n", args[0], args[1])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print all config values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.List()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(env.Stdout, "%s=%s\n", k, values[k])
			}
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}

// configDefault returns the persisted value for key when the user did not
// pass the flag, otherwise the flag's value.
func configDefault(cmd *cobra.Command, flagName, key, flagValue string) string {
	if cmd.Flags().Changed(flagName) {
		return flagValue
	}
	if stored, err := config.Get(key); err == nil && stored != "" {
		return stored
	}
	return flagValue
}
