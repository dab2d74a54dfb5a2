package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListCmd creates the list command.
func ListCmd(env *Env) *cobra.Command {
	var (
		search  string
		cleanup bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded audio files",
		Example: `  transcriberio list
  transcriberio list -s lecture
  transcriberio list --cleanup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(env, search, cleanup)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by ID, title, or uploader")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Drop entries whose audio file is gone")

	return cmd
}

func runList(env *Env, search string, cleanup bool) error {
	st, err := env.OpenStore()
	if err != nil {
		return err
	}

	if cleanup {
		removed, err := st.CleanupOrphans()
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Removed %d orphaned entries.\n", len(removed))
	}

	entries, err := st.List()
	if err != nil {
		return err
	}
	if search != "" {
		entries, err = st.Search(search)
		if err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		fmt.Fprintln(env.Stdout, "No entries.")
		return nil
	}

	printEntries(env.Stdout, entries)
	return nil
}
