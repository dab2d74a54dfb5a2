package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/format"
)

// InfoCmd creates the info command.
func InfoCmd(env *Env) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "info <audio-id>",
		Short: "Show a catalog entry's details",
		Example: `  transcriberio info audio_3fa4bc91
  transcriberio info audio_3fa4bc91 --remove`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(env, args[0], remove)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the entry and its audio file")

	return cmd
}

func runInfo(env *Env, id string, remove bool) error {
	st, err := env.OpenStore()
	if err != nil {
		return err
	}
	entry, err := st.Get(id)
	if err != nil {
		return err
	}

	if remove {
		if err := st.Remove(id, true); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Removed %s.\n", id)
		return nil
	}

	fmt.Fprintf(env.Stdout, "ID:         %s\n", entry.ID)
	fmt.Fprintf(env.Stdout, "Title:      %s\n", entry.Title)
	fmt.Fprintf(env.Stdout, "Uploader:   %s\n", entry.Uploader)
	fmt.Fprintf(env.Stdout, "URL:        %s\n", entry.URL)
	fmt.Fprintf(env.Stdout, "Duration:   %s\n", format.Duration(entry.Duration()))
	fmt.Fprintf(env.Stdout, "Size:       %s\n", format.Size(entry.SizeBytes))
	fmt.Fprintf(env.Stdout, "Quality:    %s\n", entry.Quality)
	fmt.Fprintf(env.Stdout, "File:       %s\n", entry.FilePath)
	fmt.Fprintf(env.Stdout, "Downloaded: %s\n", entry.DownloadedAt.Format("2006-01-02 15:04"))

	for _, t := range entry.Transcripts {
		fmt.Fprintf(env.Stdout, "Transcript: %s (%s, %d words)\n", t.Path, t.Language, t.Words)
	}
	return nil
}
