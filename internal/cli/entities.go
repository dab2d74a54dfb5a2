package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/provider"
)

// readTranscript loads a transcript file, resolving catalog IDs to the
// entry's most recent transcript.
func readTranscript(env *Env, arg string) (string, string, error) {
	path := arg
	if st, err := env.OpenStore(); err == nil {
		if entry, err := st.Get(arg); err == nil {
			if len(entry.Transcripts) == 0 {
				return "", "", fmt.Errorf("%s has no transcripts: %w", arg, ErrFileNotFound)
			}
			path = entry.Transcripts[len(entry.Transcripts)-1].Path
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	return string(data), path, nil
}

// EntitiesCmd creates the entities command.
func EntitiesCmd(env *Env) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "entities <transcript-file-or-id>",
		Short: "List the people and places named in a transcript",
		Example: `  transcriberio entities talk.txt
  transcriberio entities audio_3fa4bc91`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(cmd, env, args[0], model)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", provider.DefaultTextModel, "Chat model for entity detection")

	return cmd
}

func runEntities(cmd *cobra.Command, env *Env, arg, model string) error {
	model = configDefault(cmd, "model", config.KeyTextModel, model)

	text, path, err := readTranscript(env, arg)
	if err != nil {
		return err
	}

	detector, err := env.Detectors.NewDetector(env, model)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Detecting entities in %s...\n", path)
	entities, err := detector.Detect(cmd.Context(), text)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		fmt.Fprintln(env.Stdout, "No entities found.")
		return nil
	}

	for _, e := range entities {
		fmt.Fprintf(env.Stdout, "%-10s %s\n", e.Type, e.Name)
	}
	fmt.Fprintf(env.Stdout, "\n%d entities found.\n", len(entities))
	return nil
}
