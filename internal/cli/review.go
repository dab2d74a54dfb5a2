package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/entity"
	"github.com/jorujes/transcriberio/internal/provider"
)

// ReviewCmd creates the review command.
func ReviewCmd(env *Env) *cobra.Command {
	var (
		model  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "review <transcript-file-or-id>",
		Short: "Interactively fix misheard names in a transcript",
		Long: `Detect the people and places named in a transcript, then walk through
them one by one. Each name can be kept, replaced with the correct spelling,
or skipped. Replacements rewrite every whole-word occurrence.`,
		Example: `  transcriberio review talk.txt
  transcriberio review audio_3fa4bc91 -o talk-fixed.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, env, args[0], model, output)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", provider.DefaultTextModel, "Chat model for entity detection")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Reviewed transcript path (default: <input>_reviewed.txt)")

	return cmd
}

func runReview(cmd *cobra.Command, env *Env, arg, model, output string) error {
	model = configDefault(cmd, "model", config.KeyTextModel, model)

	text, path, err := readTranscript(env, arg)
	if err != nil {
		return err
	}
	if output == "" {
		ext := filepath.Ext(path)
		output = strings.TrimSuffix(path, ext) + "_reviewed" + ext
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
		fmt.Fprintln(env.Stdout, "No entities found, nothing to review.")
		return nil
	}

	reviewer := entity.NewReviewer(env.Stdin, env.Stdout)
	outcome, err := reviewer.Review(entities, text)
	if err != nil {
		return err
	}
	if len(outcome.Replacements) == 0 {
		fmt.Fprintln(env.Stdout, "\nNo replacements made.")
		return nil
	}

	if err := os.WriteFile(output, []byte(outcome.Text), 0o644); err != nil {
		return fmt.Errorf("write reviewed transcript: %w", err)
	}

	fmt.Fprintf(env.Stdout, "\n%d replacement(s) applied, %d kept, %d skipped.\n",
		len(outcome.Replacements), outcome.Kept, outcome.Skipped)
	fmt.Fprintf(env.Stdout, "Reviewed transcript: %s\n", output)
	return nil
}
