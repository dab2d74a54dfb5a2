package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/store"
	"github.com/jorujes/transcriberio/internal/translate"
)

// supportedFormats lists the input extensions the pipeline accepts. Video
// formats get an audio extraction pass before transcription.
var supportedFormats = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
}

// deriveOutputPath converts an audio file path to a transcript path.
// Example: "talk.mp3" -> "talk.txt"
func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".txt"
}

// TranscribeCmd creates the transcribe command.
func TranscribeCmd(env *Env) *cobra.Command {
	var (
		output   string
		model    string
		language string
		prompt   string
		keepTemp bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-id-or-file>",
		Short: "Transcribe a downloaded audio or a local file",
		Long: `Transcribe an audio or video file to plain text.

The input is either an ID from the local catalog (see the download and list
commands) or a path to a local file. Oversized or long inputs are compressed
and split automatically to fit the transcription API's limits.`,
		Example: `  transcriberio transcribe audio_3fa4bc91
  transcriberio transcribe talk.mp3 -o talk-transcript.txt
  transcriberio transcribe lecture.mp4 -l en -m whisper-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, env, args[0], output, model, language, prompt, keepTemp, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Transcript file path (default: <input>.txt)")
	cmd.Flags().StringVarP(&model, "model", "m", provider.DefaultTranscriptionModel, "Transcription model")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Audio language (ISO 639-1 code, e.g. en, pt-BR)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Context text to bias the model's vocabulary")
	cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the run's temp directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the output file if it exists")

	return cmd
}

// runTranscribe executes the transcription pipeline.
// Validation order: input -> format -> output -> language -> model.
func runTranscribe(cmd *cobra.Command, env *Env, input, output, model, language, prompt string, keepTemp, force bool) error {
	ctx := cmd.Context()

	model = configDefault(cmd, "model", config.KeyModel, model)
	language = configDefault(cmd, "language", config.KeyLanguage, language)

	st, err := env.OpenStore()
	if err != nil {
		return err
	}

	// An argument that resolves in the catalog wins; otherwise it is a path.
	var entry *store.Entry
	inputPath := input
	if e, err := st.Get(input); err == nil {
		entry = &e
		inputPath = e.FilePath
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%s: %w", inputPath, ErrFileNotFound)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); !supportedFormats[ext] {
		return fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}

	if output == "" {
		output = deriveOutputPath(inputPath)
	}
	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("%s: %w (use --force to overwrite)", output, ErrOutputExists)
	}

	if language != "" {
		language = lang.Normalize(language)
		if err := lang.Validate(language); err != nil {
			return err
		}
		// The audio endpoints take base codes only; pt-BR becomes pt.
		language = lang.BaseCode(language)
	}
	if _, err := provider.ProviderFor(model); err != nil {
		return fmt.Errorf("%w: %s (supported: %s)",
			ErrUnknownModel, model, strings.Join(provider.SupportedModels(""), ", "))
	}

	pipeline, err := env.Pipelines.NewPipeline(env, PipelineParams{
		Model:    model,
		Language: language,
		Prompt:   prompt,
		KeepTemp: keepTemp,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Transcribing %s with %s...\n", filepath.Base(inputPath), model)
	res := pipeline.Run(ctx, inputPath)
	if !res.Success {
		return fmt.Errorf("transcription failed: %w", res.Err)
	}

	if err := os.WriteFile(output, []byte(res.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	if entry != nil {
		t := store.Transcript{
			Language:  res.Language,
			Path:      output,
			Words:     translate.WordCount(res.Text),
			CreatedAt: env.Now(),
		}
		if err := st.AddTranscript(entry.ID, t); err != nil {
			fmt.Fprintf(env.Stderr, "Warning: failed to record transcript in catalog: %v\n", err)
		}
	}

	fmt.Fprintf(env.Stderr, "Done in %s (optimization: %s, segments: %d",
		res.Elapsed.Round(time.Second), res.Optimization, res.Units)
	if res.FailedUnits > 0 {
		fmt.Fprintf(env.Stderr, ", failed: %d", res.FailedUnits)
	}
	fmt.Fprintln(env.Stderr, ")")
	fmt.Fprintf(env.Stdout, "Transcript: %s (%d words)\n", output, translate.WordCount(res.Text))
	return nil
}
