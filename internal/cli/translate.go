package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/translate"
)

// TranslateCmd creates the translate command.
func TranslateCmd(env *Env) *cobra.Command {
	var (
		model  string
		target string
		output string
	)

	cmd := &cobra.Command{
		Use:   "translate <transcript-file-or-id>",
		Short: "Translate a transcript into another language",
		Long: `Translate a transcript into one of the supported language variants,
favoring idiomatic phrasing over literal translation. Without --to, the
supported variants are listed and one can be picked interactively.`,
		Example: `  transcriberio translate talk.txt --to pt-BR
  transcriberio translate audio_3fa4bc91 --to es-MX -o charla.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, env, args[0], model, target, output)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", provider.DefaultTextModel, "Chat model for translation")
	cmd.Flags().StringVar(&target, "to", "", "Target language variant (e.g. pt-BR, en-US)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Translated file path (default: <input>_<lang>.txt)")

	return cmd
}

func runTranslate(cmd *cobra.Command, env *Env, arg, model, target, output string) error {
	model = configDefault(cmd, "model", config.KeyTextModel, model)

	text, path, err := readTranscript(env, arg)
	if err != nil {
		return err
	}

	var variant lang.Variant
	if target == "" {
		variant, err = pickVariant(env)
		if err != nil {
			return err
		}
	} else {
		v, ok := lang.FindVariant(lang.Normalize(target))
		if !ok {
			return fmt.Errorf("%s: %w (supported: %s)", target, lang.ErrInvalid, variantCodes())
		}
		variant = v
	}

	if output == "" {
		output = translate.OutputPath(path, variant.Code)
	}

	translator, err := env.Translators.NewTranslator(env, model)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Translating %s into %s...\n", path, variant.DisplayName())
	res, err := translator.Translate(cmd.Context(), text, variant)
	if err != nil {
		return err
	}
	if res.FailedChunks > 0 {
		fmt.Fprintf(env.Stderr, "Warning: %d of %d chunks kept in the source language\n",
			res.FailedChunks, res.Chunks)
	}

	if err := os.WriteFile(output, []byte(res.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write translation: %w", err)
	}

	fmt.Fprintf(env.Stdout, "Translated: %s (%d -> %d words)\n", output, res.SourceWords, res.TargetWords)
	return nil
}

// pickVariant shows a numbered list of language variants and reads a choice.
func pickVariant(env *Env) (lang.Variant, error) {
	variants := lang.Variants()
	for i, v := range variants {
		fmt.Fprintf(env.Stdout, "%2d. %s (%s)\n", i+1, v.DisplayName(), v.Code)
	}
	fmt.Fprintf(env.Stdout, "Target language [1-%d]: ", len(variants))

	line, err := bufio.NewReader(env.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return lang.Variant{}, ErrNoSelection
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(variants) {
		return lang.Variant{}, fmt.Errorf("%q: %w", strings.TrimSpace(line), ErrNoSelection)
	}
	return variants[n-1], nil
}

func variantCodes() string {
	variants := lang.Variants()
	codes := make([]string, len(variants))
	for i, v := range variants {
		codes[i] = v.Code
	}
	return strings.Join(codes, ", ")
}
