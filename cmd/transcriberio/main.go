package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/apierr"
	"github.com/jorujes/transcriberio/internal/cli"
	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/download"
	"github.com/jorujes/transcriberio/internal/entity"
	"github.com/jorujes/transcriberio/internal/ffmpeg"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/store"
	"github.com/jorujes/transcriberio/internal/transcribe"
	"github.com/jorujes/transcriberio/internal/translate"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitUsage         = 2
	ExitSetup         = 3
	ExitValidation    = 4
	ExitTranscription = 5
	ExitInterrupt     = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	// Root command.
	rootCmd := &cobra.Command{
		Use:     "transcriberio",
		Short:   "Download, transcribe, and translate YouTube audio",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Subcommands.
	rootCmd.AddCommand(cli.DownloadCmd(env))
	rootCmd.AddCommand(cli.ValidateCmd(env))
	rootCmd.AddCommand(cli.TranscribeCmd(env))
	rootCmd.AddCommand(cli.EntitiesCmd(env))
	rootCmd.AddCommand(cli.ReviewCmd(env))
	rootCmd.AddCommand(cli.TranslateCmd(env))
	rootCmd.AddCommand(cli.ListCmd(env))
	rootCmd.AddCommand(cli.InfoCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupts: Ctrl+C and an aborted review both end the run on the
	// user's terms.
	if errors.Is(err, context.Canceled) || errors.Is(err, entity.ErrReviewAborted) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3): missing tools or credentials.
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, ffmpeg.ErrProbeNotFound) ||
		errors.Is(err, download.ErrNotFound) || errors.Is(err, provider.ErrAPIKeyMissing) ||
		errors.Is(err, provider.ErrUnsupportedProvider) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4): bad user input.
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrUnsupportedFormat) ||
		errors.Is(err, cli.ErrOutputExists) || errors.Is(err, cli.ErrUnknownModel) ||
		errors.Is(err, cli.ErrUnknownQuality) || errors.Is(err, cli.ErrNoSelection) ||
		errors.Is(err, lang.ErrInvalid) || errors.Is(err, download.ErrInvalidURL) ||
		errors.Is(err, provider.ErrUnsupportedModel) || errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, config.ErrUnknownKey) {
		return ExitValidation
	}

	// API errors (ExitTranscription = 5).
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrServer) || errors.Is(err, apierr.ErrConnection) ||
		errors.Is(err, transcribe.ErrAllUnitsFailed) || errors.Is(err, transcribe.ErrEmptyTranscript) ||
		errors.Is(err, translate.ErrAllChunksFailed) {
		return ExitTranscription
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate
// Cobra usage errors. Cobra doesn't expose typed errors, so string matching
// is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
