package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/download"
	"github.com/jorujes/transcriberio/internal/format"
)

// ValidateCmd creates the validate command.
func ValidateCmd(env *Env) *cobra.Command {
	var showInfo bool

	cmd := &cobra.Command{
		Use:   "validate <youtube-url>",
		Short: "Check a YouTube URL and optionally show video metadata",
		Example: `  transcriberio validate https://youtu.be/dQw4w9WgXcQ
  transcriberio validate https://www.youtube.com/shorts/abc12345678 --info`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, env, args[0], showInfo)
		},
	}

	cmd.Flags().BoolVar(&showInfo, "info", false, "Fetch and print video metadata")

	return cmd
}

func runValidate(cmd *cobra.Command, env *Env, url string, showInfo bool) error {
	videoID, err := download.ExtractVideoID(url)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Valid YouTube URL (video ID: %s)\n", videoID)

	if !showInfo {
		return nil
	}

	dl, err := env.Downloaders.NewDownloader()
	if err != nil {
		return err
	}
	info, err := dl.Info(cmd.Context(), url)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Title:    %s\n", info.Title)
	fmt.Fprintf(env.Stdout, "Uploader: %s\n", info.Uploader)
	fmt.Fprintf(env.Stdout, "Duration: %s\n", format.Duration(info.Duration))
	if info.ViewCount > 0 {
		fmt.Fprintf(env.Stdout, "Views:    %d\n", info.ViewCount)
	}
	return nil
}
