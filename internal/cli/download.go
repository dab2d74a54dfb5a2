package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/config"
	"github.com/jorujes/transcriberio/internal/download"
	"github.com/jorujes/transcriberio/internal/format"
	"github.com/jorujes/transcriberio/internal/store"
)

// validQualities guards the --quality flag.
var validQualities = map[string]bool{
	download.QualityBest:   true,
	download.QualityMedium: true,
	download.QualityWorst:  true,
}

// DownloadCmd creates the download command.
func DownloadCmd(env *Env) *cobra.Command {
	var quality string

	cmd := &cobra.Command{
		Use:   "download <youtube-url>",
		Short: "Download a YouTube video's audio as mp3",
		Long: `Download a YouTube video's audio track as mp3 and register it in the
local catalog under a short ID. The ID is what the other commands take.`,
		Example: `  transcriberio download https://www.youtube.com/watch?v=dQw4w9WgXcQ
  transcriberio download https://youtu.be/dQw4w9WgXcQ -q medium`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, env, args[0], quality)
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", download.QualityBest,
		"Audio quality: best (320k), medium (192k), worst (128k)")

	return cmd
}

func runDownload(cmd *cobra.Command, env *Env, url, quality string) error {
	ctx := cmd.Context()

	quality = configDefault(cmd, "quality", config.KeyQuality, quality)
	if !validQualities[quality] {
		return fmt.Errorf("%q: %w (use best, medium, or worst)", quality, ErrUnknownQuality)
	}
	videoID, err := download.ExtractVideoID(url)
	if err != nil {
		return err
	}

	dl, err := env.Downloaders.NewDownloader()
	if err != nil {
		return err
	}
	st, err := env.OpenStore()
	if err != nil {
		return err
	}
	destDir, err := env.DownloadsDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Fetching video info for %s...\n", videoID)
	info, err := dl.Info(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Downloading %q (%s)...\n", info.Title, format.Duration(info.Duration))

	path, err := dl.Download(ctx, url, destDir, quality)
	if err != nil {
		return err
	}

	var sizeBytes int64
	if fi, err := os.Stat(path); err == nil {
		sizeBytes = fi.Size()
	}

	entry, err := st.Add(store.Entry{
		VideoID:         info.ID,
		URL:             url,
		Title:           info.Title,
		Uploader:        info.Uploader,
		DurationSeconds: info.Duration.Seconds(),
		FilePath:        path,
		SizeBytes:       sizeBytes,
		Quality:         quality,
		DownloadedAt:    env.Now(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Downloaded: %s (%s)\n", entry.ID, format.Size(sizeBytes))
	fmt.Fprintf(env.Stdout, "File: %s\n", path)
	return nil
}
