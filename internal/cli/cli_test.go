package cli_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorujes/transcriberio/internal/cli"
	"github.com/jorujes/transcriberio/internal/download"
	"github.com/jorujes/transcriberio/internal/entity"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/transcribe"
	"github.com/jorujes/transcriberio/internal/translate"
)

// Most command tests pin XDG_CONFIG_HOME with t.Setenv so persisted config
// defaults cannot leak in, which rules out t.Parallel.

// testEnv wires an Env against temp directories and capture buffers.
type testEnv struct {
	env    *cli.Env
	home   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, opts ...cli.EnvOption) *testEnv {
	t.Helper()
	te := &testEnv{
		home:   t.TempDir(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	base := []cli.EnvOption{
		cli.WithStdout(te.stdout),
		cli.WithStderr(te.stderr),
		cli.WithGetenv(func(key string) string {
			if key == cli.EnvHome {
				return te.home
			}
			return ""
		}),
		cli.WithNow(func() time.Time {
			return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		}),
	}
	te.env = cli.NewEnv(append(base, opts...)...)
	return te
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Fakes for the Env factory interfaces
// ---------------------------------------------------------------------------

type fakeDownloader struct {
	info        *download.VideoInfo
	infoErr     error
	downloadErr error
	// onDownload creates the file a real yt-dlp run would leave behind.
	onDownload func(destDir string) string

	downloads []string // quality per Download call
}

func (f *fakeDownloader) Info(context.Context, string) (*download.VideoInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeDownloader) Download(_ context.Context, _, destDir, quality string) (string, error) {
	f.downloads = append(f.downloads, quality)
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return f.onDownload(destDir), nil
}

type fakeDownloaderFactory struct {
	dl  *fakeDownloader
	err error
}

func (f *fakeDownloaderFactory) NewDownloader() (cli.Downloader, error) {
	return f.dl, f.err
}

type fakePipeline struct {
	result transcribe.Result
	inputs []string
}

func (f *fakePipeline) Run(_ context.Context, input string) transcribe.Result {
	f.inputs = append(f.inputs, input)
	return f.result
}

type fakePipelineFactory struct {
	pipeline *fakePipeline
	params   []cli.PipelineParams
	err      error
}

func (f *fakePipelineFactory) NewPipeline(_ *cli.Env, p cli.PipelineParams) (cli.Pipeline, error) {
	f.params = append(f.params, p)
	return f.pipeline, f.err
}

type fakeDetector struct {
	entities []entity.Entity
	err      error
}

func (f *fakeDetector) Detect(context.Context, string) ([]entity.Entity, error) {
	return f.entities, f.err
}

type fakeDetectorFactory struct {
	detector *fakeDetector
	models   []string
}

func (f *fakeDetectorFactory) NewDetector(_ *cli.Env, model string) (cli.EntityDetector, error) {
	f.models = append(f.models, model)
	return f.detector, nil
}

type fakeTranslator struct {
	result  translate.Result
	err     error
	targets []lang.Variant
}

func (f *fakeTranslator) Translate(_ context.Context, _ string, target lang.Variant) (translate.Result, error) {
	f.targets = append(f.targets, target)
	return f.result, f.err
}

type fakeTranslatorFactory struct {
	translator *fakeTranslator
}

func (f *fakeTranslatorFactory) NewTranslator(*cli.Env, string) (cli.TextTranslator, error) {
	return f.translator, nil
}
