package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jorujes/transcriberio/internal/download"
	"github.com/jorujes/transcriberio/internal/entity"
	"github.com/jorujes/transcriberio/internal/ffmpeg"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/media"
	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/store"
	"github.com/jorujes/transcriberio/internal/transcribe"
	"github.com/jorujes/transcriberio/internal/translate"
)

// EnvHome overrides the directory holding downloads and the catalog.
const EnvHome = "TRANSCRIBERIO_HOME"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests override
// specific fields using the With* options.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	Downloaders DownloaderFactory
	Pipelines   PipelineFactory
	Detectors   DetectorFactory
	Translators TranslatorFactory
	OpenStore   func() (*store.Store, error)
}

// DownloaderFactory creates YouTube audio downloaders.
type DownloaderFactory interface {
	NewDownloader() (Downloader, error)
}

// Downloader fetches YouTube video metadata and audio.
type Downloader interface {
	Info(ctx context.Context, url string) (*download.VideoInfo, error)
	Download(ctx context.Context, url, destDir, quality string) (string, error)
}

// PipelineParams configures a transcription pipeline run.
type PipelineParams struct {
	Model    string
	Language string
	Prompt   string
	KeepTemp bool
}

// PipelineFactory creates transcription pipelines.
type PipelineFactory interface {
	NewPipeline(env *Env, p PipelineParams) (Pipeline, error)
}

// Pipeline runs the full transcription flow for one input file.
type Pipeline interface {
	Run(ctx context.Context, input string) transcribe.Result
}

// DetectorFactory creates entity detectors bound to a chat model.
type DetectorFactory interface {
	NewDetector(env *Env, model string) (EntityDetector, error)
}

// EntityDetector finds proper names in a transcript.
type EntityDetector interface {
	Detect(ctx context.Context, text string) ([]entity.Entity, error)
}

// TranslatorFactory creates translators bound to a chat model.
type TranslatorFactory interface {
	NewTranslator(env *Env, model string) (TextTranslator, error)
}

// TextTranslator renders text into another language variant.
type TextTranslator interface {
	Translate(ctx context.Context, text string, target lang.Variant) (translate.Result, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the input reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) { e.Stdin = r }
}

// WithStdout sets the output writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) { e.Stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) { e.Now = fn }
}

// WithDownloaderFactory sets the downloader factory.
func WithDownloaderFactory(f DownloaderFactory) EnvOption {
	return func(e *Env) { e.Downloaders = f }
}

// WithPipelineFactory sets the pipeline factory.
func WithPipelineFactory(f PipelineFactory) EnvOption {
	return func(e *Env) { e.Pipelines = f }
}

// WithDetectorFactory sets the entity detector factory.
func WithDetectorFactory(f DetectorFactory) EnvOption {
	return func(e *Env) { e.Detectors = f }
}

// WithTranslatorFactory sets the translator factory.
func WithTranslatorFactory(f TranslatorFactory) EnvOption {
	return func(e *Env) { e.Translators = f }
}

// WithStoreOpener sets how the metadata catalog is opened.
func WithStoreOpener(fn func() (*store.Store, error)) EnvOption {
	return func(e *Env) { e.OpenStore = fn }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	e := &Env{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Now:         time.Now,
		Downloaders: &defaultDownloaderFactory{},
		Pipelines:   &defaultPipelineFactory{},
		Detectors:   &defaultDetectorFactory{},
		Translators: &defaultTranslatorFactory{},
	}
	e.OpenStore = func() (*store.Store, error) {
		dir, err := homeDir(e.Getenv)
		if err != nil {
			return nil, err
		}
		return store.NewStore(filepath.Join(dir, store.DefaultFileName)), nil
	}
	return e
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// homeDir returns the tool's data directory, creating it if needed.
func homeDir(getenv func(string) string) (string, error) {
	dir := getenv(EnvHome)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".transcriberio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// DownloadsDir returns the directory where audio files are stored.
func (e *Env) DownloadsDir() (string, error) {
	dir, err := homeDir(e.Getenv)
	if err != nil {
		return "", err
	}
	downloads := filepath.Join(dir, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}
	return downloads, nil
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultDownloaderFactory struct{}

func (defaultDownloaderFactory) NewDownloader() (Downloader, error) {
	return download.NewDownloader()
}

type defaultPipelineFactory struct{}

func (defaultPipelineFactory) NewPipeline(env *Env, p PipelineParams) (Pipeline, error) {
	client, err := provider.NewClientForModel(p.Model, provider.WithEnvReader(env.Getenv))
	if err != nil {
		return nil, err
	}

	tools, err := ffmpeg.NewResolver().Resolve()
	if err != nil {
		return nil, err
	}

	// Missing tools degrade, they do not abort: without a prober the
	// duration stays unknown, without a transcoder a file within the upload
	// limit still goes out directly. Install instructions surface only when
	// a run actually needs the missing tool.
	var prober media.Prober = media.Unavailable{}
	if p, perr := media.NewProber(tools, ffmpeg.NewExecutor()); perr == nil {
		prober = p
	}
	var transcoder media.Preprocessor = media.Unavailable{}
	if tools.HasFFmpeg() {
		t, terr := media.NewTranscoder(tools.FFmpeg)
		if terr != nil {
			return nil, terr
		}
		transcoder = t
	}

	var unitOpts []transcribe.APIOption
	if p.Language != "" {
		unitOpts = append(unitOpts, transcribe.WithLanguage(p.Language))
	}
	if p.Prompt != "" {
		unitOpts = append(unitOpts, transcribe.WithPrompt(p.Prompt))
	}
	units := transcribe.NewAPITranscriber(client, p.Model, unitOpts...)

	return transcribe.NewService(prober, transcoder, units, p.Model, p.Language,
		transcribe.WithKeepTemp(p.KeepTemp),
		transcribe.WithWarnWriter(env.Stderr),
	), nil
}

type defaultDetectorFactory struct{}

func (defaultDetectorFactory) NewDetector(env *Env, model string) (EntityDetector, error) {
	client, err := provider.NewClientForModel(model, provider.WithEnvReader(env.Getenv))
	if err != nil {
		return nil, err
	}
	return entity.NewDetector(client, model), nil
}

type defaultTranslatorFactory struct{}

func (defaultTranslatorFactory) NewTranslator(env *Env, model string) (TextTranslator, error) {
	client, err := provider.NewClientForModel(model, provider.WithEnvReader(env.Getenv))
	if err != nil {
		return nil, err
	}
	return translate.NewTranslator(client, model), nil
}
