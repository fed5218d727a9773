package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"vidtrim/domain/video"

	"github.com/rs/zerolog"
)

// InstallURL is shown when ffmpeg cannot be found
const InstallURL = "https://ffmpeg.org/download.html"

// Trimmer implements video.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	encoding   Encoding
	runner     CommandRunner
	logger     zerolog.Logger
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithEncoding sets the re-encode codecs and log level
func WithEncoding(enc Encoding) TrimmerOption {
	return func(t *Trimmer) {
		t.encoding = enc.withDefaults()
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(logger zerolog.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = logger
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		encoding:   DefaultEncoding(),
		runner:     &ExecCommandRunner{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Command implements video.Trimmer
func (t *Trimmer) Command(plan video.TrimPlan) (string, []string) {
	return t.ffmpegPath, BuildArgs(plan, t.encoding)
}

// Trim implements video.Trimmer. It runs ffmpeg once and never retries; on
// failure the partial output is left on disk.
func (t *Trimmer) Trim(ctx context.Context, plan video.TrimPlan) (string, error) {
	name, args := t.Command(plan)

	t.logger.Debug().
		Str("binary", name).
		Strs("args", args).
		Str("mode", plan.Mode.String()).
		Msg("running ffmpeg")

	res, err := t.runner.Run(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("%w: running %s: %v", video.ErrUnexpectedFailure, name, err)
	}

	t.logger.Debug().Int("exit_code", res.ExitCode).Msg("ffmpeg finished")

	if res.ExitCode != 0 {
		return "", &video.ToolError{
			Tool:       "ffmpeg",
			ExitCode:   res.ExitCode,
			Diagnostic: res.Diagnostic(),
		}
	}

	return plan.OutputPath, nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	return verify(ctx, t.runner, t.ffmpegPath)
}

func verify(ctx context.Context, runner CommandRunner, binary string) error {
	res, err := runner.Run(ctx, binary, "-version")
	if err != nil {
		return fmt.Errorf("%w: %s not found or not executable (install from %s): %v",
			video.ErrExternalToolFailure, binary, InstallURL, err)
	}
	if res.ExitCode != 0 {
		return &video.ToolError{
			Tool:       binary,
			ExitCode:   res.ExitCode,
			Diagnostic: strings.TrimSpace(res.Diagnostic()),
		}
	}
	return nil
}

// Ensure Trimmer implements video.Trimmer
var _ video.Trimmer = (*Trimmer)(nil)
