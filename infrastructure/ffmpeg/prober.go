package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidtrim/domain/video"

	"github.com/rs/zerolog"
)

// Prober implements video.DurationProber using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
	logger      zerolog.Logger
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// WithProberLogger sets the logger used for probe tracing
func WithProberLogger(logger zerolog.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a new ffprobe-based duration prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// probeOutput matches the subset of ffprobe JSON we read
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration implements video.DurationProber
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	}

	res, err := p.runner.Run(ctx, p.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: running %s: %v", video.ErrUnexpectedFailure, p.ffprobePath, err)
	}
	if res.ExitCode != 0 {
		return 0, &video.ToolError{
			Tool:       "ffprobe",
			ExitCode:   res.ExitCode,
			Diagnostic: res.Diagnostic(),
		}
	}

	duration, err := parseDuration(res.Stdout)
	if err != nil {
		return 0, fmt.Errorf("reading duration of %s: %w", path, err)
	}

	p.logger.Debug().Str("path", path).Float64("duration", duration).Msg("probed duration")
	return duration, nil
}

func parseDuration(data []byte) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	raw := strings.TrimSpace(out.Format.Duration)
	if raw == "" || raw == "N/A" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return 0, fmt.Errorf("failed to parse duration '%s'", raw)
	}

	return duration, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	return verify(ctx, p.runner, p.ffprobePath)
}

// Ensure Prober implements video.DurationProber
var _ video.DurationProber = (*Prober)(nil)
