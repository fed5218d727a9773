package video

import (
	"context"
	"regexp"
	"strings"

	"vidtrim/domain/video"

	"github.com/rs/zerolog"
)

// TrimResult contains the result of a trim operation
type TrimResult struct {
	Plan       video.TrimPlan
	Binary     string
	Args       []string
	OutputPath string
	DryRun     bool
}

// CommandLine renders the command so it can be pasted into a POSIX shell
func (r *TrimResult) CommandLine() string {
	parts := make([]string, 0, len(r.Args)+1)
	parts = append(parts, shellQuote(r.Binary))
	for _, a := range r.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./:=+-]+$`)

func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// TrimService coordinates video trimming operations
type TrimService struct {
	planner *video.Planner
	trimmer video.Trimmer
	logger  zerolog.Logger
}

// NewTrimService creates a new TrimService
func NewTrimService(trimmer video.Trimmer, files video.FileSystem, prober video.DurationProber, opts video.PlanOptions, logger zerolog.Logger) *TrimService {
	return &TrimService{
		planner: video.NewPlanner(files, prober, opts),
		trimmer: trimmer,
		logger:  logger,
	}
}

// TrimInput represents the input for a trim operation
type TrimInput struct {
	SourcePath string
	Start      video.TimeSpec
	End        video.TimeSpec
	Length     *video.TimeSpec // Optional, excludes End
	OutputPath string          // Optional, derived from SourcePath if empty
	DryRun     bool
}

func (in TrimInput) request() video.PlanRequest {
	return video.PlanRequest{
		InputPath:  in.SourcePath,
		Start:      in.Start,
		End:        in.End,
		Length:     in.Length,
		OutputPath: in.OutputPath,
	}
}

// Trim plans the trim, builds the ffmpeg command and runs it.
// With DryRun set nothing is removed or executed.
func (s *TrimService) Trim(ctx context.Context, input TrimInput) (*TrimResult, error) {
	result, err := s.Plan(ctx, input)
	if err != nil {
		return nil, err
	}
	if result.DryRun {
		return result, nil
	}
	return s.Execute(ctx, result)
}

// Plan resolves the input and builds the ffmpeg command without side effects
func (s *TrimService) Plan(ctx context.Context, input TrimInput) (*TrimResult, error) {
	plan, err := s.planner.Preview(ctx, input.request())
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("source", plan.InputPath).
		Float64("start", plan.StartSeconds).
		Float64("end", plan.EndSeconds).
		Str("output", plan.OutputPath).
		Str("mode", plan.Mode.String()).
		Bool("probed", input.End.IsTillEnd() && input.Length == nil).
		Msg("trim planned")

	binary, args := s.trimmer.Command(plan)
	return &TrimResult{
		Plan:       plan,
		Binary:     binary,
		Args:       args,
		OutputPath: plan.OutputPath,
		DryRun:     input.DryRun,
	}, nil
}

// Execute prepares the output location of a planned trim and runs ffmpeg
func (s *TrimService) Execute(ctx context.Context, result *TrimResult) (*TrimResult, error) {
	if err := s.planner.Prepare(result.Plan); err != nil {
		return nil, err
	}

	outputPath, err := s.trimmer.Trim(ctx, result.Plan)
	if err != nil {
		return nil, err
	}
	result.OutputPath = outputPath

	return result, nil
}
