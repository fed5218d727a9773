package video

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects how ffmpeg cuts the video
type Mode int

const (
	// FastCopy copies streams without re-encoding; cut points snap to keyframes
	FastCopy Mode = iota
	// PreciseReencode re-encodes video and audio for frame-accurate cuts
	PreciseReencode
)

// String returns the mode name used in flags and config
func (m Mode) String() string {
	switch m {
	case FastCopy:
		return "copy"
	case PreciseReencode:
		return "reencode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode reads a mode name. Empty selects FastCopy.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "copy", "fast":
		return FastCopy, nil
	case "reencode", "re-encode", "precise":
		return PreciseReencode, nil
	default:
		return FastCopy, fmt.Errorf("unknown trim mode %q: expected copy or reencode", s)
	}
}

// TrimPlan is a fully resolved trim: concrete times, output path and mode
type TrimPlan struct {
	InputPath    string
	StartSeconds float64
	EndSeconds   float64
	OutputPath   string
	Mode         Mode
}

// Duration returns the length of the trimmed clip in seconds
func (p TrimPlan) Duration() float64 {
	return p.EndSeconds - p.StartSeconds
}

// Validate checks the range invariants of the plan
func (p TrimPlan) Validate() error {
	if p.InputPath == "" {
		return fmt.Errorf("%w: input path is required", ErrInputNotFound)
	}
	if p.StartSeconds < 0 {
		return fmt.Errorf("%w: start time %s must not be negative", ErrInvalidTimeRange, FormatSeconds(p.StartSeconds))
	}
	if p.EndSeconds <= p.StartSeconds {
		return fmt.Errorf("%w: end time %s must be after start time %s",
			ErrInvalidTimeRange, FormatSeconds(p.EndSeconds), FormatSeconds(p.StartSeconds))
	}
	if p.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// PlanOptions is the per-invocation configuration handed to the planner
type PlanOptions struct {
	Mode   Mode
	Naming OutputNaming
}

// DefaultPlanOptions selects FastCopy and <stem>_trim.mp4 naming
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		Mode:   FastCopy,
		Naming: DefaultOutputNaming(),
	}
}

// PlanRequest holds the raw trim request as the user supplied it
type PlanRequest struct {
	InputPath string
	Start     TimeSpec
	End       TimeSpec
	// Length, when set, places the end at Start+Length; it excludes End
	Length     *TimeSpec
	OutputPath string
}

// Planner resolves a PlanRequest into a TrimPlan
type Planner struct {
	files  FileSystem
	prober DurationProber
	opts   PlanOptions
}

// NewPlanner creates a planner with the given ports and options
func NewPlanner(files FileSystem, prober DurationProber, opts PlanOptions) *Planner {
	return &Planner{
		files:  files,
		prober: prober,
		opts:   opts,
	}
}

// Build resolves the request and prepares the output location
func (p *Planner) Build(ctx context.Context, req PlanRequest) (TrimPlan, error) {
	plan, err := p.Preview(ctx, req)
	if err != nil {
		return TrimPlan{}, err
	}
	if err := p.Prepare(plan); err != nil {
		return TrimPlan{}, err
	}
	return plan, nil
}

// Prepare readies the output location of a resolved plan.
// In PreciseReencode mode an existing output file is removed; FastCopy
// relies on ffmpeg's overwrite flag instead.
func (p *Planner) Prepare(plan TrimPlan) error {
	if plan.Mode != PreciseReencode {
		return nil
	}
	exists, err := p.files.Exists(plan.OutputPath)
	if err != nil {
		return fmt.Errorf("%w: checking output %s: %v", ErrUnexpectedFailure, plan.OutputPath, err)
	}
	if exists {
		if err := p.files.Remove(plan.OutputPath); err != nil {
			return fmt.Errorf("%w: removing existing output %s: %v", ErrUnexpectedFailure, plan.OutputPath, err)
		}
	}
	return nil
}

// Preview resolves the request without any side effects on the output
func (p *Planner) Preview(ctx context.Context, req PlanRequest) (TrimPlan, error) {
	if req.InputPath == "" {
		return TrimPlan{}, fmt.Errorf("%w: input path is required", ErrInputNotFound)
	}
	exists, err := p.files.Exists(req.InputPath)
	if err != nil {
		return TrimPlan{}, fmt.Errorf("%w: checking input %s: %v", ErrUnexpectedFailure, req.InputPath, err)
	}
	if !exists {
		return TrimPlan{}, fmt.Errorf("%w: %s", ErrInputNotFound, req.InputPath)
	}

	start, err := req.Start.Resolve()
	if err != nil {
		if req.Start.IsTillEnd() {
			return TrimPlan{}, fmt.Errorf("%w: start time cannot be end of file", ErrInvalidTimeRange)
		}
		return TrimPlan{}, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := p.resolveEnd(ctx, req, start)
	if err != nil {
		return TrimPlan{}, err
	}

	plan := TrimPlan{
		InputPath:    req.InputPath,
		StartSeconds: start,
		EndSeconds:   end,
		OutputPath:   p.opts.Naming.Resolve(req.InputPath, req.OutputPath),
		Mode:         p.opts.Mode,
	}

	if err := plan.Validate(); err != nil {
		return TrimPlan{}, err
	}

	return plan, nil
}

func (p *Planner) resolveEnd(ctx context.Context, req PlanRequest, start float64) (float64, error) {
	if req.Length != nil {
		if !req.End.IsTillEnd() {
			return 0, fmt.Errorf("%w: end time and duration are mutually exclusive", ErrInvalidTimeRange)
		}
		length, err := req.Length.Resolve()
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %w", err)
		}
		return start + length, nil
	}

	if req.End.IsTillEnd() {
		if p.prober == nil {
			return 0, fmt.Errorf("%w: no duration probe configured", ErrUnexpectedFailure)
		}
		duration, err := p.prober.Duration(ctx, req.InputPath)
		if err != nil {
			return 0, fmt.Errorf("probing duration of %s: %w", req.InputPath, err)
		}
		return duration, nil
	}

	end, err := req.End.Resolve()
	if err != nil {
		return 0, fmt.Errorf("invalid end time: %w", err)
	}
	return end, nil
}
