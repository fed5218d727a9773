package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	appvideo "vidtrim/application/video"
	"vidtrim/domain/video"
	"vidtrim/infrastructure/ffmpeg"
)

// mockTrimmer records plans passed to Trim
type mockTrimmer struct {
	plans     []video.TrimPlan
	failError error
}

func (m *mockTrimmer) Command(plan video.TrimPlan) (string, []string) {
	return "ffmpeg", ffmpeg.BuildArgs(plan, ffmpeg.DefaultEncoding())
}

func (m *mockTrimmer) Trim(ctx context.Context, plan video.TrimPlan) (string, error) {
	m.plans = append(m.plans, plan)
	if m.failError != nil {
		return "", m.failError
	}
	return plan.OutputPath, nil
}

// verifyingTrimmer adds VerifyInstalled to mockTrimmer
type verifyingTrimmer struct {
	mockTrimmer
	verifyErr error
	verified  int
}

func (v *verifyingTrimmer) VerifyInstalled(ctx context.Context) error {
	v.verified++
	return v.verifyErr
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
	removed       []string
}

func (m *mockFileChecker) Exists(path string) (bool, error) {
	return m.existingFiles[path], nil
}

func (m *mockFileChecker) Remove(path string) error {
	m.removed = append(m.removed, path)
	delete(m.existingFiles, path)
	return nil
}

type fixedProber float64

func (p fixedProber) Duration(ctx context.Context, path string) (float64, error) {
	return float64(p), nil
}

func newFiles(paths ...string) *mockFileChecker {
	m := &mockFileChecker{existingFiles: make(map[string]bool)}
	for _, p := range paths {
		m.existingFiles[p] = true
	}
	return m
}

func TestRunTrimWithDependencies(t *testing.T) {
	trimmer := &mockTrimmer{}
	var out bytes.Buffer

	err := RunTrimWithDependencies(
		context.Background(),
		trimmer,
		newFiles("/videos/in.mp4"),
		fixedProber(30),
		video.DefaultPlanOptions(),
		appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("0:05"), End: video.TillEnd()},
		&out,
	)
	if err != nil {
		t.Fatalf("RunTrimWithDependencies() unexpected error: %v", err)
	}

	if len(trimmer.plans) != 1 {
		t.Fatalf("expected one trim, got %d", len(trimmer.plans))
	}
	plan := trimmer.plans[0]
	if plan.StartSeconds != 5 || plan.EndSeconds != 30 || plan.Mode != video.FastCopy {
		t.Errorf("plan = %+v, want 5..30 copy", plan)
	}
	if !strings.Contains(out.String(), "Successfully created: /videos/in_trim.mp4") {
		t.Errorf("output = %q, want created path", out.String())
	}
}

func TestRunTrimWithDependencies_DryRun(t *testing.T) {
	trimmer := &verifyingTrimmer{}
	var out bytes.Buffer

	err := RunTrimWithDependencies(
		context.Background(),
		trimmer,
		newFiles("/videos/in.mp4"),
		fixedProber(30),
		video.DefaultPlanOptions(),
		appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("1:30"), End: video.At("2:00"), DryRun: true},
		&out,
	)
	if err != nil {
		t.Fatalf("RunTrimWithDependencies() unexpected error: %v", err)
	}
	if len(trimmer.plans) != 0 {
		t.Error("dry run should not trim")
	}
	if trimmer.verified != 0 {
		t.Error("dry run should not verify ffmpeg")
	}

	for _, want := range []string{"Dry run", "0:01:30.000", "90.0000", "120.0000", "/videos/in_trim.mp4", "ffmpeg -hide_banner"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want it to contain %q", out.String(), want)
		}
	}
}

func TestRunTrimWithDependencies_VerifyFails(t *testing.T) {
	trimmer := &verifyingTrimmer{verifyErr: &video.ToolError{Tool: "ffmpeg", ExitCode: 127}}

	err := RunTrimWithDependencies(
		context.Background(),
		trimmer,
		newFiles("/videos/in.mp4"),
		fixedProber(30),
		video.DefaultPlanOptions(),
		appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("0"), End: video.At("5")},
		&bytes.Buffer{},
	)
	if !errors.Is(err, video.ErrExternalToolFailure) {
		t.Errorf("error = %v, want ErrExternalToolFailure", err)
	}
	if len(trimmer.plans) != 0 {
		t.Error("trim should not run when ffmpeg is missing")
	}
}

func TestRunTrimWithDependencies_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   appvideo.TrimInput
		wantErr error
	}{
		{
			name:    "missing source",
			input:   appvideo.TrimInput{SourcePath: "/videos/nope.mp4", Start: video.At("0")},
			wantErr: video.ErrInputNotFound,
		},
		{
			name:    "malformed start",
			input:   appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("12:ab")},
			wantErr: video.ErrMalformedTimecode,
		},
		{
			name:    "end equals start",
			input:   appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("10"), End: video.At("0:10")},
			wantErr: video.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trimmer := &mockTrimmer{}
			err := RunTrimWithDependencies(
				context.Background(),
				trimmer,
				newFiles("/videos/in.mp4"),
				fixedProber(30),
				video.DefaultPlanOptions(),
				tt.input,
				&bytes.Buffer{},
			)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(trimmer.plans) != 0 {
				t.Error("no process should be spawned on a planning error")
			}
		})
	}
}

func TestRunTrimWithDependencies_PlanningErrorsSkipVerify(t *testing.T) {
	tests := []struct {
		name    string
		input   appvideo.TrimInput
		wantErr error
	}{
		{
			name:    "missing source",
			input:   appvideo.TrimInput{SourcePath: "/videos/nope.mp4", Start: video.At("0"), End: video.At("5")},
			wantErr: video.ErrInputNotFound,
		},
		{
			name:    "malformed start",
			input:   appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("1:xx"), End: video.At("5")},
			wantErr: video.ErrMalformedTimecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A missing ffmpeg must not mask the planning error
			trimmer := &verifyingTrimmer{verifyErr: &video.ToolError{Tool: "ffmpeg", ExitCode: 127}}
			var out bytes.Buffer

			err := RunTrimWithDependencies(
				context.Background(),
				trimmer,
				newFiles("/videos/in.mp4"),
				fixedProber(30),
				video.DefaultPlanOptions(),
				tt.input,
				&out,
			)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if trimmer.verified != 0 {
				t.Errorf("VerifyInstalled called %d times, want 0", trimmer.verified)
			}
			if out.Len() != 0 {
				t.Errorf("output = %q, want nothing before the error", out.String())
			}
		})
	}
}

func TestRunTrimWithDependencies_VerifyBeforeRemoval(t *testing.T) {
	trimmer := &verifyingTrimmer{verifyErr: &video.ToolError{Tool: "ffmpeg", ExitCode: 127}}
	files := newFiles("/videos/in.mp4", "/videos/in_trim.mp4")
	opts := video.DefaultPlanOptions()
	opts.Mode = video.PreciseReencode

	err := RunTrimWithDependencies(
		context.Background(),
		trimmer,
		files,
		fixedProber(30),
		opts,
		appvideo.TrimInput{SourcePath: "/videos/in.mp4", Start: video.At("0"), End: video.At("5")},
		&bytes.Buffer{},
	)
	if !errors.Is(err, video.ErrExternalToolFailure) {
		t.Errorf("error = %v, want ErrExternalToolFailure", err)
	}
	if trimmer.verified != 1 {
		t.Errorf("VerifyInstalled called %d times, want 1", trimmer.verified)
	}
	if len(files.removed) != 0 {
		t.Errorf("removed %v before ffmpeg was verified", files.removed)
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		want     []string
	}{
		{
			name:     "tool failure shows diagnostic verbatim",
			err:      &video.ToolError{Tool: "ffmpeg", ExitCode: 1, Diagnostic: "Invalid data found when processing input"},
			wantCode: 1,
			want:     []string{"Error: ffmpeg exited with status 1\n", "Invalid data found when processing input\n"},
		},
		{
			name:     "usage error",
			err:      &usageError{err: errors.New("accepts 1 arg(s), received 0")},
			wantCode: 2,
			want:     []string{"Error: accepts 1 arg(s), received 0\n"},
		},
		{
			name:     "unexpected error",
			err:      errors.New("permission denied"),
			wantCode: 1,
			want:     []string{"Error: unexpected failure: permission denied\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := reportError(&buf, tt.err); code != tt.wantCode {
				t.Errorf("reportError() = %d, want %d", code, tt.wantCode)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("reportError() wrote %q, want it to contain %q", buf.String(), w)
				}
			}
		})
	}
}
