//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	appvideo "vidtrim/application/video"
	"vidtrim/cmd"
	"vidtrim/domain/video"
	"vidtrim/infrastructure/ffmpeg"

	"github.com/cucumber/godog"
)

// fakeRunner stands in for ffmpeg and ffprobe, recording every invocation
type fakeRunner struct {
	calls       []fakeCall
	duration    string
	ffmpegExit  int
	ffmpegError string
	fileChecker *mockFileChecker // Reference to mark output files as existing
}

type fakeCall struct {
	name string
	args []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (ffmpeg.Result, error) {
	r.calls = append(r.calls, fakeCall{name: name, args: args})

	if len(args) == 1 && args[0] == "-version" {
		return ffmpeg.Result{Stdout: []byte(name + " version 7.0")}, nil
	}
	if name == "ffprobe" {
		return ffmpeg.Result{Stdout: []byte(fmt.Sprintf(`{"format":{"duration":%q}}`, r.duration))}, nil
	}
	if r.ffmpegExit != 0 {
		return ffmpeg.Result{ExitCode: r.ffmpegExit, Stderr: []byte(r.ffmpegError)}, nil
	}
	if r.fileChecker != nil {
		r.fileChecker.existingFiles[args[len(args)-1]] = true
	}
	return ffmpeg.Result{}, nil
}

func (r *fakeRunner) trimCalls() []fakeCall {
	var out []fakeCall
	for _, c := range r.calls {
		if c.name == "ffmpeg" && !(len(c.args) == 1 && c.args[0] == "-version") {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeRunner) versionCalls() int {
	n := 0
	for _, c := range r.calls {
		if len(c.args) == 1 && c.args[0] == "-version" {
			n++
		}
	}
	return n
}

func (r *fakeRunner) probeCalls() int {
	n := 0
	for _, c := range r.calls {
		if c.name == "ffprobe" {
			n++
		}
	}
	return n
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

// trimContext holds test state for trim scenarios
type trimContext struct {
	sourcePath  string
	outputPath  string
	mode        video.Mode
	dryRun      bool
	runner      *fakeRunner
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedTrimContext is reset before each scenario via Before hook
var SharedTrimContext *trimContext

func getTrimContext() *trimContext {
	return SharedTrimContext
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		fileChecker := &mockFileChecker{
			existingFiles: make(map[string]bool),
		}
		SharedTrimContext = &trimContext{
			runner:      &fakeRunner{duration: "0", fileChecker: fileChecker},
			fileChecker: fileChecker,
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedTrimContext = nil
		return c, nil
	})

	ctx.Step(`^a source video at "([^"]*)" lasting (\d+(?:\.\d+)?) seconds$`, aSourceVideoAtLasting)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^a file already exists at "([^"]*)"$`, aFileAlreadyExistsAt)
	ctx.Step(`^the trim mode is "([^"]*)"$`, theTrimModeIs)
	ctx.Step(`^the output is "([^"]*)"$`, theOutputIs)
	ctx.Step(`^ffmpeg fails with exit status (\d+) and message "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^I trim the video from "([^"]*)" to "([^"]*)"$`, iTrimTheVideoFromTo)
	ctx.Step(`^I trim the video from "([^"]*)" to the end$`, iTrimTheVideoFromToTheEnd)
	ctx.Step(`^I trim the video from "([^"]*)" for "([^"]*)"$`, iTrimTheVideoFromFor)
	ctx.Step(`^I preview a trim from "([^"]*)" to "([^"]*)"$`, iPreviewATrimFromTo)
	ctx.Step(`^the output file should be "([^"]*)"$`, theOutputFileShouldBe)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^ffprobe should have been called (\d+) times?$`, ffprobeShouldHaveBeenCalled)
	ctx.Step(`^no external process should have been started$`, noExternalProcessShouldHaveBeenStarted)
	ctx.Step(`^"([^"]*)" should have been removed$`, shouldHaveBeenRemoved)
	ctx.Step(`^nothing should have been removed$`, nothingShouldHaveBeenRemoved)
	ctx.Step(`^I should receive a "([^"]*)" error$`, iShouldReceiveAnError)
	ctx.Step(`^the error output should contain "([^"]*)"$`, theErrorOutputShouldContain)
	ctx.Step(`^the command output should contain "([^"]*)"$`, theCommandOutputShouldContain)
}

func aSourceVideoAtLasting(path, seconds string) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = true
	t.runner.duration = seconds
	return nil
}

func noSourceVideoExistsAt(path string) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = false
	return nil
}

func aFileAlreadyExistsAt(path string) error {
	getTrimContext().fileChecker.existingFiles[path] = true
	return nil
}

func theTrimModeIs(mode string) error {
	m, err := video.ParseMode(mode)
	if err != nil {
		return err
	}
	getTrimContext().mode = m
	return nil
}

func theOutputIs(path string) error {
	getTrimContext().outputPath = path
	return nil
}

func ffmpegFailsWith(code, message string) error {
	t := getTrimContext()
	exit, err := strconv.Atoi(code)
	if err != nil {
		return err
	}
	t.runner.ffmpegExit = exit
	t.runner.ffmpegError = message
	return nil
}

func runTrim(input appvideo.TrimInput) {
	t := getTrimContext()
	opts := video.DefaultPlanOptions()
	opts.Mode = t.mode

	input.SourcePath = t.sourcePath
	input.OutputPath = t.outputPath

	t.err = cmd.RunTrimWithDependencies(
		context.Background(),
		ffmpeg.NewTrimmer(ffmpeg.WithCommandRunner(t.runner)),
		t.fileChecker,
		ffmpeg.NewProber(ffmpeg.WithProberCommandRunner(t.runner)),
		opts,
		input,
		t.output,
	)
}

func iTrimTheVideoFromTo(start, end string) error {
	runTrim(appvideo.TrimInput{Start: video.At(start), End: video.ParseTimeSpec(end)})
	return nil
}

func iTrimTheVideoFromToTheEnd(start string) error {
	runTrim(appvideo.TrimInput{Start: video.At(start), End: video.TillEnd()})
	return nil
}

func iTrimTheVideoFromFor(start, length string) error {
	l := video.At(length)
	runTrim(appvideo.TrimInput{Start: video.At(start), Length: &l})
	return nil
}

func iPreviewATrimFromTo(start, end string) error {
	runTrim(appvideo.TrimInput{Start: video.At(start), End: video.ParseTimeSpec(end), DryRun: true})
	return nil
}

func theOutputFileShouldBe(expected string) error {
	t := getTrimContext()
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	if !strings.Contains(t.output.String(), "Successfully created: "+expected) {
		return fmt.Errorf("expected output path %q in %q", expected, t.output.String())
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	t := getTrimContext()
	calls := t.runner.trimCalls()
	if len(calls) == 0 {
		return fmt.Errorf("ffmpeg was not called (error: %v)", t.err)
	}

	call := calls[0]
	var expected []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expected = append(expected, row.Cells[0].Value)
	}

	if strings.Join(call.args, "\x00") != strings.Join(expected, "\x00") {
		return fmt.Errorf("ffmpeg arguments mismatch:\n  got  %v\n  want %v", call.args, expected)
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	if calls := getTrimContext().runner.trimCalls(); len(calls) != 0 {
		return fmt.Errorf("expected no ffmpeg call, got %v", calls)
	}
	return nil
}

func ffprobeShouldHaveBeenCalled(times int) error {
	if got := getTrimContext().runner.probeCalls(); got != times {
		return fmt.Errorf("expected %d ffprobe calls, got %d", times, got)
	}
	return nil
}

func noExternalProcessShouldHaveBeenStarted() error {
	r := getTrimContext().runner
	if n := r.versionCalls(); n != 0 {
		return fmt.Errorf("expected no ffmpeg -version check, got %d", n)
	}
	if len(r.calls) != 0 {
		return fmt.Errorf("expected no process, got %v", r.calls)
	}
	return nil
}

func shouldHaveBeenRemoved(path string) error {
	for _, p := range getTrimContext().fileChecker.removed {
		if p == path {
			return nil
		}
	}
	return fmt.Errorf("expected %q to be removed, removed %v", path, getTrimContext().fileChecker.removed)
}

func nothingShouldHaveBeenRemoved() error {
	if removed := getTrimContext().fileChecker.removed; len(removed) != 0 {
		return fmt.Errorf("expected nothing removed, got %v", removed)
	}
	return nil
}

var errorKinds = map[string]error{
	"malformed timecode":    video.ErrMalformedTimecode,
	"input not found":       video.ErrInputNotFound,
	"invalid time range":    video.ErrInvalidTimeRange,
	"external tool failure": video.ErrExternalToolFailure,
	"unexpected failure":    video.ErrUnexpectedFailure,
}

func iShouldReceiveAnError(kind string) error {
	t := getTrimContext()
	want, ok := errorKinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !errors.Is(t.err, want) {
		return fmt.Errorf("expected %s error, got: %v", kind, t.err)
	}
	return nil
}

func theErrorOutputShouldContain(text string) error {
	t := getTrimContext()
	var toolErr *video.ToolError
	if !errors.As(t.err, &toolErr) {
		return fmt.Errorf("expected a tool error, got: %v", t.err)
	}
	if !strings.Contains(toolErr.Diagnostic, text) {
		return fmt.Errorf("expected diagnostic to contain %q, got %q", text, toolErr.Diagnostic)
	}
	return nil
}

func theCommandOutputShouldContain(text string) error {
	t := getTrimContext()
	if !strings.Contains(t.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, t.output.String())
	}
	return nil
}
