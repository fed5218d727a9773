package video

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedTimecode is returned when a time expression cannot be parsed
	ErrMalformedTimecode = errors.New("invalid timecode format")

	// ErrInputNotFound is returned when the source video does not exist
	ErrInputNotFound = errors.New("input file does not exist")

	// ErrInvalidTimeRange is returned when start/end are negative or out of order
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrExternalToolFailure is returned when ffmpeg or ffprobe exits non-zero
	ErrExternalToolFailure = errors.New("external tool failed")

	// ErrUnexpectedFailure covers everything outside the other categories
	ErrUnexpectedFailure = errors.New("unexpected failure")
)

// ToolError describes a non-zero exit of an external media tool.
// Diagnostic holds the captured output verbatim.
type ToolError struct {
	Tool       string
	ExitCode   int
	Diagnostic string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
}

// Unwrap lets errors.Is match ErrExternalToolFailure
func (e *ToolError) Unwrap() error {
	return ErrExternalToolFailure
}

// Classify maps err onto one of the sentinel errors above.
// Errors outside the taxonomy are reported as ErrUnexpectedFailure.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		ErrMalformedTimecode,
		ErrInputNotFound,
		ErrInvalidTimeRange,
		ErrExternalToolFailure,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUnexpectedFailure
}

// Summary renders err as a single line suitable for the terminal
func Summary(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if Classify(err) == ErrUnexpectedFailure && !errors.Is(err, ErrUnexpectedFailure) {
		return ErrUnexpectedFailure.Error() + ": " + msg
	}
	return msg
}
