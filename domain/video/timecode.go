package video

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// wholeFieldRegex matches the hour and minute fields of a colon timecode
var wholeFieldRegex = regexp.MustCompile(`^\d+$`)

// secondsFieldRegex matches the final field, which may carry a fraction
var secondsFieldRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseTimecode converts a time expression into seconds.
//
// Accepted forms are plain seconds ("45", "12.5") and colon notation where
// fields are read as base-60 digits, most significant first ("1:30" is 90,
// "01:02:03" is 3723). Only the rightmost field may be fractional.
func ParseTimecode(value string) (float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedTimecode)
	}

	if !strings.Contains(s, ":") {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("%w %q: expected seconds, MM:SS or HH:MM:SS", ErrMalformedTimecode, value)
		}
		return secs, nil
	}

	fields := strings.Split(s, ":")
	var total float64
	for i, field := range fields {
		last := i == len(fields)-1
		if last && !secondsFieldRegex.MatchString(field) || !last && !wholeFieldRegex.MatchString(field) {
			return 0, fmt.Errorf("%w %q: field %d is not numeric", ErrMalformedTimecode, value, i+1)
		}
		n, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", ErrMalformedTimecode, value, err)
		}
		total = total*60 + n
	}

	return total, nil
}

// FormatSeconds renders seconds with four decimal places, the form passed to ffmpeg
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 4, 64)
}

// FormatTimecode renders seconds as H:MM:SS.mmm for display
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	mins := (millis % 3_600_000) / 60_000
	secs := (millis % 60_000) / 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, mins, secs, millis%1000)
}

type specKind int

const (
	specTillEnd specKind = iota
	specSeconds
	specExpression
)

// TimeSpec is a user-supplied time value: a number of seconds, a timecode
// expression, or the "till end of file" marker. The zero value is till end.
type TimeSpec struct {
	kind    specKind
	seconds float64
	expr    string
}

// TillEnd returns the end-of-file marker
func TillEnd() TimeSpec {
	return TimeSpec{}
}

// Seconds returns a spec for a numeric value. -1 is the end-of-file sentinel.
func Seconds(v float64) TimeSpec {
	if v == -1 {
		return TillEnd()
	}
	return TimeSpec{kind: specSeconds, seconds: v}
}

// At returns a spec for a timecode expression, resolved later by ParseTimecode
func At(expr string) TimeSpec {
	return TimeSpec{kind: specExpression, expr: expr}
}

// ParseTimeSpec reads a command-line value. Empty and any value equal to -1
// ("-1", "-1.0") mean till end.
func ParseTimeSpec(s string) TimeSpec {
	s = strings.TrimSpace(s)
	if s == "" {
		return TillEnd()
	}
	if v, err := ParseTimecode(s); err == nil && v == -1 {
		return TillEnd()
	}
	return At(s)
}

// IsTillEnd reports whether the spec is the end-of-file marker
func (t TimeSpec) IsTillEnd() bool {
	return t.kind == specTillEnd
}

// Resolve returns the spec in seconds. The till-end marker cannot be resolved
// without probing the media, so it is an error here.
func (t TimeSpec) Resolve() (float64, error) {
	switch t.kind {
	case specSeconds:
		if math.IsNaN(t.seconds) || math.IsInf(t.seconds, 0) {
			return 0, fmt.Errorf("%w: %v is not a finite number", ErrMalformedTimecode, t.seconds)
		}
		return t.seconds, nil
	case specExpression:
		return ParseTimecode(t.expr)
	default:
		return 0, fmt.Errorf("%w: end of file has no fixed value", ErrMalformedTimecode)
	}
}

// String returns the spec as the user wrote it
func (t TimeSpec) String() string {
	switch t.kind {
	case specSeconds:
		return strconv.FormatFloat(t.seconds, 'f', -1, 64)
	case specExpression:
		return t.expr
	default:
		return "end"
	}
}
