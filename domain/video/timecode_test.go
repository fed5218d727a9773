package video

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "bare seconds", input: "45", want: 45},
		{name: "fractional seconds", input: "12.25", want: 12.25},
		{name: "zero", input: "0", want: 0},
		{name: "minutes and seconds", input: "1:30", want: 90},
		{name: "hours minutes seconds", input: "01:02:03", want: 3723},
		{name: "single digit hours", input: "1:00:00", want: 3600},
		{name: "fractional final field", input: "1:02.5", want: 62.5},
		{name: "minutes over 59 are carried", input: "90:00", want: 5400},
		{name: "surrounding whitespace", input: "  0:05 ", want: 5},
		{name: "negative seconds parse", input: "-3", want: -3},
		{name: "empty string", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "letters in field", input: "01:xx:03", wantErr: true},
		{name: "empty field", input: "01::03", wantErr: true},
		{name: "trailing colon", input: "1:", wantErr: true},
		{name: "fraction in minutes", input: "1.5:00", wantErr: true},
		{name: "signed field", input: "1:-30", wantErr: true},
		{name: "not a number", input: "NaN", wantErr: true},
		{name: "infinity", input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimecode(%q) expected error, got %v", tt.input, got)
					return
				}
				if !errors.Is(err, ErrMalformedTimecode) {
					t.Errorf("ParseTimecode(%q) error = %v, want ErrMalformedTimecode", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimecode(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimecode_ColonArithmetic(t *testing.T) {
	for h := 0; h < 3; h++ {
		for m := 0; m < 60; m += 7 {
			for s := 0; s < 60; s += 11 {
				hms := fmt.Sprintf("%d:%02d:%02d", h, m, s)
				got, err := ParseTimecode(hms)
				if err != nil {
					t.Fatalf("ParseTimecode(%q) unexpected error: %v", hms, err)
				}
				if want := float64(h*3600 + m*60 + s); got != want {
					t.Errorf("ParseTimecode(%q) = %v, want %v", hms, got, want)
				}

				ms := fmt.Sprintf("%d:%02d", m, s)
				got, err = ParseTimecode(ms)
				if err != nil {
					t.Fatalf("ParseTimecode(%q) unexpected error: %v", ms, err)
				}
				if want := float64(m*60 + s); got != want {
					t.Errorf("ParseTimecode(%q) = %v, want %v", ms, got, want)
				}
			}
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0000"},
		{5, "5.0000"},
		{30.123456, "30.1235"},
		{1e7, "10000000.0000"},
		{0.00001, "0.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.in); got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00.000"},
		{90, "0:01:30.000"},
		{3723.5, "1:02:03.500"},
		{-4, "0:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTimecode(tt.in); got != tt.want {
				t.Errorf("FormatTimecode(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeSpec(t *testing.T) {
	t.Run("zero value is till end", func(t *testing.T) {
		var spec TimeSpec
		if !spec.IsTillEnd() {
			t.Error("expected zero TimeSpec to be till end")
		}
		if _, err := spec.Resolve(); err == nil {
			t.Error("expected till end to be unresolvable")
		}
	})

	t.Run("minus one is the sentinel", func(t *testing.T) {
		if !Seconds(-1).IsTillEnd() {
			t.Error("expected Seconds(-1) to be till end")
		}
		if !ParseTimeSpec("-1").IsTillEnd() {
			t.Error(`expected ParseTimeSpec("-1") to be till end`)
		}
		for _, v := range []string{"", "-1.0", " -1 ", "-1.0000"} {
			if !ParseTimeSpec(v).IsTillEnd() {
				t.Errorf("expected ParseTimeSpec(%q) to be till end", v)
			}
		}
		if ParseTimeSpec("-1.5").IsTillEnd() {
			t.Error(`ParseTimeSpec("-1.5") should not be till end`)
		}
	})

	t.Run("numeric and expression specs resolve alike", func(t *testing.T) {
		a, err := Seconds(90).Resolve()
		if err != nil {
			t.Fatalf("Seconds(90).Resolve() unexpected error: %v", err)
		}
		b, err := At("1:30").Resolve()
		if err != nil {
			t.Fatalf(`At("1:30").Resolve() unexpected error: %v`, err)
		}
		if a != b {
			t.Errorf("Seconds(90) = %v, At(1:30) = %v, want equal", a, b)
		}
	})

	t.Run("non-finite seconds", func(t *testing.T) {
		if _, err := Seconds(math.Inf(1)).Resolve(); !errors.Is(err, ErrMalformedTimecode) {
			t.Errorf("Seconds(+Inf).Resolve() error = %v, want ErrMalformedTimecode", err)
		}
	})

	t.Run("string keeps user text", func(t *testing.T) {
		if got := At("0:05").String(); got != "0:05" {
			t.Errorf("String() = %q, want %q", got, "0:05")
		}
		if got := Seconds(2.5).String(); got != "2.5" {
			t.Errorf("String() = %q, want %q", got, "2.5")
		}
		if got := TillEnd().String(); got != "end" {
			t.Errorf("String() = %q, want %q", got, "end")
		}
	})
}
