package ffmpeg

import "vidtrim/domain/video"

const (
	// DefaultVideoCodec is the re-encode video encoder
	DefaultVideoCodec = "libx264"

	// DefaultAudioCodec is the re-encode audio encoder
	DefaultAudioCodec = "aac"

	// DefaultLogLevel keeps ffmpeg quiet except for errors
	DefaultLogLevel = "error"
)

// Encoding holds the encoder settings used when building arguments
type Encoding struct {
	VideoCodec string
	AudioCodec string
	LogLevel   string
}

// DefaultEncoding returns libx264/aac with error-level logging
func DefaultEncoding() Encoding {
	return Encoding{
		VideoCodec: DefaultVideoCodec,
		AudioCodec: DefaultAudioCodec,
		LogLevel:   DefaultLogLevel,
	}
}

func (e Encoding) withDefaults() Encoding {
	d := DefaultEncoding()
	if e.VideoCodec == "" {
		e.VideoCodec = d.VideoCodec
	}
	if e.AudioCodec == "" {
		e.AudioCodec = d.AudioCodec
	}
	if e.LogLevel == "" {
		e.LogLevel = d.LogLevel
	}
	return e
}

// BuildArgs turns a plan into the ffmpeg argument list. It does not run anything.
//
// FastCopy seeks on the input, then cuts at the absolute end time. -copyts keeps
// source timestamps so -to refers to the input timeline instead of acting as a
// duration; -avoid_negative_ts rebases the output to zero.
//
// PreciseReencode opens the input first and seeks on the decoded output, which
// is frame-accurate. The output has already been removed by the planner, so no
// overwrite flag is passed.
func BuildArgs(plan video.TrimPlan, enc Encoding) []string {
	enc = enc.withDefaults()
	start := video.FormatSeconds(plan.StartSeconds)
	end := video.FormatSeconds(plan.EndSeconds)

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", enc.LogLevel,
	}

	switch plan.Mode {
	case video.PreciseReencode:
		args = append(args,
			"-i", plan.InputPath,
			"-ss", start,
			"-to", end,
			"-c:v", enc.VideoCodec,
			"-c:a", enc.AudioCodec,
			plan.OutputPath,
		)
	default:
		args = append(args,
			"-y", // Overwrite output file if it exists
			"-ss", start,
			"-copyts",
			"-i", plan.InputPath,
			"-to", end,
			"-map", "0",
			"-c:v", "copy",
			"-c:a", "copy",
			"-avoid_negative_ts", "make_zero",
			plan.OutputPath,
		)
	}

	return args
}
