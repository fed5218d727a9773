package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	appvideo "vidtrim/application/video"
	"vidtrim/domain/video"
	"vidtrim/infrastructure/ffmpeg"
	"vidtrim/infrastructure/filesystem"
	"vidtrim/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	trimStartTime  string
	trimEndTime    string
	trimDuration   string
	trimOutputPath string
	trimMode       string
	trimDryRun     bool
)

var trimCmd = &cobra.Command{
	Use:   "trim <input>",
	Short: "Trim a video to a time range",
	Long: `Trim a video file to the given start and end times.

Times may be plain seconds (45, 12.5), MM:SS or HH:MM:SS. Leaving out --end,
or passing -1, trims to the end of the file; its duration is read with ffprobe.

Modes:
  copy      stream copy, fast, cut points snap to keyframes (default)
  reencode  re-encode with libx264/aac, frame-accurate but slower

Without --output the result is <input-stem>_trim.mp4 next to the input.
A bare filename for --output is placed next to the input as well.

Example:
  vidtrim trim "/videos/match.mkv" --start 1:30 --end 01:02:03
  vidtrim trim talk.mp4 -s 0:05 -d 90 -m reencode -o talk-intro.mp4`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVarP(&trimStartTime, "start", "s", "0", "Start time: seconds, MM:SS or HH:MM:SS")
	trimCmd.Flags().StringVarP(&trimEndTime, "end", "e", "", "End time: seconds, MM:SS or HH:MM:SS (default end of file)")
	trimCmd.Flags().StringVarP(&trimDuration, "duration", "d", "", "Length of the clip instead of an end time")
	trimCmd.Flags().StringVarP(&trimOutputPath, "output", "o", "", "Output file (default <input>_trim.mp4)")
	trimCmd.Flags().StringVarP(&trimMode, "mode", "m", "", "Trim mode: copy or reencode (default from config, else copy)")
	trimCmd.Flags().BoolVar(&trimDryRun, "dry-run", false, "Print the plan and ffmpeg command without running it")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	opts, err := cfg.PlanOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mode") {
		mode, err := video.ParseMode(trimMode)
		if err != nil {
			return &usageError{err: err}
		}
		opts.Mode = mode
	}

	// Create dependencies using production implementations
	trimmer := ffmpeg.NewTrimmer(
		ffmpeg.WithFFmpegPath(cfg.FFmpeg.Binary),
		ffmpeg.WithEncoding(cfg.Encoding()),
		ffmpeg.WithLogger(logging.WithComponent("ffmpeg")),
	)
	prober := ffmpeg.NewProber(
		ffmpeg.WithFFprobePath(cfg.FFmpeg.ProbeBinary),
		ffmpeg.WithProberLogger(logging.WithComponent("ffprobe")),
	)
	fileChecker := filesystem.NewChecker()

	input := appvideo.TrimInput{
		SourcePath: args[0],
		Start:      video.At(trimStartTime),
		End:        video.ParseTimeSpec(trimEndTime),
		OutputPath: trimOutputPath,
		DryRun:     trimDryRun,
	}
	if cmd.Flags().Changed("duration") {
		length := video.At(trimDuration)
		input.Length = &length
	}

	return RunTrimWithDependencies(
		cmd.Context(),
		trimmer,
		fileChecker,
		prober,
		opts,
		input,
		os.Stdout,
	)
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	trimmer video.Trimmer,
	fileChecker video.FileSystem,
	prober video.DurationProber,
	opts video.PlanOptions,
	input appvideo.TrimInput,
	output OutputWriter,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	service := appvideo.NewTrimService(trimmer, fileChecker, prober, opts, logging.WithComponent("trim"))

	result, err := service.Plan(ctx, input)
	if err != nil {
		return err
	}

	if result.DryRun {
		fmt.Fprint(output, renderPlan(result))
		return nil
	}

	// Verify ffmpeg is available if trimmer supports it
	if verifiable, ok := trimmer.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	fmt.Fprintf(output, "Trimming %s from %s to %s (%s)...\n",
		result.Plan.InputPath,
		video.FormatTimecode(result.Plan.StartSeconds),
		video.FormatTimecode(result.Plan.EndSeconds),
		result.Plan.Mode)

	result, err = service.Execute(ctx, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return nil
}
