package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"vidtrim/domain/video"
	"vidtrim/infrastructure/config"
	"vidtrim/infrastructure/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "vidtrim",
	Short: "Cut a section out of a video with ffmpeg",
	Long: `vidtrim extracts a single contiguous range from a video file by
running ffmpeg.

  - Times are seconds (45, 12.5), MM:SS or HH:MM:SS
  - The end defaults to the end of the file
  - Output defaults to <input>_trim.mp4 next to the input

Example:
  vidtrim trim recording.mkv --start 0:05 --end 1:30:00`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// usageError marks command-line mistakes so they are not reported as unexpected
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs marks positional argument errors as usage errors
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

func execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", video.ErrUnexpectedFailure, r)
		}
	}()
	return rootCmd.Execute()
}

// reportError prints err as one line, followed by any tool diagnostic
// verbatim, and returns the process exit code
func reportError(w io.Writer, err error) int {
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(w, "Error: %s\n", uerr.Error())
		return 2
	}

	if video.Classify(err) == video.ErrUnexpectedFailure {
		log.Error().Err(err).Msg("trim aborted")
	}

	fmt.Fprintf(w, "Error: %s\n", video.Summary(err))

	var toolErr *video.ToolError
	if errors.As(err, &toolErr) && toolErr.Diagnostic != "" {
		fmt.Fprint(w, toolErr.Diagnostic)
		if toolErr.Diagnostic[len(toolErr.Diagnostic)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}

	return 1
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log ffmpeg commands and planning details")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

func initConfig() {
	if cfgFile != "" {
		cfg, cfgErr = config.Load(cfgFile)
	} else {
		// Config file is optional; defaults apply when it is absent
		cfg, cfgErr = config.LoadOrDefault(config.DefaultPath)
	}

	level := "info"
	if cfg != nil {
		level = cfg.Logging.Level
	}
	logging.Init(level, verbose, os.Stderr)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
