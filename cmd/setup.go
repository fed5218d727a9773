package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"vidtrim/domain/video"
	"vidtrim/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks where ffmpeg and ffprobe live, which trim mode to use by
default and which encoders the reencode mode should use.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to vidtrim setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	if err := promptTrim(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	binary, err := prompter.Input("Path to the ffmpeg executable?", cfg.FFmpeg.Binary)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if binary != "" {
		cfg.FFmpeg.Binary = binary
	}

	probe, err := prompter.Input("Path to the ffprobe executable?", cfg.FFmpeg.ProbeBinary)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if probe != "" {
		cfg.FFmpeg.ProbeBinary = probe
	}

	return nil
}

func promptTrim(prompter Prompter, cfg *config.Config) error {
	modes := []string{video.FastCopy.String(), video.PreciseReencode.String()}
	mode, err := prompter.Select("Default trim mode?", modes, cfg.Trim.Mode)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if _, err := video.ParseMode(mode); err != nil {
		return err
	}
	cfg.Trim.Mode = mode

	vcodec, err := prompter.Input("Video encoder for reencode mode?", cfg.Trim.VideoCodec)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if vcodec != "" {
		cfg.Trim.VideoCodec = vcodec
	}

	acodec, err := prompter.Input("Audio encoder for reencode mode?", cfg.Trim.AudioCodec)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if acodec != "" {
		cfg.Trim.AudioCodec = acodec
	}

	return nil
}
