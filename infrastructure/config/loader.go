package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"vidtrim/domain/video"
	"vidtrim/infrastructure/ffmpeg"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration is looked up when --config is not set
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Trim    TrimConfig    `yaml:"trim"`
	Logging LoggingConfig `yaml:"logging"`
}

// FFmpegConfig contains the external tool settings
type FFmpegConfig struct {
	Binary      string `yaml:"binary"`
	ProbeBinary string `yaml:"probe_binary"`
	LogLevel    string `yaml:"loglevel"`
}

// TrimConfig contains trim defaults
type TrimConfig struct {
	Mode            string `yaml:"mode"`
	VideoCodec      string `yaml:"video_codec"`
	AudioCodec      string `yaml:"audio_codec"`
	OutputSuffix    string `yaml:"output_suffix"`
	OutputExtension string `yaml:"output_extension"`
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{
			Binary:      "ffmpeg",
			ProbeBinary: "ffprobe",
			LogLevel:    ffmpeg.DefaultLogLevel,
		},
		Trim: TrimConfig{
			Mode:            video.FastCopy.String(),
			VideoCodec:      ffmpeg.DefaultVideoCodec,
			AudioCodec:      ffmpeg.DefaultAudioCodec,
			OutputSuffix:    video.DefaultOutputSuffix,
			OutputExtension: video.DefaultOutputExtension,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file is absent
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be fixed by defaults
func (c *Config) Validate() error {
	if _, err := video.ParseMode(c.Trim.Mode); err != nil {
		return fmt.Errorf("invalid trim.mode: %w", err)
	}
	return nil
}

// PlanOptions returns the immutable planner options described by the config
func (c *Config) PlanOptions() (video.PlanOptions, error) {
	mode, err := video.ParseMode(c.Trim.Mode)
	if err != nil {
		return video.PlanOptions{}, err
	}

	naming := video.DefaultOutputNaming()
	if c.Trim.OutputSuffix != "" {
		naming.Suffix = c.Trim.OutputSuffix
	}
	if c.Trim.OutputExtension != "" {
		naming.Extension = c.Trim.OutputExtension
	}

	return video.PlanOptions{Mode: mode, Naming: naming}, nil
}

// Encoding returns the ffmpeg encoder settings described by the config
func (c *Config) Encoding() ffmpeg.Encoding {
	return ffmpeg.Encoding{
		VideoCodec: c.Trim.VideoCodec,
		AudioCodec: c.Trim.AudioCodec,
		LogLevel:   c.FFmpeg.LogLevel,
	}
}
