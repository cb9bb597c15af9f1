// Package config loads the application configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"emotion-detector/domain/history"
	"emotion-detector/infrastructure/classifier"
	"emotion-detector/infrastructure/imageproc"
	"emotion-detector/infrastructure/logging"
)

// EnvPath overrides the config file location.
const EnvPath = "EMOTION_DETECTOR_CONFIG"

// Config is the root of config.yaml.
type Config struct {
	Model      ModelConfig      `yaml:"model"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	History    HistoryConfig    `yaml:"history"`
	Chart      ChartConfig      `yaml:"chart"`
	Demo       DemoConfig       `yaml:"demo"`
	Log        LogConfig        `yaml:"log"`
}

type ModelConfig struct {
	Backend       string        `yaml:"backend"`
	Path          string        `yaml:"path"`
	MetadataPath  string        `yaml:"metadata_path"`
	SharedLibrary string        `yaml:"shared_library"`
	RemoteURL     string        `yaml:"remote_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type PreprocessConfig struct {
	Size   int    `yaml:"size"`
	Filter string `yaml:"filter"`
}

type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// ChartConfig controls the distribution chart.
type ChartConfig struct {
	// AnnotationThreshold is the percentage a bar must exceed to get a value label.
	AnnotationThreshold float64 `yaml:"annotation_threshold"`
}

// DemoConfig controls the fallback sampler. Seed 0 seeds from the clock.
type DemoConfig struct {
	Seed uint64 `yaml:"seed"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Dir       string `yaml:"dir"`
	AddSource bool   `yaml:"add_source"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cc := classifier.DefaultConfig()
	pc := imageproc.DefaultConfig()
	return &Config{
		Model: ModelConfig{
			Backend: cc.Backend,
			Path:    cc.ModelPath,
			Timeout: cc.Timeout,
		},
		Preprocess: PreprocessConfig{
			Size:   pc.Size,
			Filter: pc.Filter,
		},
		History: HistoryConfig{Capacity: history.DefaultCapacity},
		Chart:   ChartConfig{AnnotationThreshold: 1.0},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns $EMOTION_DETECTOR_CONFIG, or
// os.UserConfigDir()/emotion-detector/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, logging.AppDir, "config.yaml")
}

// Load reads path over the defaults. An empty path means DefaultPath().
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case classifier.BackendONNX, classifier.BackendNone:
	case classifier.BackendRemote:
		if c.Model.RemoteURL == "" {
			return errors.New("model.remote_url is required for the remote backend")
		}
	default:
		return fmt.Errorf("model.backend: unknown backend %q", c.Model.Backend)
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("model.timeout must not be negative")
	}
	if c.Preprocess.Size <= 0 {
		return fmt.Errorf("preprocess.size must be positive, got %d", c.Preprocess.Size)
	}
	if _, err := imageproc.ParseFilter(c.Preprocess.Filter); err != nil {
		return fmt.Errorf("preprocess.filter: %w", err)
	}
	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be at least 1, got %d", c.History.Capacity)
	}
	if t := c.Chart.AnnotationThreshold; t < 0 || t > 100 {
		return fmt.Errorf("chart.annotation_threshold must be within [0,100], got %v", t)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ClassifierConfig returns the model section as a classifier.Config.
func (c *Config) ClassifierConfig() classifier.Config {
	return classifier.Config{
		Backend:           c.Model.Backend,
		ModelPath:         c.Model.Path,
		MetadataPath:      c.Model.MetadataPath,
		SharedLibraryPath: c.Model.SharedLibrary,
		RemoteURL:         c.Model.RemoteURL,
		Timeout:           c.Model.Timeout,
		ImageSize:         c.Preprocess.Size,
	}
}

// PreprocessorConfig returns the preprocess section as an imageproc.Config.
func (c *Config) PreprocessorConfig(logger *slog.Logger) imageproc.Config {
	return imageproc.Config{
		Size:   c.Preprocess.Size,
		Filter: c.Preprocess.Filter,
		Logger: logger,
	}
}

// LoggingConfig returns the log section over logging.DefaultConfig().
func (c *Config) LoggingConfig() (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Dir = c.Log.Dir
	lc.AddSource = c.Log.AddSource
	return lc, nil
}
