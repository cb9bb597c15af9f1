package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Model.Backend != "onnx" {
		t.Errorf("Model.Backend = %v, want onnx", cfg.Model.Backend)
	}
	if cfg.Preprocess.Size != 48 {
		t.Errorf("Preprocess.Size = %d, want 48", cfg.Preprocess.Size)
	}
	if cfg.History.Capacity != 10 {
		t.Errorf("History.Capacity = %d, want 10", cfg.History.Capacity)
	}
	if cfg.Chart.AnnotationThreshold != 1.0 {
		t.Errorf("Chart.AnnotationThreshold = %v, want 1.0", cfg.Chart.AnnotationThreshold)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.Capacity != 10 {
		t.Errorf("History.Capacity = %d, want default 10", cfg.History.Capacity)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
model:
  backend: remote
  remote_url: http://localhost:8080
  timeout: 2s
preprocess:
  filter: lanczos
history:
  capacity: 5
chart:
  annotation_threshold: 2.5
demo:
  seed: 99
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model.Backend != "remote" || cfg.Model.RemoteURL != "http://localhost:8080" {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Model.Timeout != 2*time.Second {
		t.Errorf("Model.Timeout = %v, want 2s", cfg.Model.Timeout)
	}
	if cfg.Preprocess.Size != 48 {
		t.Errorf("Preprocess.Size = %d, want default 48", cfg.Preprocess.Size)
	}
	if cfg.Preprocess.Filter != "lanczos" {
		t.Errorf("Preprocess.Filter = %v, want lanczos", cfg.Preprocess.Filter)
	}
	if cfg.History.Capacity != 5 {
		t.Errorf("History.Capacity = %d, want 5", cfg.History.Capacity)
	}
	if cfg.Chart.AnnotationThreshold != 2.5 {
		t.Errorf("Chart.AnnotationThreshold = %v, want 2.5", cfg.Chart.AnnotationThreshold)
	}
	if cfg.Demo.Seed != 99 {
		t.Errorf("Demo.Seed = %d, want 99", cfg.Demo.Seed)
	}

	lc, err := cfg.LoggingConfig()
	if err != nil {
		t.Fatalf("LoggingConfig() error = %v", err)
	}
	if lc.Level != slog.LevelDebug {
		t.Errorf("LoggingConfig().Level = %v, want debug", lc.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed", "model: [", "parse"},
		{"unknown backend", "model:\n  backend: tflite\n", "unknown backend"},
		{"remote without url", "model:\n  backend: remote\n", "remote_url"},
		{"bad filter", "preprocess:\n  filter: sinc\n", "filter"},
		{"zero size", "preprocess:\n  size: 0\n", "size"},
		{"zero capacity", "history:\n  capacity: 0\n", "capacity"},
		{"threshold too large", "chart:\n  annotation_threshold: 150\n", "annotation_threshold"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPath_Env(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.yaml")
	if got := DefaultPath(); got != "/tmp/custom.yaml" {
		t.Errorf("DefaultPath() = %v, want /tmp/custom.yaml", got)
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.MetadataPath = "models/meta.json"
	cfg.Model.SharedLibrary = "/usr/lib/libonnxruntime.so"

	cc := cfg.ClassifierConfig()
	if cc.ModelPath != cfg.Model.Path || cc.MetadataPath != "models/meta.json" {
		t.Errorf("ClassifierConfig() = %+v", cc)
	}
	if cc.SharedLibraryPath != "/usr/lib/libonnxruntime.so" {
		t.Errorf("SharedLibraryPath = %v", cc.SharedLibraryPath)
	}
	if cc.ImageSize != cfg.Preprocess.Size {
		t.Errorf("ImageSize = %d, want %d", cc.ImageSize, cfg.Preprocess.Size)
	}

	pc := cfg.PreprocessorConfig(nil)
	if pc.Size != 48 || pc.Filter != "nearest" {
		t.Errorf("PreprocessorConfig() = %+v", pc)
	}
}
