//go:build !prod

package logging

import (
	"log/slog"
	"os"
)

// Setup installs a stdout text logger as the global logger.
// The returned close function is a no-op.
func Setup(cfg *Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := slog.New(newHandler(os.Stdout, cfg)).With("app", AppDir)
	setGlobal(logger)

	return logger, func() error { return nil }, nil
}
