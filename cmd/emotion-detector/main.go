// Package main is the entry point for the emotion detection dashboard.
package main

import (
	"context"
	"os"
	"time"

	"emotion-detector/application"
	"emotion-detector/core/eventbus"
	"emotion-detector/domain/history"
	"emotion-detector/infrastructure/classifier"
	"emotion-detector/infrastructure/config"
	"emotion-detector/infrastructure/imageproc"
	"emotion-detector/infrastructure/logging"
	"emotion-detector/presentation"
	"emotion-detector/resources"

	"fyne.io/fyne/v2/app"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0"

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvPath))
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logCfg, err := cfg.LoggingConfig()
	if err != nil {
		os.Stderr.WriteString("Invalid log config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logging (dev: console only, prod: rotating file)
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		// Fallback to stderr if logging setup fails
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("Starting emotion detector", "version", version)

	palette, err := resources.LoadPalette()
	if err != nil {
		logger.Error("Failed to load palette", "error", err)
		os.Exit(1)
	}

	preprocessor, err := imageproc.NewPreprocessor(cfg.PreprocessorConfig(logger))
	if err != nil {
		logger.Error("Failed to create preprocessor", "error", err)
		os.Exit(1)
	}

	// A model that fails to load leaves the app in demo mode.
	classifierCfg := cfg.ClassifierConfig()
	classifierCfg.ImageSize = preprocessor.Size()
	handle := classifier.Load(context.Background(), classifierCfg, logger)
	defer handle.Close()

	adapter := classifier.NewAdapter(handle, classifier.NewDirichletSampler(cfg.Demo.Seed), logger)

	// Initialize event bus
	eventBus := eventbus.New(100, logger)
	defer eventBus.Close()

	analyzer := application.NewAnalyzer(&application.Config{
		EventBus:     eventBus,
		Preprocessor: preprocessor,
		Classifier:   adapter,
		History:      history.New(cfg.History.Capacity),
		ModelReason:  handle.Reason(),
		Logger:       logger,
	})
	defer analyzer.Stop()

	// Initialize UI event bridge
	bridge := presentation.NewUIEventBridge(&presentation.BridgeConfig{
		Analyzer: analyzer,
		EventBus: eventBus,
		Logger:   logger,
	})
	defer bridge.Close()

	// Initialize Fyne app
	fyneApp := app.NewWithID("io.github.emotion-detector")
	fyneApp.SetIcon(resources.GetAppIcon())

	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:                 fyneApp,
		Bridge:              bridge,
		Palette:             palette,
		AnnotationThreshold: cfg.Chart.AnnotationThreshold,
		Version:             version,
		Logger:              logger,
	})
	defer mainWindow.Cleanup()

	// The window's callbacks are registered, so the model status reaches it.
	analyzer.Start()

	// Show and run
	mainWindow.Show()
	fyneApp.Run()

	// Start shutdown timeout - force exit after 10 seconds if cleanup hangs
	go func() {
		time.Sleep(10 * time.Second)
		logger.Warn("Shutdown timeout, forcing exit")
		os.Exit(0)
	}()

	logger.Info("Application shutdown complete")
}
