package presentation

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"emotion-detector/core/state"
	"emotion-detector/domain/emotion"
	"emotion-detector/domain/history"
	"emotion-detector/infrastructure/imageproc"
)

const (
	windowTitle    = "Emotion Detection Dashboard"
	prefKeyLastDir = "last_dir"
	clockFormat    = "2006-01-02 15:04:05"
	noResultText   = "N/A"
)

var (
	titleBarColor = color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	versionColor  = color.NRGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0xff}
	demoColor     = color.NRGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}
)

// controlState says which buttons are enabled.
type controlState struct {
	Upload  bool
	Camera  bool
	Analyze bool
	Clear   bool
}

func controlsFor(s state.DisplayState) controlState {
	return controlState{
		Upload:  s.CanLoad(),
		Camera:  s.CanLoad(),
		Analyze: s.CanAnalyze(),
		Clear:   s.CanClear(),
	}
}

func modelStatusText(loaded bool, backend, reason string) string {
	if loaded {
		return fmt.Sprintf("Model loaded (%s)", backend)
	}
	if reason == "" {
		return "DEMO MODE: model unavailable, results are random"
	}
	return fmt.Sprintf("DEMO MODE: %s", reason)
}

func completionText(p *emotion.Prediction) string {
	text := fmt.Sprintf("Analysis complete: %s detected", p.Label())
	if p.IsDemo() {
		text += " (demo)"
	}
	return text
}

// MainWindow is the dashboard window.
type MainWindow struct {
	app     fyne.App
	window  fyne.Window
	bridge  *UIEventBridge
	palette *emotion.Palette
	logger  *slog.Logger

	// Controls
	uploadBtn  *widget.Button
	cameraBtn  *widget.Button
	analyzeBtn *widget.Button
	clearBtn   *widget.Button

	// Preview
	preview   *ImagePreview
	infoLabel *widget.Label

	// Results
	emotionText     *canvas.Text
	confidenceLabel *widget.Label
	chart           *DistributionChart
	historyTable    *HistoryTable

	// Title and status bars
	demoBadge   *canvas.Text
	statusLabel *widget.Label
	clockLabel  *widget.Label

	clockStop   chan struct{}
	cleanupOnce sync.Once
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App     fyne.App
	Bridge  *UIEventBridge
	Palette *emotion.Palette
	// AnnotationThreshold is passed to the distribution chart.
	AnnotationThreshold float64
	Version             string
	Logger              *slog.Logger
}

// NewMainWindow creates the main window.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Palette == nil {
		cfg.Palette = emotion.NewPalette()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	w := &MainWindow{
		app:     cfg.App,
		window:  cfg.App.NewWindow(windowTitle),
		bridge:  cfg.Bridge,
		palette: cfg.Palette,
		logger:  cfg.Logger,
	}

	w.init(cfg.Version, cfg.AnnotationThreshold)
	w.setupEventCallbacks()
	w.applyState(state.StateEmpty)
	if w.bridge != nil {
		w.syncFromAnalyzer()
	}

	w.window.SetOnDropped(func(pos fyne.Position, uris []fyne.URI) {
		w.handleDropped(uris)
	})
	w.window.SetOnClosed(func() {
		w.Cleanup()
		cfg.App.Quit()
	})

	return w
}

func (w *MainWindow) init(version string, threshold float64) {
	left := container.NewBorder(w.createControls(), nil, nil, nil, w.createPreviewCard())
	right := container.NewBorder(nil, w.createHistoryCard(), nil, nil, w.createResultsCard(threshold))

	split := container.NewHSplit(left, right)
	split.SetOffset(0.5)

	content := container.NewBorder(w.createTitleBar(version), w.createStatusBar(), nil, nil,
		container.NewPadded(split))
	w.window.SetContent(content)
	w.window.Resize(fyne.NewSize(1100, 700))
}

func (w *MainWindow) createTitleBar(version string) fyne.CanvasObject {
	title := canvas.NewText("EMOTION DETECTION", color.White)
	title.TextSize = 18
	title.TextStyle = fyne.TextStyle{Bold: true}

	w.demoBadge = canvas.NewText("DEMO MODE", demoColor)
	w.demoBadge.TextStyle = fyne.TextStyle{Bold: true}
	w.demoBadge.Hide()

	versionText := canvas.NewText("v"+version, versionColor)

	bg := canvas.NewRectangle(titleBarColor)
	bg.SetMinSize(fyne.NewSize(0, 60))

	row := container.NewHBox(
		title,
		layout.NewSpacer(),
		w.demoBadge,
		versionText,
	)
	return container.NewStack(bg, container.NewPadded(row))
}

func (w *MainWindow) createControls() fyne.CanvasObject {
	w.uploadBtn = widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), w.handleUpload)
	w.uploadBtn.Importance = widget.HighImportance

	w.cameraBtn = widget.NewButtonWithIcon("Camera", theme.MediaPhotoIcon(), w.handleCamera)

	w.analyzeBtn = widget.NewButtonWithIcon("Analyze", theme.SearchIcon(), w.handleAnalyze)
	w.analyzeBtn.Importance = widget.SuccessImportance

	w.clearBtn = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), w.handleClear)
	w.clearBtn.Importance = widget.DangerImportance

	return widget.NewCard("Controls", "", container.NewHBox(
		w.uploadBtn,
		w.cameraBtn,
		w.analyzeBtn,
		w.clearBtn,
	))
}

func (w *MainWindow) createPreviewCard() fyne.CanvasObject {
	w.preview = NewImagePreview(fyne.NewSize(400, 300))
	w.infoLabel = widget.NewLabel("")
	w.infoLabel.Importance = widget.LowImportance

	return widget.NewCard("Image Preview", "", container.NewBorder(nil, w.infoLabel, nil, nil, w.preview))
}

func (w *MainWindow) createResultsCard(threshold float64) fyne.CanvasObject {
	header := widget.NewLabelWithStyle("Detected Emotion", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	w.emotionText = canvas.NewText(noResultText, emotion.DefaultAccent)
	w.emotionText.TextSize = 28
	w.emotionText.TextStyle = fyne.TextStyle{Bold: true}
	w.emotionText.Alignment = fyne.TextAlignCenter

	w.confidenceLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	w.chart = NewDistributionChart(w.palette, threshold)

	top := container.NewVBox(header, w.emotionText, w.confidenceLabel)
	return widget.NewCard("Analysis Results", "", container.NewBorder(top, nil, nil, nil, w.chart))
}

func (w *MainWindow) createHistoryCard() fyne.CanvasObject {
	w.historyTable = NewHistoryTable()

	minHeight := canvas.NewRectangle(color.Transparent)
	minHeight.SetMinSize(fyne.NewSize(0, 150))

	return widget.NewCard("Recent History", "", container.NewStack(minHeight, w.historyTable))
}

func (w *MainWindow) createStatusBar() fyne.CanvasObject {
	w.statusLabel = widget.NewLabel("Ready")
	w.clockLabel = widget.NewLabel(time.Now().Format(clockFormat))
	return container.NewHBox(w.statusLabel, layout.NewSpacer(), w.clockLabel)
}

func (w *MainWindow) setupEventCallbacks() {
	if w.bridge == nil {
		return
	}

	w.bridge.SetCallbacks(&UICallbacks{
		OnModelStatus: func(loaded bool, backend, reason string) {
			fyne.Do(func() {
				w.showModelStatus(loaded, backend, reason)
			})
		},
		OnStateChanged: func(oldState, newState state.DisplayState) {
			w.logger.Debug("Display state changed", "from", oldState, "to", newState)
			fyne.Do(func() {
				w.applyState(newState)
			})
		},
		OnImageLoaded: func(path, summary string) {
			// Decoding runs here, off the UI thread.
			img, err := imageproc.OpenPreview(path, imageproc.PreviewWidth)
			if err != nil {
				w.logger.Warn("Failed to render preview", "path", path, "error", err)
			}
			fyne.Do(func() {
				w.showImage(path, img, summary)
				if err != nil {
					dialog.ShowError(err, w.window)
				}
			})
		},
		OnAnalysisStarted: func(path string) {
			fyne.Do(func() {
				w.statusLabel.SetText("Analyzing " + filepath.Base(path) + "...")
			})
		},
		OnAnalysisCompleted: func(path string, p *emotion.Prediction) {
			fyne.Do(func() {
				w.showResult(p)
			})
		},
		OnAnalysisFailed: func(operation, path string, err error) {
			w.logger.Warn("Operation failed", "operation", operation, "path", path, "error", err)
			fyne.Do(func() {
				w.statusLabel.SetText(fmt.Sprintf("%s failed", operation))
				dialog.ShowError(err, w.window)
			})
		},
		OnHistoryChanged: func(entries []history.Entry) {
			fyne.Do(func() {
				w.historyTable.SetEntries(entries)
			})
		},
		OnDisplayCleared: func() {
			fyne.Do(func() {
				w.resetDisplay()
			})
		},
	})
}

// syncFromAnalyzer shows whatever the analyzer already holds.
func (w *MainWindow) syncFromAnalyzer() {
	w.applyState(w.bridge.State())
	w.historyTable.SetEntries(w.bridge.History())
	if p := w.bridge.LastPrediction(); p != nil {
		w.showResult(p)
	}
	if path := w.bridge.CurrentFile(); path != "" {
		w.statusLabel.SetText("Loaded: " + filepath.Base(path))
	}
}

// UI updates. Callers must be on the fyne thread.

func (w *MainWindow) applyState(s state.DisplayState) {
	c := controlsFor(s)
	setEnabled(w.uploadBtn, c.Upload)
	setEnabled(w.cameraBtn, c.Camera)
	setEnabled(w.analyzeBtn, c.Analyze)
	setEnabled(w.clearBtn, c.Clear)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (w *MainWindow) showModelStatus(loaded bool, backend, reason string) {
	w.statusLabel.SetText(modelStatusText(loaded, backend, reason))
	if loaded {
		w.demoBadge.Hide()
		w.window.SetTitle(windowTitle)
	} else {
		w.demoBadge.Show()
		w.window.SetTitle(windowTitle + " [DEMO MODE]")
	}
	w.demoBadge.Refresh()
}

func (w *MainWindow) showImage(path string, img image.Image, summary string) {
	w.preview.SetImage(img)
	w.infoLabel.SetText(summary)
	w.clearResult()
	w.statusLabel.SetText("Loaded: " + filepath.Base(path))
}

func (w *MainWindow) showResult(p *emotion.Prediction) {
	w.emotionText.Text = p.Label().Upper()
	w.emotionText.Color = w.palette.Color(p.Label())
	w.emotionText.Refresh()
	w.confidenceLabel.SetText(p.ConfidenceText())
	w.chart.SetPrediction(p)
	w.statusLabel.SetText(completionText(p))
}

func (w *MainWindow) clearResult() {
	w.emotionText.Text = noResultText
	w.emotionText.Color = emotion.DefaultAccent
	w.emotionText.Refresh()
	w.confidenceLabel.SetText("")
	w.chart.Clear()
}

func (w *MainWindow) resetDisplay() {
	w.preview.Clear()
	w.infoLabel.SetText("")
	w.clearResult()
	w.statusLabel.SetText("Ready")
}

// Actions

func (w *MainWindow) handleUpload() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		w.saveLastDir(path)
		go w.loadImage(path)
	}, w.window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageproc.Extensions))
	if loc := w.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (w *MainWindow) handleDropped(uris []fyne.URI) {
	for _, uri := range uris {
		path := uri.Path()
		if imageproc.IsSupported(path) {
			go w.loadImage(path)
			return
		}
	}
	if len(uris) > 0 {
		dialog.ShowInformation("Unsupported file", "Drop a JPEG, PNG, BMP, GIF, TIFF or WebP image.", w.window)
	}
}

func (w *MainWindow) loadImage(path string) {
	if w.bridge == nil {
		return
	}
	if err := w.bridge.LoadImage(path); err != nil {
		w.logger.Debug("Load rejected", "path", path, "error", err)
	}
}

func (w *MainWindow) handleAnalyze() {
	if w.bridge == nil {
		return
	}
	go func() {
		if err := w.bridge.Analyze(); err != nil {
			w.logger.Debug("Analyze rejected", "error", err)
		}
	}()
}

func (w *MainWindow) handleClear() {
	if w.bridge == nil {
		return
	}
	go func() {
		if err := w.bridge.Clear(); err != nil {
			w.logger.Debug("Clear rejected", "error", err)
		}
	}()
}

func (w *MainWindow) handleCamera() {
	if w.bridge == nil {
		return
	}
	go func() {
		if err := w.bridge.CaptureCamera(); err != nil {
			w.logger.Debug("Camera rejected", "error", err)
		}
	}()
}

func (w *MainWindow) getLastDir() fyne.ListableURI {
	path := w.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (w *MainWindow) saveLastDir(filePath string) {
	w.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Lifecycle

// Show displays the window and starts the status bar clock.
func (w *MainWindow) Show() {
	w.startClock()
	w.window.Show()
}

func (w *MainWindow) startClock() {
	if w.clockStop != nil {
		return
	}
	w.clockStop = make(chan struct{})
	stop := w.clockStop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				fyne.Do(func() {
					w.clockLabel.SetText(now.Format(clockFormat))
				})
			}
		}
	}()
}

// Cleanup stops the clock and detaches from the bridge.
func (w *MainWindow) Cleanup() {
	w.cleanupOnce.Do(func() {
		if w.clockStop != nil {
			close(w.clockStop)
		}
		if w.bridge != nil {
			w.bridge.SetCallbacks(nil)
		}
		w.logger.Info("Main window cleaned up")
	})
}
