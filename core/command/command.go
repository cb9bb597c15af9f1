// Package command defines all commands that can be sent to the application.
// Commands represent user intentions and are processed by the application layer.
package command

// Command is the base interface for all commands.
// Commands are sent from the presentation layer to the application layer.
type Command interface {
	// CommandName returns the name of the command for logging/debugging
	CommandName() string
}

// LoadImage selects an image file for analysis.
type LoadImage struct {
	Path string
}

func NewLoadImage(path string) *LoadImage {
	return &LoadImage{Path: path}
}

func (c *LoadImage) CommandName() string {
	return "LoadImage"
}

// AnalyzeImage runs the currently selected image through the classifier.
type AnalyzeImage struct{}

func (c *AnalyzeImage) CommandName() string {
	return "AnalyzeImage"
}

// ClearDisplay drops the selected image and the result on display.
// History is kept.
type ClearDisplay struct{}

func (c *ClearDisplay) CommandName() string {
	return "ClearDisplay"
}

// CaptureCamera requests a frame from the camera.
type CaptureCamera struct{}

func (c *CaptureCamera) CommandName() string {
	return "CaptureCamera"
}
