package command

import "testing"

func TestCommand_Names(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
	}{
		{NewLoadImage("face.jpg"), "LoadImage"},
		{&AnalyzeImage{}, "AnalyzeImage"},
		{&ClearDisplay{}, "ClearDisplay"},
		{&CaptureCamera{}, "CaptureCamera"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.cmd.CommandName(); got != tt.expected {
				t.Errorf("CommandName() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewLoadImage(t *testing.T) {
	cmd := NewLoadImage("/tmp/face.png")
	if cmd.Path != "/tmp/face.png" {
		t.Errorf("Path = %v, want /tmp/face.png", cmd.Path)
	}
}
