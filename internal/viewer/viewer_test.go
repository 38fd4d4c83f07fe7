package viewer

import (
	"errors"
	"testing"

	"github.com/Faultbox/objview/internal/config"
)

func TestScreenshotPrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"teapot.obj", "teapot"},
		{"/models/cube.OBJ", "cube"},
		{"dir/archive.tar.obj", "archive.tar"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := screenshotPrefix(tt.path); got != tt.want {
			t.Errorf("screenshotPrefix(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewRequiresMesh(t *testing.T) {
	cfg := config.Default()
	if _, err := New(cfg); !errors.Is(err, ErrNoMesh) {
		t.Fatalf("expected ErrNoMesh, got %v", err)
	}
}
