// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Watch   WatchConfig   `yaml:"watch"`
	Light   LightConfig   `yaml:"light"`
	Capture CaptureConfig `yaml:"capture"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// MeshConfig holds mesh import settings.
type MeshConfig struct {
	Path            string `yaml:"path"`
	GenerateNormals bool   `yaml:"generate_normals"`
	DegenerateUV    string `yaml:"degenerate_uv"` // propagate or skip
	ShowTangents    bool   `yaml:"show_tangents"`
	ShowBounds      bool   `yaml:"show_bounds"`
}

// WatchConfig holds hot reload settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LightConfig places the directional light, in degrees.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "objview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Mesh: MeshConfig{
			GenerateNormals: true,
			DegenerateUV:    model.DegenerateUVPropagate.String(),
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		Light: LightConfig{
			Azimuth:   35,
			Elevation: 55,
		},
		Capture: CaptureConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// LoadOptions converts the mesh section into pipeline options.
func (m MeshConfig) LoadOptions() (model.LoadOptions, error) {
	policy, err := model.ParseDegenerateUVPolicy(m.DegenerateUV)
	if err != nil {
		return model.LoadOptions{}, fmt.Errorf("mesh.degenerate_uv: %w", err)
	}
	return model.LoadOptions{
		GenerateNormals: m.GenerateNormals,
		Tangents:        model.TangentOptions{DegenerateUV: policy},
	}, nil
}

// Validate checks values that cannot be checked while unmarshalling.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := c.Mesh.LoadOptions(); err != nil {
		return err
	}
	if c.Light.Elevation < -90 || c.Light.Elevation > 90 {
		return fmt.Errorf("light.elevation %v must be within [-90, 90]", c.Light.Elevation)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce %v must not be negative", c.Watch.Debounce)
	}
	return nil
}
