package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMesh       = flag.String("mesh", "", "Path to the OBJ mesh to open")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagNoWatch    = flag.Bool("no-watch", false, "Disable reloading the mesh when it changes on disk")
	flagTangents   = flag.Bool("tangents", false, "Start with the tangent frame overlay on")
	flagBounds     = flag.Bool("bounds", false, "Start with the bounding box overlay on")
	flagDegenUV    = flag.String("degenerate-uv", "", "Degenerate UV policy: propagate or skip")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether -save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
// A positional argument names the mesh when -mesh is not set.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMesh != "" {
		cfg.Mesh.Path = *flagMesh
	} else if flag.NArg() > 0 {
		cfg.Mesh.Path = flag.Arg(0)
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagNoWatch {
		cfg.Watch.Enabled = false
	}
	if *flagTangents {
		cfg.Mesh.ShowTangents = true
	}
	if *flagBounds {
		cfg.Mesh.ShowBounds = true
	}
	if *flagDegenUV != "" {
		cfg.Mesh.DegenerateUV = *flagDegenUV
	}
}
