package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTrace      = flag.Bool("trace", false, "Trace loader steps (implies -debug)")
	flagFormat     = flag.String("format", "", "Force mesh format (obj, stl, gltf, glb)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagDedupe     = flag.Bool("dedupe", false, "Merge corners sharing an index triple")
	flagNoFlipV    = flag.Bool("no-flip-v", false, "Keep texture V as stored in the file")
	flagTexture    = flag.String("texture", "", "Texture image for the mesh")
	flagWatch      = flag.Bool("watch", false, "Reload the mesh when the file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTrace {
		cfg.Logging.Level = "debug"
		cfg.Logging.TraceLoader = true
	}
	if *flagFormat != "" {
		cfg.Mesh.Format = *flagFormat
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagDedupe {
		cfg.Mesh.Deduplicate = true
	}
	if *flagNoFlipV {
		cfg.Mesh.FlipV = false
	}
	if *flagTexture != "" {
		cfg.Viewer.Texture = *flagTexture
	}
	if *flagWatch {
		cfg.Viewer.Watch = true
	}
}
