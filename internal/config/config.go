// Package config handles meshkit configuration loading and management.
package config

// Config holds all tool and viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds display settings for meshview.
type ViewerConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FOVDegrees float32    `yaml:"fov_degrees"`
	Background [3]float32 `yaml:"background"` // Clear color (RGB, 0-1)
	// KeyLight adds a directional light at the given angles (degrees).
	// Without it only the headlight shades the mesh.
	KeyLight       bool    `yaml:"key_light"`
	LightLongitude float32 `yaml:"light_longitude"`
	LightLatitude  float32 `yaml:"light_latitude"`
	// Texture is an image (PNG, JPEG, BMP or TGA) mapped with the mesh
	// texture coordinates. Empty draws the checkerboard.
	Texture string `yaml:"texture"`
	// Watch reloads the mesh when its file changes on disk.
	Watch bool `yaml:"watch"`
	// ScreenshotDir receives PNG captures. Empty means the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// MeshConfig controls how loaded meshes are turned into GPU buffers.
type MeshConfig struct {
	// Format forces a loader by name ("obj", "stl", "gltf", "glb").
	// Empty means use the file extension.
	Format string `yaml:"format"`
	// FlipV mirrors texture V once after flattening (v' = 1 - v).
	FlipV bool `yaml:"flip_v"`
	// Deduplicate merges corners that share the same index triple.
	Deduplicate bool `yaml:"deduplicate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	// TraceLoader enables step tracing inside file loaders.
	TraceLoader bool `yaml:"trace_loader"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 45,
			Background: [3]float32{0.1, 0.1, 0.15},

			KeyLight:       true,
			LightLongitude: 45,
			LightLatitude:  45,
			ScreenshotDir:  "screenshots",
		},
		Mesh: MeshConfig{
			Format:      "",
			FlipV:       true,
			Deduplicate: false,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogFile:     "",
			TraceLoader: false,
		},
	}
}
