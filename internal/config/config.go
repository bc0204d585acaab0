// Package config handles studio configuration loading and management.
package config

import "time"

// Config holds all studio settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Surface     SurfaceConfig     `yaml:"surface"`
	Model       ModelConfig       `yaml:"model"`
	Camera      CameraConfig      `yaml:"camera"`
	Transitions TransitionsConfig `yaml:"transitions"`
	Garments    []GarmentConfig   `yaml:"garments"`
	Assets      AssetsConfig      `yaml:"assets"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// SurfaceConfig holds drawing surface settings.
type SurfaceConfig struct {
	Size        int    `yaml:"size"`         // square, power of two
	PreviewSize int    `yaml:"preview_size"` // preview export edge
	EditTarget  string `yaml:"edit_target"`  // component new artwork is placed on
	CornerColor string `yaml:"corner_color"`
}

// ModelConfig holds the garment model location.
type ModelConfig struct {
	Path  string `yaml:"path"`
	Intro bool   `yaml:"intro"` // play the entrance animation on load
}

// CameraConfig holds orbit camera limits.
type CameraConfig struct {
	FOV         float32 `yaml:"fov"` // degrees
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	Damping     float32 `yaml:"damping"`
}

// TransitionsConfig holds color animation timings.
type TransitionsConfig struct {
	BackgroundDuration time.Duration `yaml:"background_duration"`
	BackgroundStep     time.Duration `yaml:"background_step"`
	MeshDuration       time.Duration `yaml:"mesh_duration"`
}

// GarmentConfig is one palette entry.
type GarmentConfig struct {
	Name      string `yaml:"name"`
	MeshColor string `yaml:"mesh_color"` // #rrggbb
	BaseImage string `yaml:"base_image"`
}

// AssetsConfig holds asset search paths.
type AssetsConfig struct {
	Roots []string `yaml:"roots"`
	Inbox string   `yaml:"inbox"` // watched for dropped artwork; empty disables
}

// ExportConfig holds snapshot output settings.
type ExportConfig struct {
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
			Width:    1280,
			Height:   800,
			VSync:    true,
			FPSLimit: 60,
		},
		Surface: SurfaceConfig{
			Size:        1024,
			PreviewSize: 256,
			EditTarget:  "bodyFMIX",
			CornerColor: "#ff0000",
		},
		Model: ModelConfig{
			Path:  "models/shirt.obj",
			Intro: true,
		},
		Camera: CameraConfig{
			FOV:         35,
			MinDistance: 16.1,
			MaxDistance: 35,
			Damping:     0.161,
		},
		Transitions: TransitionsConfig{
			BackgroundDuration: 400 * time.Millisecond,
			BackgroundStep:     10 * time.Millisecond,
			MeshDuration:       400 * time.Millisecond,
		},
		Garments: []GarmentConfig{
			{Name: "white", MeshColor: "#ffffff", BaseImage: "garments/white.png"},
			{Name: "black", MeshColor: "#000000", BaseImage: "garments/black.png"},
			{Name: "forest", MeshColor: "#36473a", BaseImage: "garments/forest.png"},
			{Name: "charcoal", MeshColor: "#323232", BaseImage: "garments/charcoal.png"},
			{Name: "silver", MeshColor: "#c8c8c8", BaseImage: "garments/silver.png"},
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Garment returns the palette entry called name.
func (c *Config) Garment(name string) (GarmentConfig, bool) {
	for _, g := range c.Garments {
		if g.Name == name {
			return g, true
		}
	}
	return GarmentConfig{}, false
}
