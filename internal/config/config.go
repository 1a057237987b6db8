// Package config handles brush runtime configuration loading and management.
package config

// Config holds all runtime settings.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Viewport ViewportConfig `yaml:"viewport"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Keymap   KeymapConfig   `yaml:"keymap"`
	Brushes  BrushesConfig  `yaml:"brushes"`
	Heaper   HeaperConfig   `yaml:"heaper"`
	Relax    RelaxConfig    `yaml:"relax"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ViewportConfig holds the sandbox viewport settings.
type ViewportConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	FovDeg    float64 `yaml:"fov_deg"`
	ClipStart float64 `yaml:"clip_start"`
	ClipEnd   float64 `yaml:"clip_end"`
}

// TrackerConfig holds pointer tracking thresholds.
type TrackerConfig struct {
	DirectionMin2D       float64 `yaml:"direction_min_2d_px"` // pixels
	DirectionMin3D       float64 `yaml:"direction_min_3d"`    // world units
	InterpolationSamples int     `yaml:"interpolation_samples"`
	PathLength           int     `yaml:"path_length"`
}

// KeymapConfig points at the user shortcut overrides.
type KeymapConfig struct {
	Path  string `yaml:"path"` // .yaml, .yml or .toml
	Watch bool   `yaml:"watch"`
}

// BrushesConfig holds brush preset settings.
type BrushesConfig struct {
	PresetsPath string `yaml:"presets_path"`
	DefaultTool string `yaml:"default_tool"`
	Seed        uint64 `yaml:"seed"`
}

// HeaperConfig holds physics-fed placement settings.
type HeaperConfig struct {
	AllcloseAtol float64 `yaml:"allclose_atol"`
	FramesAlive  int     `yaml:"frames_alive"`
	MaxAlive     int     `yaml:"max_alive"`
	DropHeight   float64 `yaml:"drop_height"`
	FPS          int     `yaml:"fps"`
	MatchEpsilon float64 `yaml:"match_epsilon"`
}

// RelaxConfig holds Delaunay relax settings.
type RelaxConfig struct {
	SplitImpulseEpsilon float64 `yaml:"split_impulse_epsilon"`
	HullExpand          float64 `yaml:"hull_expand"`
	// ClearLatchOnPress lets a new stroke retry after a failed triangulation.
	ClearLatchOnPress bool `yaml:"clear_latch_on_press"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Viewport: ViewportConfig{
			Width:     1280,
			Height:    720,
			FovDeg:    50,
			ClipStart: 0.01,
			ClipEnd:   1000,
		},
		Tracker: TrackerConfig{
			DirectionMin2D:       5,
			DirectionMin3D:       0.02,
			InterpolationSamples: 8,
			PathLength:           64,
		},
		Keymap: KeymapConfig{
			Path:  "",
			Watch: true,
		},
		Brushes: BrushesConfig{
			PresetsPath: "",
			DefaultTool: "dot",
			Seed:        0,
		},
		Heaper: HeaperConfig{
			AllcloseAtol: 1e-4,
			FramesAlive:  250,
			MaxAlive:     10,
			DropHeight:   2,
			FPS:          24,
			MatchEpsilon: 1e-3,
		},
		Relax: RelaxConfig{
			SplitImpulseEpsilon: 1e-6,
			HullExpand:          0.1,
			ClearLatchOnPress:   true,
		},
	}
}
