package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagKeymap = flag.String("keymap", "", "Path to user keymap overrides (.yaml or .toml)")
	flagTool   = flag.String("tool", "", "Brush tool to activate on start")
	flagSeed   = flag.Uint64("seed", 0, "Random seed for reproducible strokes (0 = time based)")
	flagWidth  = flag.Int("width", 0, "Viewport width")
	flagHeight = flag.Int("height", 0, "Viewport height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
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
	if *flagKeymap != "" {
		cfg.Keymap.Path = *flagKeymap
	}
	if *flagTool != "" {
		cfg.Brushes.DefaultTool = *flagTool
	}
	if *flagSeed != 0 {
		cfg.Brushes.Seed = *flagSeed
	}
	if *flagWidth > 0 {
		cfg.Viewport.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewport.Height = *flagHeight
	}
}
