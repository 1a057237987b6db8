package heaper

import (
	"errors"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/props"
)

// SeedPresets copies the configured drop settings into the tool defaults.
func SeedPresets(p *props.Presets, c config.HeaperConfig) error {
	return errors.Join(
		p.SetDefault("heaper", "drop_height", c.DropHeight),
		p.SetDefault("heaper", "max_alive", c.MaxAlive),
		p.SetDefault("heaper", "frames_alive", c.FramesAlive),
	)
}
