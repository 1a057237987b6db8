// Package brushes wires every scatter tool into a registry.
package brushes

import (
	"fmt"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/create"
	"github.com/Faultbox/scatterbrush/internal/brushes/erase"
	"github.com/Faultbox/scatterbrush/internal/brushes/heaper"
	"github.com/Faultbox/scatterbrush/internal/brushes/modify"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/props"
)

// Factories lists the constructor of every tool.
var Factories = []brush.Factory{
	create.NewDot,
	create.NewPath,
	create.NewChain,
	create.NewLine,
	create.NewSpatter,
	create.NewSpray,
	create.NewSprayAligned,
	create.NewLassoFill,
	create.NewClone,

	modify.NewMove,
	modify.NewFreeMove,
	modify.NewDropDown,
	modify.NewRelax,
	modify.NewAttract,
	modify.NewPush,
	modify.NewSplit,
	modify.NewTurbulence,
	modify.NewSpin,
	modify.NewComb,
	modify.NewZAlign,
	modify.NewRotationSet,
	modify.NewRandomRotation,
	modify.NewScaleSet,
	modify.NewGrowShrink,
	modify.NewObjectSet,

	erase.NewEraser,
	erase.NewDilute,
	erase.NewLassoEraser,

	heaper.NewHeaper,
}

// RegisterAll adds every tool to reg.
func RegisterAll(reg *brush.Registry) {
	for _, f := range Factories {
		reg.Register(f)
	}
}

// NewRegistry returns a registry holding every tool.
func NewRegistry() *brush.Registry {
	reg := brush.NewRegistry()
	RegisterAll(reg)
	return reg
}

// LoadPresets builds the tool defaults: the embedded presets, then the
// values seeded from cfg, then the overrides in cfg.Brushes.PresetsPath.
func LoadPresets(cfg *config.Config) (*props.Presets, error) {
	p := props.Defaults()
	if err := heaper.SeedPresets(p, cfg.Heaper); err != nil {
		return nil, fmt.Errorf("heaper config: %w", err)
	}
	if err := p.OverrideFile(cfg.Brushes.PresetsPath); err != nil {
		return nil, err
	}
	return p, nil
}
