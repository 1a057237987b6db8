// Package kit holds the pieces the brush kernels share: gesture presets,
// surface snapping, per-point frames and lasso polygons.
package kit

import (
	"github.com/Faultbox/scatterbrush/internal/gesture"
)

// Radius3D edits the world brush radius.
func Radius3D() gesture.Definition {
	return gesture.Definition{
		Property:    "radius",
		ChangeWheel: 0.1,
		Format:      "Radius: %.3f",
		Widget:      gesture.Radius3D,
	}
}

// Radius2D edits the screen brush radius.
func Radius2D() gesture.Definition {
	return gesture.Definition{
		Property:     "radius_2d",
		Change:       1,
		ChangePixels: 1,
		ChangeWheel:  5,
		Format:       "Radius: %.0f px",
		Widget:       gesture.Radius2D,
	}
}

// Factor edits a 0..1 property drawn around the 3D cursor.
func Factor(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:     prop,
		Change:       0.1,
		ChangePixels: 100,
		ChangeWheel:  0.05,
		Format:       label + ": %.2f",
		Widget:       gesture.Strength3D,
	}
}

// Factor2D is Factor for screen-space tools.
func Factor2D(prop, label string) gesture.Definition {
	d := Factor(prop, label)
	d.Widget = gesture.Strength2D
	return d
}

// Length edits a world distance other than the radius.
func Length(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:    prop,
		ChangeWheel: 0.05,
		Format:      label + ": %.3f",
		Widget:      gesture.Length3D,
	}
}

// Count edits an integer amount.
func Count(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:     prop,
		Change:       1,
		ChangePixels: 10,
		ChangeWheel:  1,
		Format:       label + ": %d",
		Widget:       gesture.Count3D,
	}
}

// Angle edits an angle in radians.
func Angle(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:     prop,
		Change:       0.0872665,
		ChangePixels: 10,
		ChangeWheel:  0.0872665,
		Format:       label + ": %.3f",
		Widget:       gesture.Angle3D,
	}
}

// Toggle flips a boolean property.
func Toggle(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:     prop,
		Change:       1,
		ChangePixels: 50,
		ChangeWheel:  1,
		Format:       label + ": %v",
		Widget:       gesture.Boolean2D,
	}
}

// Choice cycles an enum property.
func Choice(prop, label string) gesture.Definition {
	return gesture.Definition{
		Property:     prop,
		Change:       1,
		ChangePixels: 50,
		ChangeWheel:  1,
		Format:       label + ": %s",
		Widget:       gesture.Enum2D,
	}
}

// RadiusStrength is the common layout for radius tools with a strength.
func RadiusStrength(strength string) gesture.Definitions {
	return gesture.Definitions{
		gesture.Primary:    Radius3D(),
		gesture.Secondary:  Factor(strength, "Strength"),
		gesture.Tertiary:   Factor("falloff", "Falloff"),
		gesture.Quaternary: Factor("affect", "Affect"),
	}
}

// RadiusOnly is the layout for radius tools without a strength.
func RadiusOnly() gesture.Definitions {
	return gesture.Definitions{
		gesture.Primary:   Radius3D(),
		gesture.Secondary: Factor("falloff", "Falloff"),
		gesture.Tertiary:  Factor("affect", "Affect"),
	}
}
