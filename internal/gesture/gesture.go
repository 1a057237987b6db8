// Package gesture implements the modal sub-mode that edits one tool property
// by horizontal pointer travel or wheel steps while previewing the result.
package gesture

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Slot is the logical shortcut a gesture is bound to.
type Slot int

const (
	Primary Slot = iota
	Secondary
	Tertiary
	Quaternary
)

var slotNames = [...]string{"primary", "secondary", "tertiary", "quaternary"}

func (s Slot) String() string { return slotNames[s] }

// Slots lists every slot in order.
func Slots() []Slot { return []Slot{Primary, Secondary, Tertiary, Quaternary} }

// ParseSlot resolves a slot name.
func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == strings.ToLower(name) {
			return Slot(i), true
		}
	}
	return 0, false
}

// Widget is the preview kind drawn while a gesture is active.
type Widget string

const (
	Radius3D            Widget = "RADIUS_3D"
	Radius2D            Widget = "RADIUS_2D"
	Radius25D           Widget = "RADIUS_2.5D"
	Strength3D          Widget = "STRENGTH_3D"
	Strength25D         Widget = "STRENGTH_2.5D"
	Strength2D          Widget = "STRENGTH_2D"
	StrengthMinusPlus3D Widget = "STRENGTH_MINUS_PLUS_3D"
	Angle3D             Widget = "ANGLE_3D"
	Count3D             Widget = "COUNT_3D"
	Length3D            Widget = "LENGTH_3D"
	Boolean2D           Widget = "BOOLEAN_2D"
	Boolean3D           Widget = "BOOLEAN_3D"
	Enum2D              Widget = "ENUM_2D"
	Enum3D              Widget = "ENUM_3D"
	Tooltip2D           Widget = "TOOLTIP_2D"
	Tooltip3D           Widget = "TOOLTIP_3D"
	Scale3D             Widget = "SCALE_3D"
	Density3D           Widget = "DENSITY_3D"
	FunctionCall        Widget = "FUNCTION_CALL"
)

// Space is the pointer context a gesture needs.
type Space int

const (
	Space2D  Space = iota // region only
	Space3D               // pointer must be on a surface
	Space25D              // drawn in the region around a surface location
)

func (s Space) String() string {
	switch s {
	case Space3D:
		return "3D"
	case Space25D:
		return "2.5D"
	default:
		return "2D"
	}
}

// Space derives the pointer context from the widget kind suffix.
func (w Widget) Space() Space {
	switch {
	case strings.HasSuffix(string(w), "_2.5D"):
		return Space25D
	case strings.HasSuffix(string(w), "_3D"):
		return Space3D
	default:
		return Space2D
	}
}

// NeedsSurface reports whether the gesture can only start on a surface.
func (s Space) NeedsSurface() bool { return s != Space2D }

// isLength marks widgets whose value is a world distance driven by pixels.
func (w Widget) isLength() bool {
	return w == Radius3D || w == Radius25D || w == Length3D
}

// Definition binds one property to a gesture.
type Definition struct {
	Property string
	// Change is the value delta per ChangePixels of horizontal travel.
	// Length widgets ignore both and convert travel through the pixel size
	// at the pointer unless Exponential is set.
	Change       float64
	ChangePixels float64
	ChangeWheel  float64
	// Format renders the value, e.g. "Radius: %.3f". Vec3 values pass
	// three arguments.
	Format string
	Widget Widget
	// Exponential scales the value by 2^steps instead of adding.
	Exponential bool
	// Text is shown by tooltip widgets.
	Text string
	// Call runs instead of entering the gesture for FUNCTION_CALL.
	Call func() error
}

// Label formats v with the definition's format string.
func (d Definition) Label(v any) string {
	format := d.Format
	if format == "" {
		format = d.Property + ": %v"
	}
	if vec, ok := v.(mgl64.Vec3); ok {
		return fmt.Sprintf(format, vec[0], vec[1], vec[2])
	}
	return fmt.Sprintf(format, v)
}

// Definitions maps slots to definitions for one tool.
type Definitions map[Slot]Definition
