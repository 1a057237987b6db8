// Package widget describes cursor and gesture overlays as plain data. The
// host rasterizes the primitives; nothing here touches the GPU.
package widget

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Func names the shape a primitive describes.
type Func string

const (
	FuncDot     Func = "dot"
	FuncCircle  Func = "circle"
	FuncDisc    Func = "disc"
	FuncWedge   Func = "wedge"
	FuncArrow   Func = "arrow"
	FuncBox     Func = "box"
	FuncLine    Func = "line"
	FuncCone    Func = "cone"
	FuncTooltip Func = "tooltip"
	FuncSwitch  Func = "switch"
	FuncButton  Func = "button"
	FuncNoEntry Func = "no_entry"
)

// Space tells the host which pass draws a primitive.
type Space int

const (
	Space2D Space = iota // post-pixel, region coordinates
	Space3D              // post-view, world coordinates
)

// Color is linear RGBA.
type Color [4]float32

// Primitive is one drawing request.
type Primitive struct {
	Func  Func
	Space Space
	Color Color

	// Points holds positions: the center for round shapes, the polyline
	// for lines, corners for boxes. 2D primitives use X and Y only.
	Points []mgl64.Vec3
	Normal mgl64.Vec3
	Radius float64
	// Angles in radians for wedges.
	Start, Sweep float64
	Thickness    float64
	Text         []string
	On           bool
}

// Theme holds the overlay colors.
type Theme struct {
	Default   Color
	Secondary Color
	Negative  Color
	Positive  Color
	Text      Color
	Shadow    Color
}

// DefaultTheme returns the stock overlay colors.
func DefaultTheme() Theme {
	return Theme{
		Default:   Color{1, 1, 1, 1},
		Secondary: Color{1, 1, 1, 0.5},
		Negative:  Color{1, 0.25, 0.25, 1},
		Positive:  Color{0.3, 0.9, 0.4, 1},
		Text:      Color{1, 1, 1, 1},
		Shadow:    Color{0, 0, 0, 0.5},
	}
}

// Alpha returns c with its alpha scaled by a.
func (c Color) Alpha(a float32) Color {
	c[3] *= a
	return c
}

func v2(p mgl64.Vec2) mgl64.Vec3 { return mgl64.Vec3{p[0], p[1], 0} }

// Dot2D is a screen-space dot.
func Dot2D(p mgl64.Vec2, radius float64, c Color) Primitive {
	return Primitive{Func: FuncDot, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(p)}, Radius: radius}
}

// Dot3D is a world-space dot with a pixel radius.
func Dot3D(p mgl64.Vec3, radius float64, c Color) Primitive {
	return Primitive{Func: FuncDot, Space: Space3D, Color: c, Points: []mgl64.Vec3{p}, Radius: radius}
}

// Circle2D is a screen-space ring.
func Circle2D(center mgl64.Vec2, radius, thickness float64, c Color) Primitive {
	return Primitive{Func: FuncCircle, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(center)}, Radius: radius, Thickness: thickness}
}

// Circle3D is a ring lying on the plane through center with the given normal.
func Circle3D(center, normal mgl64.Vec3, radius, thickness float64, c Color) Primitive {
	return Primitive{Func: FuncCircle, Space: Space3D, Color: c, Points: []mgl64.Vec3{center}, Normal: normal, Radius: radius, Thickness: thickness}
}

// Disc3D is a filled circle on a plane.
func Disc3D(center, normal mgl64.Vec3, radius float64, c Color) Primitive {
	return Primitive{Func: FuncDisc, Space: Space3D, Color: c, Points: []mgl64.Vec3{center}, Normal: normal, Radius: radius}
}

// Wedge3D is a pie slice on a plane, used for angles.
func Wedge3D(center, normal mgl64.Vec3, radius, start, sweep float64, c Color) Primitive {
	return Primitive{Func: FuncWedge, Space: Space3D, Color: c, Points: []mgl64.Vec3{center}, Normal: normal, Radius: radius, Start: start, Sweep: sweep}
}

// Line3D is a world-space polyline.
func Line3D(pts []mgl64.Vec3, thickness float64, c Color) Primitive {
	return Primitive{Func: FuncLine, Space: Space3D, Color: c, Points: pts, Thickness: thickness}
}

// Line2D is a screen-space polyline.
func Line2D(pts []mgl64.Vec2, thickness float64, c Color) Primitive {
	p := make([]mgl64.Vec3, len(pts))
	for i, q := range pts {
		p[i] = v2(q)
	}
	return Primitive{Func: FuncLine, Space: Space2D, Color: c, Points: p, Thickness: thickness}
}

// Arrow3D points from a to b.
func Arrow3D(a, b mgl64.Vec3, thickness float64, c Color) Primitive {
	return Primitive{Func: FuncArrow, Space: Space3D, Color: c, Points: []mgl64.Vec3{a, b}, Thickness: thickness}
}

// Box2D is a screen rectangle from lo to hi.
func Box2D(lo, hi mgl64.Vec2, c Color) Primitive {
	return Primitive{Func: FuncBox, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(lo), v2(hi)}}
}

// Cone3D is a cone from apex along axis with the given base radius.
func Cone3D(apex, base mgl64.Vec3, radius float64, c Color) Primitive {
	return Primitive{Func: FuncCone, Space: Space3D, Color: c, Points: []mgl64.Vec3{apex, base}, Radius: radius}
}

// Tooltip2D is a text block anchored at p.
func Tooltip2D(p mgl64.Vec2, lines []string, c Color) Primitive {
	return Primitive{Func: FuncTooltip, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(p)}, Text: lines}
}

// Tooltip3D is a text block anchored at a world location.
func Tooltip3D(p mgl64.Vec3, lines []string, c Color) Primitive {
	return Primitive{Func: FuncTooltip, Space: Space3D, Color: c, Points: []mgl64.Vec3{p}, Text: lines}
}

// Switch2D is a labelled on/off toggle.
func Switch2D(p mgl64.Vec2, label string, on bool, c Color) Primitive {
	return Primitive{Func: FuncSwitch, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(p)}, Text: []string{label}, On: on}
}

// Button2D is a labelled button.
func Button2D(p mgl64.Vec2, label string, c Color) Primitive {
	return Primitive{Func: FuncButton, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(p)}, Text: []string{label}}
}

// NoEntry2D marks a pointer position where the brush cannot act.
func NoEntry2D(p mgl64.Vec2, radius float64, c Color) Primitive {
	return Primitive{Func: FuncNoEntry, Space: Space2D, Color: c, Points: []mgl64.Vec3{v2(p)}, Radius: radius}
}

// CirclePoints samples a ring as a closed polyline, for hosts that only
// draw lines.
func CirclePoints(center, normal mgl64.Vec3, radius float64, segments int) []mgl64.Vec3 {
	if segments < 3 {
		segments = 3
	}
	n, ok := math.SafeNormalize(normal)
	if !ok {
		n = math.AxisZ
	}
	u := math.Perpendicular(n)
	v := n.Cross(u)
	out := make([]mgl64.Vec3, segments+1)
	for i := 0; i <= segments; i++ {
		a := 2 * gomath.Pi * float64(i) / float64(segments)
		out[i] = center.Add(u.Mul(gomath.Cos(a) * radius)).Add(v.Mul(gomath.Sin(a) * radius))
	}
	return out
}

// Layers collects primitives for both passes.
type Layers struct {
	View  []Primitive // 3D pass
	Pixel []Primitive // 2D pass
}

// Add sorts primitives into their pass.
func (l *Layers) Add(ps ...Primitive) {
	for _, p := range ps {
		if p.Space == Space3D {
			l.View = append(l.View, p)
		} else {
			l.Pixel = append(l.Pixel, p)
		}
	}
}

// Clear drops every primitive.
func (l *Layers) Clear() {
	l.View = l.View[:0]
	l.Pixel = l.Pixel[:0]
}

// Empty reports whether no primitive is queued.
func (l *Layers) Empty() bool { return len(l.View) == 0 && len(l.Pixel) == 0 }
