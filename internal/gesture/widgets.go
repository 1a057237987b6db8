package gesture

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

const tooltipOffset = 24

// Widgets returns the preview of the running gesture, or nothing when idle.
func (e *Engine) Widgets(theme widget.Theme) widget.Layers {
	var l widget.Layers
	st := e.state
	if st == nil {
		return l
	}
	def := st.def
	loc, n := st.start.Location, st.start.Normal
	origin := st.start.Region
	label := def.Label(st.prop.Value())
	tip := origin.Add(mgl64.Vec2{tooltipOffset, tooltipOffset})
	l.Add(widget.Tooltip2D(tip, []string{label}, theme.Text))

	value := valueOf(st.prop)
	reach := e.displayRadius()

	switch def.Widget {
	case Radius3D:
		l.Add(widget.Circle3D(loc, n, value, 2, theme.Default))
		if st.initial.Float != value {
			l.Add(widget.Circle3D(loc, n, st.initial.Float, 1, theme.Secondary))
		}
	case Radius2D:
		l.Add(widget.Circle2D(origin, value, 2, theme.Default))
	case Radius25D:
		px := value
		if st.pixelSize > 0 {
			px = value / st.pixelSize
		}
		l.Add(widget.Circle2D(e.anchor2D(), px, 2, theme.Default))
	case Strength3D:
		l.Add(widget.Circle3D(loc, n, reach, 1, theme.Secondary))
		l.Add(widget.Disc3D(loc, n, reach*math.Clamp(value, 0, 1), theme.Default.Alpha(0.5)))
	case StrengthMinusPlus3D:
		c := theme.Positive
		if value < 0 {
			c = theme.Negative
		}
		l.Add(widget.Circle3D(loc, n, reach, 1, theme.Secondary))
		l.Add(widget.Disc3D(loc, n, reach*math.Clamp(gomath.Abs(value), 0, 1), c.Alpha(0.5)))
	case Strength2D, Strength25D:
		const size = 50
		at := origin
		if def.Widget == Strength25D {
			at = e.anchor2D()
		}
		l.Add(widget.Circle2D(at, size, 1, theme.Secondary))
		l.Add(widget.Dot2D(at, size*math.Clamp(value, 0, 1), theme.Default.Alpha(0.5)))
	case Angle3D:
		l.Add(widget.Circle3D(loc, n, reach, 1, theme.Secondary))
		l.Add(widget.Wedge3D(loc, n, reach, 0, value, theme.Default.Alpha(0.5)))
	case Count3D:
		for _, p := range ringPoints(loc, n, reach*0.5, int(value)) {
			l.Add(widget.Dot3D(p, 4, theme.Default))
		}
	case Length3D:
		dir := math.Perpendicular(n)
		l.Add(widget.Arrow3D(loc, loc.Add(dir.Mul(value)), 2, theme.Default))
	case Scale3D:
		v := st.prop.Vec
		axes := []mgl64.Vec3{math.AxisX, math.AxisY, math.AxisZ}
		colors := []widget.Color{theme.Negative, theme.Positive, theme.Default}
		for k, ax := range axes {
			l.Add(widget.Arrow3D(loc, loc.Add(ax.Mul(v[k]*reach*0.5)), 2, colors[k]))
		}
	case Density3D:
		l.Add(widget.Circle3D(loc, n, reach, 1, theme.Secondary))
		count := int(math.Clamp(value*gomath.Pi*reach*reach, 0, 500))
		for _, p := range spiralPoints(loc, n, reach, count) {
			l.Add(widget.Dot3D(p, 2, theme.Default))
		}
	case Boolean2D, Boolean3D:
		at := origin
		if def.Widget == Boolean3D {
			at = e.anchor2D()
		}
		l.Add(widget.Switch2D(at, def.Property, st.prop.Bool, theme.Default))
	case Enum2D, Enum3D:
		lines := make([]string, len(st.prop.Items))
		for i, it := range st.prop.Items {
			if it == st.prop.Enum {
				lines[i] = "> " + it
			} else {
				lines[i] = "  " + it
			}
		}
		at := origin
		if def.Widget == Enum3D {
			at = e.anchor2D()
		}
		l.Add(widget.Tooltip2D(at.Add(mgl64.Vec2{tooltipOffset, -tooltipOffset}), lines, theme.Text))
	case Tooltip2D:
		l.Add(widget.Tooltip2D(origin, []string{def.Text}, theme.Text))
	case Tooltip3D:
		l.Add(widget.Tooltip3D(loc, []string{def.Text}, theme.Text))
	}
	return l
}

// displayRadius is the brush radius at the gesture start, for widgets that
// draw inside the brush circle.
func (e *Engine) displayRadius() float64 {
	st := e.state
	if st.group.Has("radius") && st.group.Get("radius").Kind == props.Float {
		return st.group.Float("radius")
	}
	if st.pixelSize > 0 {
		return 50 * st.pixelSize
	}
	return 1
}

func (e *Engine) anchor2D() mgl64.Vec2 {
	st := e.state
	if st.view != nil && st.start.OnSurface {
		if p, ok := st.view.Project(st.start.Location); ok {
			return p
		}
	}
	return st.start.Region
}

func valueOf(p *props.Prop) float64 {
	switch p.Kind {
	case props.Float:
		return p.Float
	case props.Int:
		return float64(p.Int)
	case props.Vec3:
		return p.Vec[0]
	}
	return 0
}

func ringPoints(center, normal mgl64.Vec3, radius float64, n int) []mgl64.Vec3 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []mgl64.Vec3{center}
	}
	pts := widget.CirclePoints(center, normal, radius, n)
	return pts[:n]
}

// spiralPoints spreads n points evenly over a disc (Vogel's method).
func spiralPoints(center, normal mgl64.Vec3, radius float64, n int) []mgl64.Vec3 {
	u := math.Perpendicular(normal)
	v := normal.Cross(u)
	golden := gomath.Pi * (3 - gomath.Sqrt(5))
	out := make([]mgl64.Vec3, n)
	for i := range out {
		r := radius * gomath.Sqrt((float64(i)+0.5)/float64(n))
		a := float64(i) * golden
		out[i] = center.Add(u.Mul(r * gomath.Cos(a))).Add(v.Mul(r * gomath.Sin(a)))
	}
	return out
}
