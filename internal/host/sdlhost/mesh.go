package sdlhost

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// floatsPerVertex is pos(3) + color(4).
const floatsPerVertex = 7

const (
	glyphW = 7
	glyphH = 13
	// roundSegments is the polygon count used for dots, rings and discs.
	roundSegments = 32
)

var (
	surfaceColor = widget.Color{0.45, 0.45, 0.5, 1}
	pointColor   = widget.Color{0.95, 0.7, 0.2, 1}
	panelColor   = widget.Color{0.08, 0.08, 0.12, 0.85}
)

// Batch collects solid triangles in region pixels, origin bottom-left.
type Batch struct {
	Vertices []float32
}

// Reset empties the batch and keeps its storage.
func (b *Batch) Reset() { b.Vertices = b.Vertices[:0] }

// Len returns the number of vertices.
func (b *Batch) Len() int { return len(b.Vertices) / floatsPerVertex }

func (b *Batch) vertex(p mgl64.Vec2, c widget.Color) {
	b.Vertices = append(b.Vertices, float32(p[0]), float32(p[1]), 0, c[0], c[1], c[2], c[3])
}

// Tri adds one triangle.
func (b *Batch) Tri(p0, p1, p2 mgl64.Vec2, c widget.Color) {
	b.vertex(p0, c)
	b.vertex(p1, c)
	b.vertex(p2, c)
}

// Rect adds a filled rectangle from lo to hi.
func (b *Batch) Rect(lo, hi mgl64.Vec2, c widget.Color) {
	b.Tri(lo, mgl64.Vec2{hi[0], lo[1]}, hi, c)
	b.Tri(lo, hi, mgl64.Vec2{lo[0], hi[1]}, c)
}

// RectOutline adds a one-pixel frame.
func (b *Batch) RectOutline(lo, hi mgl64.Vec2, c widget.Color) {
	b.Polyline([]mgl64.Vec2{lo, {hi[0], lo[1]}, hi, {lo[0], hi[1]}, lo}, 1, c)
}

// Segment adds a line from p0 to p1 as a quad of the given pixel width.
func (b *Batch) Segment(p0, p1 mgl64.Vec2, width float64, c widget.Color) {
	d := p1.Sub(p0)
	l := d.Len()
	if l == 0 {
		return
	}
	n := mgl64.Vec2{-d[1], d[0]}.Mul(gomath.Max(width, 1) / 2 / l)
	b.Tri(p0.Add(n), p0.Sub(n), p1.Sub(n), c)
	b.Tri(p0.Add(n), p1.Sub(n), p1.Add(n), c)
}

// Polyline adds connected segments.
func (b *Batch) Polyline(pts []mgl64.Vec2, width float64, c widget.Color) {
	for i := 1; i < len(pts); i++ {
		b.Segment(pts[i-1], pts[i], width, c)
	}
}

// Fan adds a filled convex polygon.
func (b *Batch) Fan(center mgl64.Vec2, ring []mgl64.Vec2, c widget.Color) {
	for i := 1; i < len(ring); i++ {
		b.Tri(center, ring[i-1], ring[i], c)
	}
}

func circle2D(center mgl64.Vec2, radius float64) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, roundSegments+1)
	for i := range out {
		a := 2 * gomath.Pi * float64(i) / roundSegments
		out[i] = center.Add(mgl64.Vec2{gomath.Cos(a), gomath.Sin(a)}.Mul(radius))
	}
	return out
}

// Dot adds a filled circle of a pixel radius.
func (b *Batch) Dot(center mgl64.Vec2, radius float64, c widget.Color) {
	b.Fan(center, circle2D(center, gomath.Max(radius, 1)), c)
}

// Panel adds a text box of lines; the text itself is shown in the window
// title.
func (b *Batch) Panel(anchor mgl64.Vec2, lines []string, c widget.Color) {
	cols := 0
	for _, l := range lines {
		cols = max(cols, len(l))
	}
	size := mgl64.Vec2{float64(cols*glyphW + 8), float64(len(lines)*glyphH + 6)}
	lo := mgl64.Vec2{anchor[0], anchor[1] - size[1]}
	hi := mgl64.Vec2{anchor[0] + size[0], anchor[1]}
	b.Rect(lo, hi, panelColor)
	b.RectOutline(lo, hi, c)
	for i, l := range lines {
		y := hi[1] - 3 - float64(i*glyphH) - glyphH/2
		b.Segment(mgl64.Vec2{lo[0] + 4, y}, mgl64.Vec2{lo[0] + 4 + float64(len(l)*glyphW), y}, 2, c.Alpha(0.6))
	}
}

// projected returns the region positions of world points, and false when
// any of them lies behind the camera.
func projected(v *view.View, world []mgl64.Vec3) ([]mgl64.Vec2, bool) {
	out, ok := v.ProjectAll(world)
	for _, k := range ok {
		if !k {
			return nil, false
		}
	}
	return out, true
}

func xy(p mgl64.Vec3) mgl64.Vec2 { return mgl64.Vec2{p[0], p[1]} }

func xys(ps []mgl64.Vec3) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(ps))
	for i, p := range ps {
		out[i] = xy(p)
	}
	return out
}

// wedgePoints samples the arc of a wedge, starting and ending at the center.
func wedgePoints(p widget.Primitive) []mgl64.Vec3 {
	n, ok := math.SafeNormalize(p.Normal)
	if !ok {
		n = math.AxisZ
	}
	u := math.Perpendicular(n)
	w := n.Cross(u)
	c := p.Points[0]
	steps := max(int(gomath.Abs(p.Sweep)/(2*gomath.Pi)*roundSegments), 2)
	out := []mgl64.Vec3{c}
	for i := 0; i <= steps; i++ {
		a := p.Start + p.Sweep*float64(i)/float64(steps)
		out = append(out, c.Add(u.Mul(gomath.Cos(a)*p.Radius)).Add(w.Mul(gomath.Sin(a)*p.Radius)))
	}
	return out
}

// Primitive adds one widget primitive. 3D primitives are projected through
// v and skipped when they reach behind the camera.
func (b *Batch) Primitive(p widget.Primitive, v *view.View) {
	if len(p.Points) == 0 {
		return
	}
	pts := xys(p.Points)
	if p.Space == widget.Space3D {
		var world []mgl64.Vec3
		switch p.Func {
		case widget.FuncCircle, widget.FuncDisc:
			world = widget.CirclePoints(p.Points[0], p.Normal, p.Radius, roundSegments)
		case widget.FuncWedge:
			world = wedgePoints(p)
		default:
			world = p.Points
		}
		var ok bool
		if pts, ok = projected(v, world); !ok {
			return
		}
	}

	c := p.Color
	switch p.Func {
	case widget.FuncDot:
		b.Dot(pts[0], p.Radius, c)
	case widget.FuncCircle:
		if p.Space == widget.Space2D {
			pts = circle2D(pts[0], p.Radius)
		}
		b.Polyline(pts, p.Thickness, c)
	case widget.FuncDisc:
		center := pts[0]
		if p.Space == widget.Space3D {
			center, _ = v.Project(p.Points[0])
		}
		b.Fan(center, pts, c)
	case widget.FuncWedge:
		b.Fan(pts[0], pts[1:], c)
	case widget.FuncLine:
		b.Polyline(pts, p.Thickness, c)
	case widget.FuncArrow:
		if len(pts) < 2 {
			return
		}
		b.Segment(pts[0], pts[1], p.Thickness, c)
		d := pts[1].Sub(pts[0])
		if l := d.Len(); l > 0 {
			d = d.Mul(10 / l)
			side := mgl64.Vec2{-d[1], d[0]}.Mul(0.5)
			b.Tri(pts[1], pts[1].Sub(d).Add(side), pts[1].Sub(d).Sub(side), c)
		}
	case widget.FuncBox:
		if len(pts) < 2 {
			return
		}
		b.RectOutline(pts[0], pts[1], c)
	case widget.FuncCone:
		if len(pts) < 2 {
			return
		}
		d := pts[1].Sub(pts[0])
		l := d.Len()
		if l == 0 {
			return
		}
		r := p.Radius
		if p.Space == widget.Space3D {
			r /= gomath.Max(v.PixelSize(p.Points[1]), 1e-9)
		}
		side := mgl64.Vec2{-d[1], d[0]}.Mul(r / l)
		b.Tri(pts[0], pts[1].Add(side), pts[1].Sub(side), c)
	case widget.FuncTooltip:
		b.Panel(pts[0], p.Text, c)
	case widget.FuncSwitch:
		b.Panel(pts[0], p.Text, c)
		knob := c.Alpha(0.4)
		if p.On {
			knob = c
		}
		b.Dot(pts[0].Add(mgl64.Vec2{-8, -8}), 5, knob)
	case widget.FuncButton:
		b.Panel(pts[0], p.Text, c)
	case widget.FuncNoEntry:
		b.Polyline(circle2D(pts[0], p.Radius), 2, c)
		d := mgl64.Vec2{p.Radius, p.Radius}.Mul(gomath.Sqrt2 / 2)
		b.Segment(pts[0].Sub(d), pts[0].Add(d), 2, c)
	}
}

// Layers adds both passes of l, view primitives first.
func (b *Batch) Layers(l widget.Layers, v *view.View) {
	for _, p := range l.View {
		b.Primitive(p, v)
	}
	for _, p := range l.Pixel {
		b.Primitive(p, v)
	}
}

// Surfaces adds the polygon outlines of every surface.
func (b *Batch) Surfaces(surfaces []*surface.Surface, v *view.View) {
	for _, s := range surfaces {
		if s.Mesh == nil {
			continue
		}
		world := make([]mgl64.Vec3, len(s.Mesh.Vertices))
		for i, p := range s.Mesh.Vertices {
			world[i] = math.TransformPoint(s.Matrix, p)
		}
		screen, ok := v.ProjectAll(world)
		for _, poly := range s.Mesh.Polygons {
			for i := range poly {
				a, c := poly[i], poly[(i+1)%len(poly)]
				if ok[a] && ok[c] {
					b.Segment(screen[a], screen[c], 1, surfaceColor)
				}
			}
		}
	}
}

// Points adds a small square per active row of t.
func (b *Batch) Points(t *points.Target, surfaces []*surface.Surface, v *view.View) {
	mats := make(map[int64]mgl64.Mat4, len(surfaces))
	for _, s := range surfaces {
		mats[s.UUID] = s.Matrix
	}
	for i := range t.Len() {
		m, ok := mats[t.SurfaceUUID[i]]
		if !ok || t.OrphanMask[i] {
			continue
		}
		p, ok := v.Project(math.TransformPoint(m, math.Vec3To64(t.Co[i])))
		if !ok {
			continue
		}
		b.Rect(p.Sub(mgl64.Vec2{2, 2}), p.Add(mgl64.Vec2{2, 2}), pointColor)
	}
}
