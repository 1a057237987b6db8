package headless

import (
	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// UI records what the runtime asks the host chrome to show.
type UI struct {
	Cursor     brush.Cursor
	Status     string
	Infobox    []string
	Hints      []string
	Configured string
	Tool       string
	Selected   []string
	Object     string
}

func (u *UI) SetCursor(c brush.Cursor)    { u.Cursor = c }
func (u *UI) RestoreCursor()              { u.Cursor = brush.CursorDefault }
func (u *UI) SetStatus(text string)       { u.Status = text }
func (u *UI) ClearStatus()                { u.Status = "" }
func (u *UI) SetInfobox(lines []string)   { u.Infobox = lines }
func (u *UI) Hint(text string)            { u.Hints = append(u.Hints, text) }
func (u *UI) Configure(tool string)       { u.Configured = tool }
func (u *UI) Restore()                    { u.Configured = "" }
func (u *UI) ActiveTool() string          { return u.Tool }
func (u *UI) SetActiveTool(id string)     { u.Tool = id }
func (u *UI) Selection() []string         { return u.Selected }
func (u *UI) SetSelection(names []string) { u.Selected = names }
func (u *UI) ActiveObject() string        { return u.Object }
func (u *UI) SetActiveObject(name string) { u.Object = name }

// Region is a rectangle of the window owned by a non-viewport area.
type Region struct {
	Area     brush.Area
	Min, Max [2]int
}

// Viewport is a fixed view with optional chrome regions on top of it.
// Window and region coordinates are the same.
type Viewport struct {
	V       *view.View
	Regions []Region
	Redraws int
}

// View implements brush.Viewport.
func (v *Viewport) View() *view.View { return v.V }

// AreaAt implements brush.Viewport.
func (v *Viewport) AreaAt(x, y int) brush.Area {
	if x < 0 || y < 0 || x >= v.V.Width || y >= v.V.Height {
		return brush.AreaOutside
	}
	for _, r := range v.Regions {
		if x >= r.Min[0] && x < r.Max[0] && y >= r.Min[1] && y < r.Max[1] {
			return r.Area
		}
	}
	return brush.AreaViewport
}

// Redraw implements brush.Viewport.
func (v *Viewport) Redraw() { v.Redraws++ }

// Recorder keeps the last drawn widget layers.
type Recorder struct {
	Last  widget.Layers
	Draws int
}

// Draw implements brush.Renderer.
func (r *Recorder) Draw(l widget.Layers) {
	r.Last = l
	r.Draws++
}

// Clear implements brush.Renderer.
func (r *Recorder) Clear() { r.Last = widget.Layers{} }

// Navigator consumes middle-mouse drags, plain wheel zoom and trackpad or
// 3D mouse motion, like a viewport would.
type Navigator struct {
	dragging bool
	Consumed int
}

// Consume implements brush.Navigator.
func (n *Navigator) Consume(ev input.Event) bool {
	used := false
	switch {
	case ev.IsPress(input.MiddleMouse):
		n.dragging = true
		used = true
	case ev.IsRelease(input.MiddleMouse):
		n.dragging = false
		used = true
	case ev.IsMove() && n.dragging:
		used = true
	case ev.Type.IsWheel() && ev.Mods() == 0:
		used = true
	case ev.Type == input.TrackpadPan, ev.Type == input.TrackpadZoom, ev.Type == input.NDOFMotion:
		used = true
	}
	if used {
		n.Consumed++
	}
	return used
}
