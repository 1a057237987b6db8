package brush

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// Scene is the host data the brushes edit.
type Scene interface {
	// Target returns the active system's point table, or false when there
	// is no emitter with a manual-distribution system.
	Target() (*points.Target, bool)
	// Surfaces returns the evaluated surface set.
	Surfaces() []*surface.Surface
	// SurfacesComplete reports whether every referenced surface exists.
	SurfacesComplete() bool
	// Props returns the property group of a tool, stored with the scene.
	Props(tool string) *props.Group
	// MeshUpdated signals that the target changed outside of positions.
	MeshUpdated()
}

// Area is a region of the host window.
type Area int

const (
	AreaViewport Area = iota
	AreaHeader
	AreaToolbar
	AreaSidebar
	AreaAssetBrowser
	AreaOutside
)

var areaNames = [...]string{"VIEWPORT", "HEADER", "TOOLBAR", "SIDEBAR", "ASSET_BROWSER", "OUTSIDE"}

func (a Area) String() string { return areaNames[a] }

// Viewport is the 3D view the tool runs in.
type Viewport interface {
	View() *view.View
	// AreaAt classifies a window coordinate.
	AreaAt(x, y int) Area
	Redraw()
}

// UndoStack is the host undo history.
type UndoStack interface {
	Push(message string)
	Undo() bool
	Redo() bool
	Clear()
	SetRedoEnabled(enabled bool)
}

// TimerHandle identifies a registered timer.
type TimerHandle int

// Timers schedules repeating callbacks on the host event loop.
type Timers interface {
	Add(interval time.Duration, fn func()) TimerHandle
	Remove(h TimerHandle)
}

// Cursor is the pointer shape the host shows.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPaint
	CursorCrosshair
	CursorNone
)

// UI is the host chrome: cursor, status bar, tooltips and tool selection.
type UI interface {
	SetCursor(c Cursor)
	RestoreCursor()
	SetStatus(text string)
	ClearStatus()
	SetInfobox(lines []string)
	// Hint shows a non-fatal message near the pointer.
	Hint(text string)
	// Configure and Restore bracket a tool session's custom UI.
	Configure(tool string)
	Restore()
	// ActiveTool is the tool the host shows as selected.
	ActiveTool() string
	SetActiveTool(id string)
	// Selection and ActiveObject are saved and restored around a session.
	Selection() []string
	SetSelection(names []string)
	ActiveObject() string
	SetActiveObject(name string)
}

// Renderer rasterizes widget layers.
type Renderer interface {
	Draw(l widget.Layers)
	Clear()
}

// Navigator owns viewport navigation. Consume reports whether ev moved
// the view and must not reach the tool.
type Navigator interface {
	Consume(ev input.Event) bool
}

// Simulator is the host rigid-body world.
type Simulator interface {
	// Install creates the world with surfaces as passive colliders and a
	// collection for spawned bodies.
	Install(surfaces []*surface.Surface) error
	// InstanceCount is the number of instance objects bodies are copied from.
	InstanceCount() int
	// Spawn adds an active body copied from an instance object.
	Spawn(name string, instance int, matrix mgl64.Mat4) error
	Matrix(name string) (mgl64.Mat4, bool)
	SetPassive(name string)
	Remove(name string)
	// Start plays from frame 1; Step advances one frame.
	Start()
	Step()
	Frame() int
	Teardown()
}

// Evaluator runs the downstream instancing and reports one world matrix per
// active target row, in row order.
type Evaluator interface {
	Instances(t *points.Target, surfaces []*surface.Surface) []mgl64.Mat4
}

// Host bundles the collaborators a tool session needs. Renderer, Navigator,
// Simulator and Evaluator may be nil.
type Host struct {
	Scene     Scene
	Viewport  Viewport
	Undo      UndoStack
	Timers    Timers
	UI        UI
	Renderer  Renderer
	Navigator Navigator
	Simulator Simulator
	Evaluator Evaluator
}
