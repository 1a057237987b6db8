// Package sdlhost runs the brush runtime in an SDL2 window. Scene data,
// undo, timers and the rigid-body world come from the headless host; this
// package adds the window, event translation, orbit navigation and an
// OpenGL overlay.
package sdlhost

import (
	"context"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
)

func init() {
	// SDL and OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Title is the application name shown in the window title.
const Title = "scatterbox"

// Viewport is the full-window 3D region.
type Viewport struct {
	V     *view.View
	dirty bool
}

// View implements brush.Viewport.
func (v *Viewport) View() *view.View { return v.V }

// AreaAt implements brush.Viewport.
func (v *Viewport) AreaAt(x, y int) brush.Area {
	if x < 0 || y < 0 || x >= v.V.Width || y >= v.V.Height {
		return brush.AreaOutside
	}
	return brush.AreaViewport
}

// Redraw implements brush.Viewport.
func (v *Viewport) Redraw() { v.dirty = true }

// Host is an interactive window around a headless scene.
type Host struct {
	Core     *headless.Host
	Window   *Window
	Renderer *Renderer
	Orbit    *Orbit
	Viewport *Viewport
	UI       *UI
	Input    *Translator

	title string
	log   *zap.Logger
}

// New opens a window sized by cfg.Viewport and builds a scene from
// surfaces.
func New(cfg *config.Config, surfaces ...*surface.Surface) (*Host, error) {
	log := logger.Named("sdlhost")
	vc := cfg.Viewport
	win, err := NewWindow(WindowConfig{Title: Title, Width: vc.Width, Height: vc.Height, VSync: true}, log)
	if err != nil {
		return nil, err
	}
	r, err := NewRenderer(log)
	if err != nil {
		win.Close()
		return nil, err
	}

	w, h := win.Size()
	orbit := NewOrbit(vc.FovDeg, vc.ClipStart, vc.ClipEnd)
	v := orbit.View(w, h)
	return &Host{
		Core:     headless.New(v, surfaces...),
		Window:   win,
		Renderer: r,
		Orbit:    orbit,
		Viewport: &Viewport{V: v, dirty: true},
		UI:       newUI(log),
		Input:    NewTranslator(h),
		log:      log,
	}, nil
}

// Bind returns the brush host view of h.
func (h *Host) Bind() *brush.Host {
	c := h.Core
	return &brush.Host{
		Scene:     c.Scene,
		Viewport:  h.Viewport,
		Undo:      c.Undo,
		Timers:    c.Timers,
		UI:        h.UI,
		Renderer:  h.Renderer,
		Navigator: h.Orbit,
		Simulator: c.Simulator,
		Evaluator: c.Evaluator,
	}
}

// Close releases the window and GL resources.
func (h *Host) Close() {
	h.Renderer.Close()
	h.UI.close()
	h.Window.Close()
}

func (h *Host) resize() {
	w, ht := h.Window.Size()
	h.Viewport.V.Resize(w, ht)
	h.Input.Height = ht
	h.Viewport.dirty = true
	h.log.Debug("resized", zap.Int("width", w), zap.Int("height", ht))
}

// Dispatch routes one event. Events the runtime passes through while no
// tool runs drive the camera or the undo history.
func (h *Host) Dispatch(rt *brush.Runtime, ev input.Event) {
	idle := rt.Active() == nil
	res := rt.Dispatch(ev)
	if !idle || res != brush.PassThrough {
		return
	}
	switch {
	case h.Orbit.Consume(ev):
		h.Viewport.dirty = true
	case ev.IsPress(input.KeyZ) && ev.Ctrl && ev.Shift:
		h.Viewport.dirty = h.Core.Undo.Redo()
	case ev.IsPress(input.KeyZ) && ev.Ctrl:
		h.Viewport.dirty = h.Core.Undo.Undo()
	}
}

// Run polls events and draws until the window closes or ctx ends.
// keymaps may be nil; a received keymap replaces the runtime's.
func (h *Host) Run(ctx context.Context, rt *brush.Runtime, keymaps <-chan *keymap.Keymap) error {
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			rt.Stop()
			return ctx.Err()
		case km, ok := <-keymaps:
			if !ok {
				keymaps = nil
				break
			}
			rt.Keymap = km
			h.log.Info("keymap applied")
		default:
		}

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				rt.Stop()
				return nil
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
					h.resize()
				}
			}
			if ev, ok := h.Input.Translate(event); ok {
				h.Dispatch(rt, ev)
			}
		}

		now := time.Now()
		h.Core.Timers.Advance(now.Sub(last))
		last = now

		tool := ""
		if op := rt.Active(); op != nil {
			tool = op.ID()
		}
		if title := h.UI.Title(Title, tool); title != h.title {
			h.Window.SetTitle(title)
			h.title = title
		}

		if !h.Viewport.dirty && h.Core.Timers.Len() == 0 {
			sdl.Delay(5)
			continue
		}
		h.Orbit.Apply(h.Viewport.V)
		t, _ := h.Core.Scene.Target()
		h.Renderer.Frame(h.Viewport.V, h.Core.Scene.Surfaces(), t)
		h.Viewport.dirty = false
		h.Window.Swap()
	}
}
