package brush

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// Runtime is the per-process brush state: the registry, the active tool,
// the host session and the shared surface cache.
type Runtime struct {
	Host     *Host
	Registry *Registry
	Keymap   *keymap.Keymap
	Config   *config.Config
	Toolbox  Toolbox
	Session  *ToolSession
	Surfaces *surface.Provider
	Theme    widget.Theme
	Rng      *rand.Rand
	// Fallback is the tool to offer after a panic.
	Fallback string

	log *zap.Logger
}

// NewRuntime wires a runtime to a host. A nil keymap uses the defaults and
// a nil config uses config.Default.
func NewRuntime(h *Host, reg *Registry, km *keymap.Keymap, cfg *config.Config) *Runtime {
	if km == nil {
		km = keymap.Defaults()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runtime{
		Host:     h,
		Registry: reg,
		Keymap:   km,
		Config:   cfg,
		Session:  NewToolSession(),
		Surfaces: surface.NewProvider(h.Scene),
		Theme:    widget.DefaultTheme(),
		Rng:      regen.NewRand(cfg.Brushes.Seed),
		Fallback: cfg.Brushes.DefaultTool,
		log:      logger.Named("runtime"),
	}
}

// Active returns the running operator, or nil.
func (r *Runtime) Active() *Operator { return r.Toolbox.Tool }

// Activate starts tool id, handing off from the running tool if there is one.
func (r *Runtime) Activate(id string) (*Operator, error) {
	b, err := r.Registry.New(id)
	if err != nil {
		if s := r.Keymap.Suggest(id); s != "" {
			err = fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return nil, err
	}
	if cur := r.Active(); cur != nil {
		if cur.ID() == id {
			return cur, nil
		}
		cur.handoff(id)
	}
	op := newOperator(r, b)
	if err := op.Invoke(); err != nil {
		r.log.Warn("activate failed", logger.Tool(id), zap.Error(err))
		return nil, err
	}
	return op, nil
}

// Dispatch routes one event to the running tool. Without one, a tool
// shortcut starts that tool. Handoffs requested by the tool are followed.
func (r *Runtime) Dispatch(ev input.Event) Result {
	op := r.Active()
	if op == nil {
		if m := r.Keymap.Check(ev); m != nil && !m.Gesture && r.Registry.Has(m.Tool) {
			if _, err := r.Activate(m.Tool); err == nil {
				return Running
			}
		}
		return PassThrough
	}
	res := op.Modal(ev)
	if next := op.Next(); next != "" && op.Done() && r.Active() == nil {
		if _, err := r.Activate(next); err != nil {
			// The previous tool kept the session open for the handoff.
			r.Session.End(r.Host.UI)
			r.Surfaces.Free()
			return Cancelled
		}
		return Running
	}
	return res
}

// Stop exits the running tool normally.
func (r *Runtime) Stop() {
	if op := r.Active(); op != nil {
		op.Finish()
	}
}

// SurfacesChanged drops the cache after surfaces were added, removed or
// moved. The running tool rebuilds it and its point views.
func (r *Runtime) SurfacesChanged() error {
	r.Surfaces.Reinit()
	if op := r.Active(); op != nil {
		return op.refresh()
	}
	return nil
}
