package headless

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/surface"
)

// Script is a reproducible tool session: a scene and the events to send.
type Script struct {
	View      ScriptView    `yaml:"view"`
	Surfaces  []ScriptPlane `yaml:"surfaces"`
	Instances []ScriptBox   `yaml:"instances"`
	Steps     []Step        `yaml:"steps"`
}

// ScriptView is a top-down orthographic view.
type ScriptView struct {
	Center [3]float64 `yaml:"center"`
	Size   float64    `yaml:"size"`
	Pixels int        `yaml:"pixels"`
}

// ScriptPlane is a flat square surface.
type ScriptPlane struct {
	UUID      int64      `yaml:"uuid"`
	Size      float64    `yaml:"size"`
	Translate [3]float64 `yaml:"translate"`
}

// ScriptBox is an instance object for the rigid-body world.
type ScriptBox struct {
	Name       string     `yaml:"name"`
	HalfExtent [3]float64 `yaml:"half_extent"`
}

// Step is one action. Exactly one of its fields is set.
type Step struct {
	Tool   string         `yaml:"tool,omitempty"`
	Props  map[string]any `yaml:"props,omitempty"`
	Seed   *SeedStep      `yaml:"seed,omitempty"`
	Click  *[3]float64    `yaml:"click,omitempty"`
	Ctrl   bool           `yaml:"ctrl,omitempty"`
	Drag   *DragStep      `yaml:"drag,omitempty"`
	Wheel  *WheelStep     `yaml:"wheel,omitempty"`
	Key    string         `yaml:"key,omitempty"`
	Wait   string         `yaml:"wait,omitempty"`
	Finish bool           `yaml:"finish,omitempty"`
}

// SeedStep places existing points through the running tool.
type SeedStep struct {
	UUID   int64        `yaml:"uuid"`
	Points [][3]float64 `yaml:"points"`
}

// DragStep presses at From, moves to To in Steps and releases.
type DragStep struct {
	From  [3]float64 `yaml:"from"`
	To    [3]float64 `yaml:"to"`
	Steps int        `yaml:"steps"`
}

// WheelStep sends one wheel notch while the button is held at At.
type WheelStep struct {
	At   [3]float64 `yaml:"at"`
	Up   bool       `yaml:"up"`
	Ctrl bool       `yaml:"ctrl"`
}

// Report summarizes a replayed session.
type Report struct {
	Points  int      `yaml:"points"`
	Undo    []string `yaml:"undo"`
	Hints   []string `yaml:"hints"`
	Tool    string   `yaml:"tool"`
	Results []string `yaml:"results"`
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script and fills in view defaults.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.View.Size <= 0 {
		s.View.Size = 10
	}
	if s.View.Pixels <= 0 {
		s.View.Pixels = 800
	}
	if len(s.Surfaces) == 0 {
		s.Surfaces = []ScriptPlane{{UUID: 1, Size: 20}}
	}
	return s, nil
}

func vec(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }

// Host builds the scene the script describes.
func (s *Script) Host() *Host {
	planes := make([]*surface.Surface, len(s.Surfaces))
	for i, p := range s.Surfaces {
		planes[i] = PlaneSurface(p.UUID, p.Size, mgl64.Translate3D(p.Translate[0], p.Translate[1], p.Translate[2]))
	}
	h := New(TopDown(vec(s.View.Center), s.View.Size, s.View.Pixels), planes...)
	for _, b := range s.Instances {
		h.Simulator.Instances = append(h.Simulator.Instances, Instance{Name: b.Name, HalfExtent: vec(b.HalfExtent)})
	}
	return h
}

// Replay runs s against a fresh headless host with the tools in reg.
func Replay(s *Script, reg *brush.Registry, cfg *config.Config) (*Report, error) {
	return NewDriver(s.Host(), reg, cfg).Run(s.Steps)
}

// Run performs steps in order and reports the final state. It stops at the
// first failing step.
func (d *Driver) Run(steps []Step) (*Report, error) {
	log := logger.Named("replay")
	rep := &Report{}
	for i, st := range steps {
		res, err := d.step(st)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		rep.Results = append(rep.Results, res.String())
		log.Debug("step", zap.Int("index", i+1), zap.Stringer("result", res))
	}
	if t := d.Target(); t != nil {
		rep.Points = t.Len()
	}
	rep.Undo = append(rep.Undo, d.Undo.Messages...)
	rep.Hints = append(rep.Hints, d.UI.Hints...)
	if op := d.Runtime.Active(); op != nil {
		rep.Tool = op.ID()
	}
	return rep, nil
}

func (d *Driver) step(st Step) (brush.Result, error) {
	var mods input.Mods
	if st.Ctrl {
		mods |= input.ModCtrl
	}
	switch {
	case st.Tool != "":
		return brush.Running, d.Start(st.Tool)
	case st.Props != nil:
		op := d.Runtime.Active()
		if op == nil {
			return brush.PassThrough, errors.New("props without a running tool")
		}
		g := d.Props(op.ID())
		for name, raw := range st.Props {
			if !g.Has(name) {
				return brush.PassThrough, fmt.Errorf("%s has no property %q", op.ID(), name)
			}
			if err := g.SetValue(name, propValue(raw)); err != nil {
				return brush.PassThrough, err
			}
		}
		return brush.Running, nil
	case st.Seed != nil:
		pts := make([]mgl64.Vec3, len(st.Seed.Points))
		for i, p := range st.Seed.Points {
			pts[i] = vec(p)
		}
		_, err := d.Seed(st.Seed.UUID, pts...)
		return brush.Running, err
	case st.Click != nil:
		if st.Ctrl {
			return d.CtrlClick(vec(*st.Click)), nil
		}
		return d.Click(vec(*st.Click)), nil
	case st.Drag != nil:
		return d.Drag(vec(st.Drag.From), vec(st.Drag.To), max(st.Drag.Steps, 1)), nil
	case st.Wheel != nil:
		at := vec(st.Wheel.At)
		if st.Wheel.Ctrl {
			mods |= input.ModCtrl
		}
		d.Send(d.PressAt(at))
		d.Wheel(at, st.Wheel.Up, mods)
		return d.Send(d.ReleaseAt(at)), nil
	case st.Key != "":
		b, err := keymap.ParseBinding(st.Key)
		if err != nil {
			return brush.PassThrough, err
		}
		return d.Send(Key(b.Type, b.Mods)), nil
	case st.Wait != "":
		dt, err := time.ParseDuration(st.Wait)
		if err != nil {
			return brush.PassThrough, err
		}
		d.Timers.Advance(dt)
		return brush.Running, nil
	case st.Finish:
		d.Finish()
		return brush.Finished, nil
	}
	return brush.PassThrough, errors.New("empty step")
}

// propValue turns YAML lists into vectors; scalars pass through.
func propValue(raw any) any {
	list, ok := raw.([]any)
	if !ok || len(list) != 3 {
		return raw
	}
	var v mgl64.Vec3
	for i, x := range list {
		switch n := x.(type) {
		case int:
			v[i] = float64(n)
		case float64:
			v[i] = n
		default:
			return raw
		}
	}
	return v
}
