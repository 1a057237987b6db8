// Package props holds the per-tool property groups every brush reads its
// settings from. Schemas and defaults come from an embedded YAML preset
// file that users can override.
package props

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
)

// Kind is the datatype of a property.
type Kind string

const (
	Float Kind = "float"
	Int   Kind = "int"
	Bool  Kind = "bool"
	Enum  Kind = "enum"
	Vec3  Kind = "vec3"
)

// Subtype hints how a value is displayed and converted.
type Subtype string

const (
	SubNone     Subtype = ""
	SubDistance Subtype = "distance"
	SubPixel    Subtype = "pixel"
	SubFactor   Subtype = "factor"
	SubAngle    Subtype = "angle"
)

// Prop is one typed, optionally clamped setting.
type Prop struct {
	Name    string
	Kind    Kind
	Subtype Subtype
	Label   string

	Float float64
	Int   int
	Bool  bool
	Enum  string
	Vec   mgl64.Vec3

	Items []string // enum items
	Min   float64
	Max   float64
}

// Clamp limits v to the property's range.
func (p *Prop) Clamp(v float64) (float64, bool) {
	switch {
	case v < p.Min:
		return p.Min, true
	case v > p.Max:
		return p.Max, true
	}
	return v, false
}

// Value returns the property value as float64, int, bool, string or mgl64.Vec3.
func (p *Prop) Value() any {
	switch p.Kind {
	case Float:
		return p.Float
	case Int:
		return p.Int
	case Bool:
		return p.Bool
	case Enum:
		return p.Enum
	default:
		return p.Vec
	}
}

// Group is the property set of one tool.
type Group struct {
	Tool  string
	Props map[string]*Prop
}

// NewGroup creates an empty group.
func NewGroup(tool string) *Group {
	return &Group{Tool: tool, Props: make(map[string]*Prop)}
}

// Add registers a property, replacing one of the same name.
func (g *Group) Add(p *Prop) {
	g.Props[p.Name] = p
}

// Unbounded returns the range of a property without limits.
func Unbounded() (lo, hi float64) {
	return gomath.Inf(-1), gomath.Inf(1)
}

// Names returns the property names in sorted order.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.Props))
	for n := range g.Props {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the group defines name.
func (g *Group) Has(name string) bool {
	_, ok := g.Props[name]
	return ok
}

// Get returns a property or panics; property names are fixed at build time.
func (g *Group) Get(name string) *Prop {
	p, ok := g.Props[name]
	if !ok {
		panic(fmt.Sprintf("props: tool %q has no property %q", g.Tool, name))
	}
	return p
}

func (g *Group) Float(name string) float64 { return g.Get(name).Float }
func (g *Group) Int(name string) int       { return g.Get(name).Int }
func (g *Group) Bool(name string) bool     { return g.Get(name).Bool }
func (g *Group) Enum(name string) string   { return g.Get(name).Enum }
func (g *Group) Vec3(name string) mgl64.Vec3 {
	return g.Get(name).Vec
}

// SetFloat stores a clamped value and reports whether clamping happened.
func (g *Group) SetFloat(name string, v float64) bool {
	p := g.Get(name)
	v, clamped := p.Clamp(v)
	p.Float = v
	return clamped
}

// SetInt stores a clamped value and reports whether clamping happened.
func (g *Group) SetInt(name string, v int) bool {
	p := g.Get(name)
	f, clamped := p.Clamp(float64(v))
	p.Int = int(f)
	return clamped
}

// SetBool stores a boolean.
func (g *Group) SetBool(name string, v bool) { g.Get(name).Bool = v }

// SetEnum stores an enum item; unknown items are rejected.
func (g *Group) SetEnum(name, v string) error {
	p := g.Get(name)
	for _, it := range p.Items {
		if it == v {
			p.Enum = v
			return nil
		}
	}
	return fmt.Errorf("props: %q is not an item of %s.%s", v, g.Tool, name)
}

// SetVec3 stores a per-component clamped vector.
func (g *Group) SetVec3(name string, v mgl64.Vec3) bool {
	p := g.Get(name)
	clamped := false
	for k := range v {
		var c bool
		v[k], c = p.Clamp(v[k])
		clamped = clamped || c
	}
	p.Vec = v
	return clamped
}

// Step moves an enum n items forward, wrapping around.
func (g *Group) Step(name string, n int) {
	p := g.Get(name)
	if len(p.Items) == 0 {
		return
	}
	i := 0
	for k, it := range p.Items {
		if it == p.Enum {
			i = k
		}
	}
	i = ((i+n)%len(p.Items) + len(p.Items)) % len(p.Items)
	p.Enum = p.Items[i]
}

// SetValue stores a value of the matching Go type.
func (g *Group) SetValue(name string, v any) error {
	p := g.Get(name)
	switch x := v.(type) {
	case float64:
		if p.Kind == Int {
			g.SetInt(name, int(gomath.Round(x)))
			return nil
		}
		g.SetFloat(name, x)
	case int:
		if p.Kind == Float {
			g.SetFloat(name, float64(x))
			return nil
		}
		g.SetInt(name, x)
	case bool:
		g.SetBool(name, x)
	case string:
		return g.SetEnum(name, x)
	case mgl64.Vec3:
		g.SetVec3(name, x)
	default:
		return fmt.Errorf("props: unsupported value %T for %s.%s", v, g.Tool, name)
	}
	return nil
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	out := &Group{}
	if err := copier.CopyWithOption(out, g, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return out
}

// Restore copies every value of snapshot back into g.
func (g *Group) Restore(snapshot *Group) {
	for name, p := range snapshot.Props {
		if dst, ok := g.Props[name]; ok {
			*dst = *p
			dst.Items = append([]string(nil), p.Items...)
		}
	}
}
