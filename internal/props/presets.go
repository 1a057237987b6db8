package props

import (
	_ "embed"
	"fmt"
	gomath "math"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type propSpec struct {
	Type    Kind     `yaml:"type"`
	Default any      `yaml:"default"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Items   []string `yaml:"items"`
	Subtype Subtype  `yaml:"subtype"`
	Label   string   `yaml:"label"`
}

type toolSpec struct {
	Include []string            `yaml:"include"`
	Props   map[string]propSpec `yaml:"props"`
}

type presetFile struct {
	Shared map[string]map[string]propSpec `yaml:"shared"`
	Tools  map[string]toolSpec            `yaml:"tools"`
}

// Presets maps tool ids to their default property groups.
type Presets struct {
	groups map[string]*Group
}

// Defaults returns the built-in presets.
func Defaults() *Presets {
	p, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("props: embedded defaults: %v", err))
	}
	return p
}

// Load reads the built-in presets and applies the overrides in path, if set.
func Load(path string) (*Presets, error) {
	p := Defaults()
	if err := p.OverrideFile(path); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse builds presets from YAML.
func Parse(data []byte) (*Presets, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	p := &Presets{groups: make(map[string]*Group)}
	for tool, ts := range f.Tools {
		g := NewGroup(tool)
		for _, inc := range ts.Include {
			shared, ok := f.Shared[inc]
			if !ok {
				return nil, fmt.Errorf("tool %s includes unknown block %q", tool, inc)
			}
			if err := addSpecs(g, shared); err != nil {
				return nil, fmt.Errorf("tool %s: %w", tool, err)
			}
		}
		if err := addSpecs(g, ts.Props); err != nil {
			return nil, fmt.Errorf("tool %s: %w", tool, err)
		}
		p.groups[tool] = g
	}
	return p, nil
}

// Override sets default values from a YAML document of the form
// tool: {property: value}.
func (p *Presets) Override(data []byte) error {
	var f map[string]map[string]any
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for tool, values := range f {
		for name, raw := range values {
			if err := p.SetDefault(tool, name, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// OverrideFile applies the overrides stored in path. An empty path is a
// no-op.
func (p *Presets) OverrideFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := p.Override(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SetDefault changes the default of one property, clamped to its range.
func (p *Presets) SetDefault(tool, name string, v any) error {
	g, ok := p.groups[tool]
	if !ok {
		return fmt.Errorf("unknown tool %q", tool)
	}
	prop, ok := g.Props[name]
	if !ok {
		return fmt.Errorf("tool %s has no property %q", tool, name)
	}
	if err := assign(prop, v); err != nil {
		return fmt.Errorf("%s.%s: %w", tool, name, err)
	}
	return nil
}

// Tools returns the tool ids in sorted order.
func (p *Presets) Tools() []string {
	out := make([]string, 0, len(p.groups))
	for t := range p.groups {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Group returns a fresh copy of a tool's defaults.
func (p *Presets) Group(tool string) (*Group, bool) {
	g, ok := p.groups[tool]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func addSpecs(g *Group, specs map[string]propSpec) error {
	for name, s := range specs {
		lo, hi := Unbounded()
		if s.Min != nil {
			lo = *s.Min
		}
		if s.Max != nil {
			hi = *s.Max
		}
		prop := &Prop{
			Name:    name,
			Kind:    s.Type,
			Subtype: s.Subtype,
			Label:   s.Label,
			Items:   s.Items,
			Min:     lo,
			Max:     hi,
		}
		if prop.Label == "" {
			prop.Label = Label(name)
		}
		if err := assign(prop, s.Default); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		g.Add(prop)
	}
	return nil
}

func assign(p *Prop, raw any) error {
	switch p.Kind {
	case Float:
		f, ok := number(raw)
		if !ok {
			return fmt.Errorf("want number, got %T", raw)
		}
		p.Float, _ = p.Clamp(f)
	case Int:
		f, ok := number(raw)
		if !ok {
			return fmt.Errorf("want integer, got %T", raw)
		}
		f, _ = p.Clamp(gomath.Round(f))
		p.Int = int(f)
	case Bool:
		b, ok := raw.(bool)
		if !ok && raw != nil {
			return fmt.Errorf("want bool, got %T", raw)
		}
		p.Bool = b
	case Enum:
		s, _ := raw.(string)
		if len(p.Items) == 0 {
			return fmt.Errorf("enum without items")
		}
		if s == "" {
			s = p.Items[0]
		}
		found := false
		for _, it := range p.Items {
			found = found || it == s
		}
		if !found {
			return fmt.Errorf("%q is not one of %s", s, strings.Join(p.Items, ", "))
		}
		p.Enum = s
	case Vec3:
		list, ok := raw.([]any)
		if !ok || len(list) != 3 {
			return fmt.Errorf("want three numbers")
		}
		var v mgl64.Vec3
		for k, c := range list {
			f, ok := number(c)
			if !ok {
				return fmt.Errorf("component %d: want number, got %T", k, c)
			}
			v[k], _ = p.Clamp(f)
		}
		p.Vec = v
	default:
		return fmt.Errorf("unknown type %q", p.Kind)
	}
	return nil
}

func number(raw any) (float64, bool) {
	switch x := raw.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case nil:
		return 0, true
	}
	return 0, false
}

var titler = cases.Title(language.English)

// Label turns a snake_case id into a display label.
func Label(id string) string {
	return titler.String(strings.ReplaceAll(id, "_", " "))
}
