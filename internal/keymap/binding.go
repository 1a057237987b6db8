// Package keymap resolves tool and gesture shortcuts from user overrides and
// the built-in defaults, and formats them for display.
package keymap

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Faultbox/scatterbrush/internal/input"
)

// Binding is one shortcut: an event type and value with an exact modifier set.
type Binding struct {
	Type  input.Type
	Value input.Value
	Mods  input.Mods
}

// Matches reports whether ev triggers b. Key repeats never match.
func (b Binding) Matches(ev input.Event) bool {
	return !ev.IsRepeat && ev.Type == b.Type && ev.Value == b.Value && ev.Mods() == b.Mods
}

// IsZero reports an unset binding.
func (b Binding) IsZero() bool { return b.Type == input.NoType }

var modOrder = []struct {
	mod   input.Mods
	name  string
	glyph string
}{
	{input.ModCtrl, "Ctrl", "⌃"},
	{input.ModAlt, "Alt", "⌥"},
	{input.ModShift, "Shift", "⇧"},
	{input.ModOS, "OS", "⌘"},
}

// String renders the binding as "Ctrl+Shift+F"; non-press values are
// appended after a colon.
func (b Binding) String() string {
	var parts []string
	for _, m := range modOrder {
		if b.Mods.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, b.Type.String())
	s := strings.Join(parts, "+")
	if b.Value != input.Press {
		s += ":" + b.Value.String()
	}
	return s
}

// Pretty renders the binding with the modifier glyphs of the running platform.
func (b Binding) Pretty() string { return b.PrettyFor(runtime.GOOS) }

// PrettyFor renders the binding for goos. macOS gets glyphs without
// separators, other platforms the plain names.
func (b Binding) PrettyFor(goos string) string {
	if goos != "darwin" {
		return strings.ReplaceAll(b.String(), "+", " ")
	}
	var sb strings.Builder
	for _, m := range modOrder {
		if b.Mods.Has(m.mod) {
			sb.WriteString(m.glyph)
		}
	}
	sb.WriteString(b.Type.String())
	return sb.String()
}

// ParseBinding reads "ctrl+shift+F" or "alt+LEFTMOUSE:CLICK". Modifier
// names are case-insensitive; "cmd" and "oskey" mean the OS key.
func ParseBinding(s string) (Binding, error) {
	b := Binding{Value: input.Press}
	s = strings.TrimSpace(s)
	if s == "" {
		return Binding{}, fmt.Errorf("keymap: empty binding")
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		v, err := input.ParseValue(s[i+1:])
		if err != nil {
			return Binding{}, fmt.Errorf("keymap: %q: %w", s, err)
		}
		b.Value = v
		s = s[:i]
	}
	parts := strings.Split(s, "+")
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			b.Mods |= input.ModCtrl
		case "alt", "option":
			b.Mods |= input.ModAlt
		case "shift":
			b.Mods |= input.ModShift
		case "os", "oskey", "cmd", "command", "super":
			b.Mods |= input.ModOS
		default:
			return Binding{}, fmt.Errorf("keymap: %q: unknown modifier %q", s, p)
		}
	}
	t, err := input.ParseType(parts[len(parts)-1])
	if err != nil {
		return Binding{}, fmt.Errorf("keymap: %q: %w", s, err)
	}
	b.Type = t
	return b, nil
}

// MustParse is ParseBinding for static tables.
func MustParse(s string) Binding {
	b, err := ParseBinding(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MarshalText implements encoding.TextMarshaler.
func (b Binding) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Binding) UnmarshalText(text []byte) error {
	parsed, err := ParseBinding(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
