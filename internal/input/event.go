// Package input defines the host-neutral event model the brush runtime consumes.
package input

import (
	"fmt"
	"strings"
)

// Value is the state transition carried by an event.
type Value int

const (
	Nothing Value = iota
	Press
	Release
	Click
	DoubleClick
	Any
)

var valueNames = [...]string{"NOTHING", "PRESS", "RELEASE", "CLICK", "DOUBLE_CLICK", "ANY"}

func (v Value) String() string {
	if v < 0 || int(v) >= len(valueNames) {
		return fmt.Sprintf("Value(%d)", int(v))
	}
	return valueNames[v]
}

// ParseValue resolves a value name such as "PRESS".
func ParseValue(name string) (Value, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range valueNames {
		if n == name {
			return Value(i), nil
		}
	}
	return Nothing, fmt.Errorf("unknown event value %q", name)
}

// Mods is a bitmask of held modifier keys.
type Mods uint8

const (
	ModCtrl Mods = 1 << iota
	ModAlt
	ModShift
	ModOS
)

// Has reports whether every modifier in m is held.
func (m Mods) Has(other Mods) bool {
	return m&other == other
}

func (m Mods) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModOS) {
		parts = append(parts, "OS")
	}
	return strings.Join(parts, "+")
}

// Event is one input event delivered by the host.
// Mouse coordinates are window pixels; region coordinates are relative to the
// region under the pointer with the origin at the bottom-left corner.
type Event struct {
	Type   Type
	Value  Value
	MouseX int
	MouseY int

	MouseRegionX int
	MouseRegionY int

	IsTablet bool
	Pressure float64    // 0..1, 1 for non-tablet devices
	Tilt     [2]float64 // -1..1 per axis

	Ctrl     bool
	Alt      bool
	Shift    bool
	OSKey    bool
	IsRepeat bool
}

// Mods returns the held modifiers as a bitmask.
func (e Event) Mods() Mods {
	var m Mods
	if e.Ctrl {
		m |= ModCtrl
	}
	if e.Alt {
		m |= ModAlt
	}
	if e.Shift {
		m |= ModShift
	}
	if e.OSKey {
		m |= ModOS
	}
	return m
}

// IsPress reports a press of the given type.
func (e Event) IsPress(t Type) bool {
	return e.Type == t && e.Value == Press
}

// IsRelease reports a release of the given type.
func (e Event) IsRelease(t Type) bool {
	return e.Type == t && e.Value == Release
}

// IsMove reports pointer motion, including inbetween samples.
func (e Event) IsMove() bool {
	return e.Type == MouseMove || e.Type == InbetweenMouseMove
}

// EffectivePressure returns the tablet pressure, or 1 for plain mice.
func (e Event) EffectivePressure() float64 {
	if !e.IsTablet {
		return 1
	}
	return e.Pressure
}

func (e Event) String() string {
	mods := e.Mods().String()
	if mods != "" {
		mods = " " + mods
	}
	return fmt.Sprintf("%s:%s (%d,%d)%s", e.Type, e.Value, e.MouseRegionX, e.MouseRegionY, mods)
}
