package input

import (
	"fmt"
	"strings"
)

// Type identifies the device action that produced an event.
type Type int

const (
	NoType Type = iota
	MouseMove
	InbetweenMouseMove
	LeftMouse
	MiddleMouse
	RightMouse
	WheelUpMouse
	WheelDownMouse
	Timer
	NDOFMotion
	TrackpadPan
	TrackpadZoom
	WindowDeactivate

	Esc
	Return
	Space
	Tab
	Backspace
	Del
	LeftCtrl
	RightCtrl
	LeftAlt
	RightAlt
	LeftShift
	RightShift
	OSKey

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	NumpadPlus
	NumpadMinus

	typeCount
)

var typeNames = map[Type]string{
	NoType:             "NONE",
	MouseMove:          "MOUSEMOVE",
	InbetweenMouseMove: "INBETWEEN_MOUSEMOVE",
	LeftMouse:          "LEFTMOUSE",
	MiddleMouse:        "MIDDLEMOUSE",
	RightMouse:         "RIGHTMOUSE",
	WheelUpMouse:       "WHEELUPMOUSE",
	WheelDownMouse:     "WHEELDOWNMOUSE",
	Timer:              "TIMER",
	NDOFMotion:         "NDOF_MOTION",
	TrackpadPan:        "TRACKPADPAN",
	TrackpadZoom:       "TRACKPADZOOM",
	WindowDeactivate:   "WINDOW_DEACTIVATE",
	Esc:                "ESC",
	Return:             "RET",
	Space:              "SPACE",
	Tab:                "TAB",
	Backspace:          "BACK_SPACE",
	Del:                "DEL",
	LeftCtrl:           "LEFT_CTRL",
	RightCtrl:          "RIGHT_CTRL",
	LeftAlt:            "LEFT_ALT",
	RightAlt:           "RIGHT_ALT",
	LeftShift:          "LEFT_SHIFT",
	RightShift:         "RIGHT_SHIFT",
	OSKey:              "OSKEY",
	NumpadPlus:         "NUMPAD_PLUS",
	NumpadMinus:        "NUMPAD_MINUS",
}

var typeByName map[string]Type

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		typeNames[k] = string(rune('A' + int(k-KeyA)))
	}
	numbers := []string{"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE"}
	for k := Key0; k <= Key9; k++ {
		typeNames[k] = numbers[k-Key0]
	}
	typeByName = make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		typeByName[n] = t
	}
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a host event type name such as "LEFTMOUSE" or "F".
func ParseType(name string) (Type, error) {
	if t, ok := typeByName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return NoType, fmt.Errorf("unknown event type %q", name)
}

// IsModifierKey reports keys that only change modifier state.
func (t Type) IsModifierKey() bool {
	switch t {
	case LeftCtrl, RightCtrl, LeftAlt, RightAlt, LeftShift, RightShift, OSKey:
		return true
	}
	return false
}

// IsMouseButton reports pointer buttons.
func (t Type) IsMouseButton() bool {
	return t == LeftMouse || t == MiddleMouse || t == RightMouse
}

// IsWheel reports wheel steps.
func (t Type) IsWheel() bool {
	return t == WheelUpMouse || t == WheelDownMouse
}

// IsKeyboard reports letter, digit and named keys.
func (t Type) IsKeyboard() bool {
	return t >= Esc && t < typeCount
}
