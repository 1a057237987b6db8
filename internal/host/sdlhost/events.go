package sdlhost

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scatterbrush/internal/input"
)

var keyTypes = map[sdl.Keycode]input.Type{
	sdl.K_ESCAPE:    input.Esc,
	sdl.K_RETURN:    input.Return,
	sdl.K_KP_ENTER:  input.Return,
	sdl.K_SPACE:     input.Space,
	sdl.K_TAB:       input.Tab,
	sdl.K_BACKSPACE: input.Backspace,
	sdl.K_DELETE:    input.Del,
	sdl.K_LCTRL:     input.LeftCtrl,
	sdl.K_RCTRL:     input.RightCtrl,
	sdl.K_LALT:      input.LeftAlt,
	sdl.K_RALT:      input.RightAlt,
	sdl.K_LSHIFT:    input.LeftShift,
	sdl.K_RSHIFT:    input.RightShift,
	sdl.K_LGUI:      input.OSKey,
	sdl.K_RGUI:      input.OSKey,
	sdl.K_KP_PLUS:   input.NumpadPlus,
	sdl.K_KP_MINUS:  input.NumpadMinus,
}

// keyType maps an SDL keycode to an input type, or input.NoType.
func keyType(k sdl.Keycode) input.Type {
	switch {
	case k >= sdl.K_a && k <= sdl.K_z:
		return input.KeyA + input.Type(k-sdl.K_a)
	case k >= sdl.K_0 && k <= sdl.K_9:
		return input.Key0 + input.Type(k-sdl.K_0)
	}
	if t, ok := keyTypes[k]; ok {
		return t
	}
	return input.NoType
}

// Translator turns SDL events into input events. It remembers the last
// pointer position for events SDL reports without one.
type Translator struct {
	// Height is the drawable height; region Y counts up from the bottom.
	Height int
	// Mods reads the held modifiers. It defaults to sdl.GetModState.
	Mods func() sdl.Keymod

	x, y int
}

// NewTranslator creates a translator for a window of the given height.
func NewTranslator(height int) *Translator {
	return &Translator{Height: height, Mods: sdl.GetModState}
}

func (t *Translator) pointer(typ input.Type, v input.Value, x, y int32) input.Event {
	t.x, t.y = int(x), t.Height-1-int(y)
	return t.event(typ, v, t.Mods())
}

func (t *Translator) event(typ input.Type, v input.Value, mod sdl.Keymod) input.Event {
	return input.Event{
		Type:         typ,
		Value:        v,
		MouseX:       t.x,
		MouseY:       t.y,
		MouseRegionX: t.x,
		MouseRegionY: t.y,
		Pressure:     1,
		Ctrl:         mod&sdl.KMOD_CTRL != 0,
		Alt:          mod&sdl.KMOD_ALT != 0,
		Shift:        mod&sdl.KMOD_SHIFT != 0,
		OSKey:        mod&sdl.KMOD_GUI != 0,
	}
}

// Translate converts one SDL event. The second result is false for events
// the brush runtime has no use for.
func (t *Translator) Translate(ev sdl.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *sdl.MouseMotionEvent:
		return t.pointer(input.MouseMove, input.Nothing, e.X, e.Y), true

	case *sdl.MouseButtonEvent:
		var typ input.Type
		switch e.Button {
		case sdl.BUTTON_LEFT:
			typ = input.LeftMouse
		case sdl.BUTTON_MIDDLE:
			typ = input.MiddleMouse
		case sdl.BUTTON_RIGHT:
			typ = input.RightMouse
		default:
			return input.Event{}, false
		}
		v := input.Release
		if e.State == sdl.PRESSED {
			v = input.Press
		}
		return t.pointer(typ, v, e.X, e.Y), true

	case *sdl.MouseWheelEvent:
		switch {
		case e.Y > 0:
			return t.event(input.WheelUpMouse, input.Press, t.Mods()), true
		case e.Y < 0:
			return t.event(input.WheelDownMouse, input.Press, t.Mods()), true
		}
		return input.Event{}, false

	case *sdl.KeyboardEvent:
		typ := keyType(e.Keysym.Sym)
		if typ == input.NoType {
			return input.Event{}, false
		}
		v := input.Release
		if e.State == sdl.PRESSED {
			v = input.Press
		}
		out := t.event(typ, v, sdl.Keymod(e.Keysym.Mod))
		out.IsRepeat = e.Repeat != 0
		return out, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
			return t.event(input.WindowDeactivate, input.Nothing, 0), true
		}
	}
	return input.Event{}, false
}
