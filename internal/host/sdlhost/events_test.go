package sdlhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scatterbrush/internal/input"
)

func translator(mods sdl.Keymod) *Translator {
	return &Translator{Height: 600, Mods: func() sdl.Keymod { return mods }}
}

func TestKeyType(t *testing.T) {
	tests := []struct {
		key  sdl.Keycode
		want input.Type
	}{
		{sdl.K_a, input.KeyA},
		{sdl.K_f, input.KeyF},
		{sdl.K_z, input.KeyZ},
		{sdl.K_0, input.Key0},
		{sdl.K_7, input.Key7},
		{sdl.K_ESCAPE, input.Esc},
		{sdl.K_KP_ENTER, input.Return},
		{sdl.K_LSHIFT, input.LeftShift},
		{sdl.K_RGUI, input.OSKey},
		{sdl.K_F5, input.NoType},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyType(tt.key), "key %d", tt.key)
	}
}

func TestTranslatePointerFlipsY(t *testing.T) {
	tr := translator(0)
	ev, ok := tr.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, State: sdl.PRESSED, X: 10, Y: 0})
	require.True(t, ok)
	assert.Equal(t, input.LeftMouse, ev.Type)
	assert.Equal(t, input.Press, ev.Value)
	assert.Equal(t, 10, ev.MouseRegionX)
	assert.Equal(t, 599, ev.MouseRegionY)
	assert.Equal(t, 1.0, ev.Pressure)

	ev, ok = tr.Translate(&sdl.MouseMotionEvent{X: 20, Y: 100})
	require.True(t, ok)
	assert.True(t, ev.IsMove())
	assert.Equal(t, 499, ev.MouseY)

	ev, ok = tr.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_MIDDLE, State: sdl.RELEASED, X: 20, Y: 100})
	require.True(t, ok)
	assert.True(t, ev.IsRelease(input.MiddleMouse))
}

func TestTranslateWheelKeepsPointer(t *testing.T) {
	tr := translator(sdl.KMOD_LCTRL)
	tr.Translate(&sdl.MouseMotionEvent{X: 30, Y: 40})

	ev, ok := tr.Translate(&sdl.MouseWheelEvent{Y: 1})
	require.True(t, ok)
	assert.Equal(t, input.WheelUpMouse, ev.Type)
	assert.Equal(t, 30, ev.MouseRegionX)
	assert.Equal(t, 559, ev.MouseRegionY)
	assert.True(t, ev.Ctrl)

	ev, ok = tr.Translate(&sdl.MouseWheelEvent{Y: -2})
	require.True(t, ok)
	assert.Equal(t, input.WheelDownMouse, ev.Type)

	_, ok = tr.Translate(&sdl.MouseWheelEvent{X: 1})
	assert.False(t, ok)
}

func TestTranslateKeyboard(t *testing.T) {
	tr := translator(0)
	ev, ok := tr.Translate(&sdl.KeyboardEvent{
		Type:   sdl.KEYDOWN,
		State:  sdl.PRESSED,
		Repeat: 1,
		Keysym: sdl.Keysym{Sym: sdl.K_f, Mod: uint16(sdl.KMOD_LSHIFT | sdl.KMOD_LALT)},
	})
	require.True(t, ok)
	assert.True(t, ev.IsPress(input.KeyF))
	assert.True(t, ev.Shift)
	assert.True(t, ev.Alt)
	assert.False(t, ev.Ctrl)
	assert.True(t, ev.IsRepeat)

	_, ok = tr.Translate(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_F5}})
	assert.False(t, ok)
}

func TestTranslateFocusLoss(t *testing.T) {
	ev, ok := translator(0).Translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_LOST})
	require.True(t, ok)
	assert.Equal(t, input.WindowDeactivate, ev.Type)

	_, ok = translator(0).Translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED})
	assert.False(t, ok)
}
