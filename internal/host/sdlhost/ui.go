package sdlhost

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
)

// UI keeps the chrome state like the headless host and mirrors the cursor
// and status to the window.
type UI struct {
	*headless.UI

	cursors map[brush.Cursor]*sdl.Cursor
	log     *zap.Logger
}

func newUI(log *zap.Logger) *UI {
	return &UI{
		UI: &headless.UI{Tool: "builtin.select"},
		cursors: map[brush.Cursor]*sdl.Cursor{
			brush.CursorDefault:   sdl.CreateSystemCursor(sdl.SYSTEM_CURSOR_ARROW),
			brush.CursorPaint:     sdl.CreateSystemCursor(sdl.SYSTEM_CURSOR_HAND),
			brush.CursorCrosshair: sdl.CreateSystemCursor(sdl.SYSTEM_CURSOR_CROSSHAIR),
		},
		log: log,
	}
}

func (u *UI) SetCursor(c brush.Cursor) {
	u.UI.SetCursor(c)
	u.apply()
}

func (u *UI) RestoreCursor() {
	u.UI.RestoreCursor()
	u.apply()
}

func (u *UI) apply() {
	if u.Cursor == brush.CursorNone {
		sdl.ShowCursor(sdl.DISABLE)
		return
	}
	sdl.ShowCursor(sdl.ENABLE)
	if c := u.cursors[u.Cursor]; c != nil {
		sdl.SetCursor(c)
	}
}

func (u *UI) Hint(text string) {
	u.UI.Hint(text)
	u.log.Info("hint", zap.String("text", text))
}

// Title is the window title for the current state.
func (u *UI) Title(app, tool string) string {
	parts := []string{app}
	if tool != "" {
		parts = append(parts, tool)
	}
	if u.Status != "" {
		parts = append(parts, u.Status)
	}
	if n := len(u.Hints); n > 0 {
		parts = append(parts, u.Hints[n-1])
	}
	if len(u.Infobox) > 0 {
		parts = append(parts, strings.Join(u.Infobox, ", "))
	}
	return strings.Join(parts, " | ")
}

func (u *UI) close() {
	for _, c := range u.cursors {
		if c != nil {
			sdl.FreeCursor(c)
		}
	}
}
