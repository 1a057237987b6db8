package keymap

import (
	"strings"

	"github.com/Faultbox/scatterbrush/internal/gesture"
)

// Markdown renders the resolved shortcuts as two tables.
func (k *Keymap) Markdown() string {
	var b strings.Builder

	b.WriteString("### Tools\n\n")
	b.WriteString("| Tool | Shortcut | Pretty |\n")
	b.WriteString("| ---- | -------- | ------ |\n")
	for _, id := range k.ToolIDs() {
		bd := k.Tools[id]
		b.WriteString("| `" + id + "` | " + bd.String() + " | " + bd.PrettyFor("darwin") + " |\n")
	}
	b.WriteString("\n### Gestures\n\n")
	b.WriteString("| Slot | Shortcut | Pretty |\n")
	b.WriteString("| ---- | -------- | ------ |\n")
	for _, slot := range gesture.Slots() {
		bd, ok := k.Gestures[slot]
		if !ok {
			continue
		}
		b.WriteString("| " + slot.String() + " | " + bd.String() + " | " + bd.PrettyFor("darwin") + " |\n")
	}
	b.WriteString("\n")
	return b.String()
}
