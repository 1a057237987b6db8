package keymap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/logger"
)

// Match is the result of Check. Exactly one of Tool or Gesture is set.
type Match struct {
	Tool    string
	Gesture bool
	Slot    gesture.Slot
	Binding Binding
}

// Keymap holds the resolved shortcuts.
type Keymap struct {
	Tools    map[string]Binding
	Gestures map[gesture.Slot]Binding
}

// File is the on-disk override format, in YAML or TOML:
//
//	tools:
//	  spray: "shift+S"
//	gestures:
//	  primary: "F"
type File struct {
	Tools    map[string]string `yaml:"tools" toml:"tools"`
	Gestures map[string]string `yaml:"gestures" toml:"gestures"`
}

var defaultTools = map[string]string{
	"dot":             "D",
	"path":            "P",
	"chain":           "shift+P",
	"line":            "L",
	"spatter":         "alt+S",
	"spray":           "S",
	"spray_aligned":   "shift+S",
	"lasso_fill":      "shift+L",
	"clone":           "C",
	"move":            "G",
	"free_move":       "shift+G",
	"drop_down":       "shift+D",
	"relax":           "R",
	"attract":         "A",
	"push":            "shift+A",
	"split":           "alt+A",
	"turbulence":      "T",
	"spin":            "shift+R",
	"comb":            "B",
	"z_align":         "Z",
	"rotation_set":    "alt+R",
	"random_rotation": "shift+alt+R",
	"scale_set":       "alt+G",
	"grow_shrink":     "shift+alt+G",
	"object_set":      "O",
	"eraser":          "E",
	"dilute":          "shift+E",
	"lasso_eraser":    "alt+E",
	"heaper":          "H",
}

var defaultGestures = map[gesture.Slot]string{
	gesture.Primary:    "F",
	gesture.Secondary:  "shift+F",
	gesture.Tertiary:   "ctrl+F",
	gesture.Quaternary: "alt+F",
}

// Defaults returns the built-in table.
func Defaults() *Keymap {
	k := &Keymap{Tools: make(map[string]Binding), Gestures: make(map[gesture.Slot]Binding)}
	for id, s := range defaultTools {
		k.Tools[id] = MustParse(s)
	}
	for slot, s := range defaultGestures {
		k.Gestures[slot] = MustParse(s)
	}
	return k
}

// Load applies the overrides in path on top of the defaults. Unknown tool
// ids are skipped and reported as warnings, with a suggestion when one is
// close. An empty path returns the defaults.
func Load(path string) (*Keymap, []string, error) {
	k := Defaults()
	if path == "" {
		return k, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	warnings, err := k.Apply(f)
	if err != nil {
		return nil, nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	log := logger.Named("keymap")
	for _, w := range warnings {
		log.Warn(w, zap.String("path", path))
	}
	return k, warnings, nil
}

// Apply overrides bindings from f. The empty string unbinds a shortcut.
func (k *Keymap) Apply(f File) ([]string, error) {
	var warnings []string
	ids := make([]string, 0, len(f.Tools))
	for id := range f.Tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := k.Tools[id]; !ok {
			w := fmt.Sprintf("unknown tool %q", id)
			if s := k.Suggest(id); s != "" {
				w += fmt.Sprintf(", did you mean %q?", s)
			}
			warnings = append(warnings, w)
			continue
		}
		if f.Tools[id] == "" {
			delete(k.Tools, id)
			continue
		}
		b, err := ParseBinding(f.Tools[id])
		if err != nil {
			return nil, err
		}
		k.Tools[id] = b
	}
	for name, s := range f.Gestures {
		slot, ok := gesture.ParseSlot(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown gesture slot %q", name))
			continue
		}
		if s == "" {
			delete(k.Gestures, slot)
			continue
		}
		b, err := ParseBinding(s)
		if err != nil {
			return nil, err
		}
		k.Gestures[slot] = b
	}
	warnings = append(warnings, k.conflicts()...)
	return warnings, nil
}

// conflicts lists bindings shared by more than one action.
func (k *Keymap) conflicts() []string {
	owners := make(map[Binding][]string)
	for id, b := range k.Tools {
		owners[b] = append(owners[b], "tool "+id)
	}
	for slot, b := range k.Gestures {
		owners[b] = append(owners[b], "gesture "+slot.String())
	}
	var out []string
	for b, names := range owners {
		if len(names) > 1 {
			sort.Strings(names)
			out = append(out, fmt.Sprintf("%s is bound to %s", b, strings.Join(names, " and ")))
		}
	}
	sort.Strings(out)
	return out
}

// Suggest returns the known tool id most similar to id, or "" when none is
// reasonably close.
func (k *Keymap) Suggest(id string) string {
	best, score := "", 0.0
	lev := metrics.NewLevenshtein()
	for known := range k.Tools {
		s := strutil.Similarity(id, known, lev)
		if s > score || (s == score && known < best) {
			best, score = known, s
		}
	}
	if score < 0.5 {
		return ""
	}
	return best
}

// Check returns a copy of the binding ev triggers, or nil. Gestures take
// precedence over tools.
func (k *Keymap) Check(ev input.Event) *Match {
	var m *Match
	for _, slot := range gesture.Slots() {
		if b, ok := k.Gestures[slot]; ok && b.Matches(ev) {
			m = &Match{Gesture: true, Slot: slot, Binding: b}
			break
		}
	}
	if m == nil {
		for _, id := range k.ToolIDs() {
			if b := k.Tools[id]; b.Matches(ev) {
				m = &Match{Tool: id, Binding: b}
				break
			}
		}
	}
	if m == nil {
		return nil
	}
	out := &Match{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return m
	}
	return out
}

// ToolIDs returns the bound tool ids in sorted order.
func (k *Keymap) ToolIDs() []string {
	ids := make([]string, 0, len(k.Tools))
	for id := range k.Tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tool returns the binding of a tool.
func (k *Keymap) Tool(id string) (Binding, bool) {
	b, ok := k.Tools[id]
	return b, ok
}

// Gesture returns the binding of a gesture slot.
func (k *Keymap) Gesture(slot gesture.Slot) (Binding, bool) {
	b, ok := k.Gestures[slot]
	return b, ok
}

// Clone returns a deep copy.
func (k *Keymap) Clone() *Keymap {
	out := &Keymap{}
	if err := copier.CopyWithOption(out, k, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return out
}

// File returns k in the override format, for saving.
func (k *Keymap) File() File {
	f := File{Tools: make(map[string]string), Gestures: make(map[string]string)}
	for id, b := range k.Tools {
		f.Tools[id] = b.String()
	}
	for slot, b := range k.Gestures {
		f.Gestures[slot.String()] = b.String()
	}
	return f
}
