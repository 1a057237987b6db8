package brush

import (
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
)

// Toolbox tracks the one tool that may run at a time. Timer callbacks
// compare their operator against it before doing any work.
type Toolbox struct {
	ToolID string
	Tool   *Operator
}

// Set makes op the active tool.
func (b *Toolbox) Set(op *Operator) {
	b.Tool = op
	b.ToolID = op.ID()
}

// Reset clears the active tool if it is op.
func (b *Toolbox) Reset(op *Operator) {
	if b.Tool == op {
		b.Tool = nil
		b.ToolID = ""
	}
}

// Is reports whether op is the active tool.
func (b *Toolbox) Is(op *Operator) bool {
	return op != nil && b.Tool == op
}

// ToolSession saves the host tool state on the first activation and puts it
// back when the last tool exits. It also carries per-tool data across
// activations, copied by value.
type ToolSession struct {
	Active            bool
	SavedTool         string
	SavedSelection    []string
	SavedActiveObject string

	cache map[string]any
}

// NewToolSession creates an inactive session.
func NewToolSession() *ToolSession {
	return &ToolSession{cache: make(map[string]any)}
}

// Begin records the host state unless a session is already running.
func (s *ToolSession) Begin(ui UI) {
	if s.Active {
		return
	}
	s.Active = true
	if ui == nil {
		return
	}
	s.SavedTool = ui.ActiveTool()
	s.SavedSelection = append([]string(nil), ui.Selection()...)
	s.SavedActiveObject = ui.ActiveObject()
}

// End restores the host state recorded by Begin.
func (s *ToolSession) End(ui UI) {
	if !s.Active {
		return
	}
	s.Active = false
	if ui == nil {
		return
	}
	ui.SetSelection(s.SavedSelection)
	ui.SetActiveObject(s.SavedActiveObject)
}

// SaveCache stores a deep copy of v under tool.
func SaveCache[T any](s *ToolSession, tool string, v T) error {
	var c T
	if err := copier.CopyWithOption(&c, &v, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("save %s cache: %w", tool, err)
	}
	s.cache[tool] = c
	return nil
}

// LoadCache returns a deep copy of the value stored under tool.
func LoadCache[T any](s *ToolSession, tool string) (T, bool, error) {
	var out T
	v, ok := s.cache[tool].(T)
	if !ok {
		return out, false, nil
	}
	if err := copier.CopyWithOption(&out, &v, copier.Option{DeepCopy: true}); err != nil {
		return out, false, fmt.Errorf("load %s cache: %w", tool, err)
	}
	return out, true, nil
}

// ClearCache drops the value stored under tool.
func (s *ToolSession) ClearCache(tool string) {
	delete(s.cache, tool)
}

// Scope runs a cleanup exactly once, however many times Close is called.
type Scope struct {
	once sync.Once
	fn   func()
}

// NewScope guards fn.
func NewScope(fn func()) *Scope {
	return &Scope{fn: fn}
}

// Close runs the cleanup on the first call.
func (s *Scope) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.fn != nil {
			s.fn()
		}
	})
}
