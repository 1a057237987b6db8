package headless

import "github.com/Faultbox/scatterbrush/internal/points"

type undoStep struct {
	message string
	target  *points.Target
}

// Undo keeps a full snapshot of the target per step.
type Undo struct {
	scene  *Scene
	steps  []undoStep
	pos    int
	noRedo bool

	// Messages lists every pushed message in order, including ones later
	// dropped by undo.
	Messages []string
}

// NewUndo starts a history whose first step is the scene's current state.
func NewUndo(scene *Scene) *Undo {
	u := &Undo{scene: scene}
	u.Clear()
	return u
}

func (u *Undo) snapshot() *points.Target {
	t, ok := u.scene.Target()
	if !ok {
		return nil
	}
	return t.Clone()
}

// Push records the current state.
func (u *Undo) Push(message string) {
	u.steps = append(u.steps[:u.pos+1], undoStep{message: message, target: u.snapshot()})
	u.pos = len(u.steps) - 1
	u.Messages = append(u.Messages, message)
}

// Undo restores the previous step.
func (u *Undo) Undo() bool {
	if u.pos == 0 {
		return false
	}
	u.pos--
	u.restore()
	return true
}

// Redo restores the next step unless redo is disabled.
func (u *Undo) Redo() bool {
	if u.noRedo || u.pos >= len(u.steps)-1 {
		return false
	}
	u.pos++
	u.restore()
	return true
}

func (u *Undo) restore() {
	if t := u.steps[u.pos].target; t != nil {
		u.scene.SetTarget(t.Clone())
	}
}

// Clear drops the history, keeping the current state as the only step.
func (u *Undo) Clear() {
	u.steps = []undoStep{{message: "Original", target: u.snapshot()}}
	u.pos = 0
}

// SetRedoEnabled implements brush.UndoStack.
func (u *Undo) SetRedoEnabled(enabled bool) { u.noRedo = !enabled }

// Len returns the number of steps that can be undone.
func (u *Undo) Len() int { return u.pos }

// Last returns the message of the current step.
func (u *Undo) Last() string { return u.steps[u.pos].message }
