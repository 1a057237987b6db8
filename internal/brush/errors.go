package brush

import (
	"errors"

	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/tracker"
)

var (
	// ErrEmptyData is returned when a kernel has too few points to work on.
	ErrEmptyData = errors.New("brush: not enough points")
	// ErrTimerInvalid is returned by a timer callback that fired after its
	// tool was torn down.
	ErrTimerInvalid = errors.New("brush: timer fired for an inactive tool")
	// ErrNoTarget is returned when the scene has no manual-distribution target.
	ErrNoTarget = errors.New("brush: no active target")
	// ErrSurfacesMissing is returned when a referenced surface is gone.
	ErrSurfacesMissing = errors.New("brush: surfaces missing")
	// ErrUnknownTool is returned for an unregistered tool id.
	ErrUnknownTool = errors.New("brush: unknown tool")
)

// Recoverable reports errors the driver turns into a hint instead of a panic.
func Recoverable(err error) bool {
	return errors.Is(err, tracker.ErrPointerOffSurface) ||
		errors.Is(err, ErrEmptyData) ||
		errors.Is(err, geom.ErrDelaunayFailed)
}

// hintFor returns the message shown for a recoverable error.
func hintFor(err error) string {
	switch {
	case errors.Is(err, ErrEmptyData):
		return "Not enough points"
	case errors.Is(err, geom.ErrDelaunayFailed):
		return "Triangulation failed, relax is disabled"
	default:
		return ""
	}
}
