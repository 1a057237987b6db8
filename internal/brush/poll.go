package brush

// Poll reports whether any tool can run: there is a target, at least one
// surface and no referenced surface is missing.
func Poll(h *Host) bool {
	return PollErr(h) == nil
}

// PollErr is Poll with the reason.
func PollErr(h *Host) error {
	if h == nil || h.Scene == nil {
		return ErrNoTarget
	}
	if _, ok := h.Scene.Target(); !ok {
		return ErrNoTarget
	}
	if len(h.Scene.Surfaces()) == 0 || !h.Scene.SurfacesComplete() {
		return ErrSurfacesMissing
	}
	return nil
}
