package brush

import (
	"fmt"
	"sort"
)

// Factory creates a fresh tool instance for one activation.
type Factory func() Brush

// Registry maps tool ids to factories.
type Registry struct {
	factories map[string]Factory
	infos     map[string]Info
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		infos:     make(map[string]Info),
	}
}

// Register adds a tool. Registering an id twice panics.
func (r *Registry) Register(f Factory) {
	info := f().Info()
	if _, dup := r.factories[info.ID]; dup {
		panic(fmt.Sprintf("brush: tool %q registered twice", info.ID))
	}
	r.factories[info.ID] = f
	r.infos[info.ID] = info
}

// New creates a tool by id.
func (r *Registry) New(id string) (Brush, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return f(), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns every registered id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Infos returns the UI description of every tool, ordered by category then id.
func (r *Registry) Infos() []Info {
	out := make([]Info, 0, len(r.infos))
	for _, id := range r.IDs() {
		out = append(out, r.infos[id])
	}
	order := map[Category]int{CategoryCreate: 0, CategoryModify: 1, CategoryErase: 2, CategorySpecial: 3}
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].Category] < order[out[j].Category]
	})
	return out
}
