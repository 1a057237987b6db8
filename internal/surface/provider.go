package surface

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
)

// Provider owns the session's cache: built lazily on first use and
// released on Free.
type Provider struct {
	src   Source
	cache *Cache
}

// NewProvider creates a provider reading surfaces from src.
func NewProvider(src Source) *Provider {
	return &Provider{src: src}
}

// Get returns the cache, building it if needed.
func (p *Provider) Get() (*Cache, error) {
	if p.cache != nil {
		return p.cache, nil
	}
	c, err := Build(p.src.Surfaces())
	if err != nil {
		return nil, err
	}
	p.cache = c
	return c, nil
}

// Valid reports whether a cache is currently built.
func (p *Provider) Valid() bool { return p.cache != nil }

// Reinit drops the cache so the next Get rebuilds it from the current surfaces.
func (p *Provider) Reinit() {
	if p.cache != nil {
		logger.Named("surface").Debug("cache invalidated", zap.Int("triangles", len(p.cache.FVertices)))
	}
	p.cache = nil
}

// Free releases the cache at session end.
func (p *Provider) Free() {
	p.cache = nil
}
