package services

import (
	"sync"

	"properties-api/domain"
	"properties-api/repositories"
)

// cacheGuard ordena los rellenos del cache frente a las invalidaciones.
// Una lectura que trajo la fila antes de un update o delete no la vuelve
// a escribir en el cache.
type cacheGuard struct {
	cache repositories.CacheRepository

	mu       sync.Mutex
	seq      uint64
	versions map[uint]uint64
}

func newCacheGuard(cache repositories.CacheRepository) *cacheGuard {
	return &cacheGuard{
		cache:    cache,
		versions: make(map[uint]uint64),
	}
}

// version se toma antes de leer la fila de la base.
func (g *cacheGuard) version(id uint) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.versions[id]
}

// fill guarda la propiedad solo si nadie invalidó la clave desde seen.
func (g *cacheGuard) fill(property *domain.Property, seen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.versions[property.ID] != seen {
		return false
	}
	g.cache.Set(property)
	return true
}

// invalidate borra la clave y deja obsoleta cualquier lectura en curso.
func (g *cacheGuard) invalidate(id uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.versions[id] = g.seq
	g.cache.Delete(id)
}
