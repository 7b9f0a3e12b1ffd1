package restcountries

import (
	"context"
	"strings"
	"sync"
)

// Lookup fetches country metadata by display name.
type Lookup interface {
	LookupByName(ctx context.Context, name string) (CountryInfo, error)
}

// Resolver memoises lookups by lower-cased name for the life of the process.
// Entries are never evicted. Concurrent misses for the same name are not
// coalesced; each one issues its own lookup.
type Resolver struct {
	lookup Lookup

	mu    sync.Mutex
	cache map[string]*CountryInfo
}

func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup, cache: make(map[string]*CountryInfo)}
}

// Resolve returns the cached record for name, or fetches and caches it.
// A cache hit returns the same pointer on every call.
func (r *Resolver) Resolve(ctx context.Context, name string) (*CountryInfo, error) {
	key := cacheKey(name)
	if info, ok := r.Cached(name); ok {
		return info, nil
	}

	fetched, err := r.lookup.LookupByName(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cache[key]; ok {
		return existing, nil
	}
	info := &fetched
	r.cache[key] = info
	return info, nil
}

// Cached reports the cached record for name without touching the network.
func (r *Resolver) Cached(name string) (*CountryInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.cache[cacheKey(name)]
	return info, ok
}

// Len reports how many countries are cached.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
