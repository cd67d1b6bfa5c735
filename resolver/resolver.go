// Package resolver maps classified gestures to the macro bindings of the
// active profile.
package resolver

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/macrokeys/macrod/gesture"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
)

const cacheSize = 128

// Resolver answers (key, gesture) → binding lookups for one profile. A hot
// trigger is looked up on every classified gesture, so results are kept in a
// small LRU keyed by "key|gesture". The profile is read-only; the cache is
// rebuilt wholesale when a new profile is swapped in.
type Resolver struct {
	mu    sync.RWMutex
	prof  *profile.Profile
	cache *lru.Cache[string, *profile.MacroBinding]
}

func New(p *profile.Profile) (*Resolver, error) {
	cache, err := lru.New[string, *profile.MacroBinding](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{prof: p, cache: cache}, nil
}

func cacheKey(key input.Key, kind gesture.Kind) string {
	return string(key) + "|" + string(kind)
}

// Resolve returns the enabled binding triggered by (key, kind), or nil when
// nothing is bound.
func (r *Resolver) Resolve(key input.Key, kind gesture.Kind) *profile.MacroBinding {
	ck := cacheKey(key, kind)

	r.mu.RLock()
	if b, ok := r.cache.Get(ck); ok {
		r.mu.RUnlock()
		return b
	}
	prof := r.prof
	r.mu.RUnlock()

	var match *profile.MacroBinding
	for i := range prof.Bindings {
		b := &prof.Bindings[i]
		if b.Enabled && b.Trigger.Key == key && b.Trigger.Gesture == kind {
			match = b
			break
		}
	}

	r.mu.Lock()
	// negative results are cached too; misses dominate live streams
	r.cache.Add(ck, match)
	r.mu.Unlock()
	return match
}

// SetProfile swaps the active profile and invalidates the cache.
func (r *Resolver) SetProfile(p *profile.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prof = p
	r.cache.Purge()
}
