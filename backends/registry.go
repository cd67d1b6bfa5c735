package backends

import (
	"sync"

	"github.com/macrokeys/macrod/utils"
)

// Registry tracks live backends for cleanup on shutdown. The backend is the
// single shared mutable resource of the agent; destroying it exactly once on
// SIGINT/SIGTERM or fatal startup failure goes through here.
type Registry struct {
	mu       sync.Mutex
	backends []Backend
}

// NewRegistry creates a new backend registry instance
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a backend to the registry for cleanup tracking
func (r *Registry) Register(backend Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends = append(r.backends, backend)
}

// CleanupAll destroys every registered backend. Safe to call more than once;
// the list is cleared after the first pass.
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, backend := range r.backends {
		if err := backend.Destroy(); err != nil {
			utils.Verbose("error destroying %s backend: %v", backend.Kind(), err)
		}
	}
	r.backends = nil
}
