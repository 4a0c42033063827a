package backend

import (
	"sync"

	"github.com/loomkit/weave"
)

// Factory creates a new backend instance.
type Factory func() RenderBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Selection order for Default (first available wins). The raster
	// backend leads: it is the parity reference and always works.
	priority = []string{
		string(weave.BackendRaster),
		string(weave.BackendVector),
		string(weave.BackendCompute),
		string(weave.BackendFragment),
	}
)

// Register registers a backend factory under the given name, replacing
// any previous registration. Typically called from init() in backend
// packages.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. Useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Registered returns the names of all registered backends.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a backend with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new backend instance by name, or nil if the name is not
// registered.
func Get(name string) RenderBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the first available backend in priority order, or nil
// if none is registered.
func Default() RenderBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, name := range priority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil && b.Available() {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil && b.Available() {
			return b
		}
	}
	return nil
}
