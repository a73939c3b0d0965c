package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/sandbox"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{WGPU, Software}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages:
//
//	func init() {
//	    backend.Register(backend.Software, func() (sandbox.FrameDevice, error) {
//	        return New(), nil
//	    })
//	}
//
// If a backend with the same name is already registered, it is replaced.
// Register panics if factory is nil.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("backend: Register factory is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get opens the named backend.
func Get(name string) (sandbox.FrameDevice, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (forgotten import?)", ErrBackendNotAvailable, name)
	}
	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// Default opens the best available backend based on priority.
// Priority order: wgpu > software. Backends that fail to open are
// skipped with a warning.
func Default() (sandbox.FrameDevice, string, error) {
	names := make([]string, 0, len(backendPriority))
	registryMu.RLock()
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			names = append(names, name)
		}
	}
	for name := range backends {
		if !contains(backendPriority, name) {
			names = append(names, name)
		}
	}
	registryMu.RUnlock()

	for _, name := range names {
		dev, err := Get(name)
		if err != nil {
			sandbox.Logger().Warn("backend: unavailable, trying next", "backend", name, "err", err)
			continue
		}
		sandbox.Logger().Info("backend: selected", "backend", name)
		return dev, name, nil
	}
	return nil, "", ErrBackendNotAvailable
}

// MustDefault returns the default backend or panics.
func MustDefault() sandbox.FrameDevice {
	dev, _, err := Default()
	if err != nil {
		panic("backend: no backend available")
	}
	return dev
}

// Open returns the named backend, or the default one when name is empty
// or "auto".
func Open(name string) (sandbox.FrameDevice, string, error) {
	if name == "" || name == "auto" {
		return Default()
	}
	dev, err := Get(name)
	if err != nil {
		return nil, "", err
	}
	return dev, name, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
