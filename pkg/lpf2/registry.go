package lpf2

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry errors.
var (
	ErrNilDescriptor     = errors.New("nil device descriptor")
	ErrDuplicateDescType = errors.New("duplicate device type")
)

// Registry maps device types to their descriptors.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	descs map[DeviceType]*DeviceDescriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descs: make(map[DeviceType]*DeviceDescriptor),
	}
}

// Register adds a descriptor. A device type can only be registered once.
func (r *Registry) Register(desc *DeviceDescriptor) error {
	if desc == nil {
		return ErrNilDescriptor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descs[desc.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDescType, desc.Type)
	}
	r.descs[desc.Type] = desc
	return nil
}

// Lookup returns the descriptor registered for t.
func (r *Registry) Lookup(t DeviceType) (*DeviceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descs[t]
	return desc, ok
}

// Types returns all registered device types in ascending order.
func (r *Registry) Types() []DeviceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]DeviceType, 0, len(r.descs))
	for t := range r.descs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}
