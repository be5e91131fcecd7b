package di

import (
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/depkit/errors"
)

// entry is the boxed form of a stored value.
type entry interface {
	valueType() reflect.Type
}

// box holds a value of the key's value type. Asserting back to box[V] keeps
// nil interface values distinguishable from a foreign entry.
type box[V any] struct {
	value V
}

func (box[V]) valueType() reflect.Type { return reflect.TypeFor[V]() }

// Container maps key types to stored values. It is safe for concurrent use.
// The zero value is an empty container ready to use. A nil *Container reads
// as empty; writes require a non-nil container.
type Container struct {
	mu      sync.RWMutex
	entries map[reflect.Type]entry
}

// Registration describes a stored entry for introspection.
type Registration struct {
	Key  string // key type, e.g. "app.clockKey"
	Type string // stored value type
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{entries: make(map[reflect.Type]entry)}
}

// Get returns the value stored for K, or K's default when nothing is stored.
// An entry of the wrong type also yields the default.
func Get[K Key[V], V any](c *Container) V {
	v, _ := Lookup[K, V](c)
	return v
}

// Lookup returns the same value as Get and reports whether it came from a
// stored entry.
func Lookup[K Key[V], V any](c *Container) (V, bool) {
	id := keyID[K, V]()
	e, ok := c.load(id)
	if !ok {
		recordResolution(sourceDefault, id)
		return defaultOf[K, V](), false
	}
	if b, ok := e.(box[V]); ok {
		recordResolution(sourceStored, id)
		return b.value, true
	}
	reportMismatch(id, reflect.TypeFor[V](), e.valueType())
	return defaultOf[K, V](), false
}

// Resolve returns the value stored for K without falling back to the
// default. It fails with errors.ErrCodeNotFound when nothing is stored and
// errors.ErrCodeTypeMismatch when the entry holds another type.
func Resolve[K Key[V], V any](c *Container) (V, error) {
	var zero V
	id := keyID[K, V]()
	e, ok := c.load(id)
	if !ok {
		return zero, errors.NotFound(id.String())
	}
	b, ok := e.(box[V])
	if !ok {
		return zero, errors.TypeMismatch(id.String(), reflect.TypeFor[V]().String(), e.valueType().String())
	}
	recordResolution(sourceStored, id)
	return b.value, nil
}

// Set stores v for K, replacing any previous entry.
func Set[K Key[V], V any](c *Container, v V) {
	c.store(keyID[K, V](), box[V]{value: v})
}

// Unset removes the entry for K so reads return the default again.
func Unset[K Key[V], V any](c *Container) {
	id := keyID[K, V]()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clone returns an independent copy. Mutating either container never
// affects the other.
func (c *Container) Clone() *Container {
	clone := NewContainer()
	if c == nil {
		return clone
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, e := range c.entries {
		clone.entries[id] = e
	}
	return clone
}

// WithOverrides returns a copy of c with override applied to it. c itself is
// left untouched. A nil override yields a plain copy.
func (c *Container) WithOverrides(override func(*Container)) *Container {
	clone := c.Clone()
	if override != nil {
		override(clone)
	}
	return clone
}

// Len returns the number of stored entries.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset removes every stored entry.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[reflect.Type]entry)
}

// Registrations lists the stored entries sorted by key name.
func (c *Container) Registrations() []Registration {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	result := make([]Registration, 0, len(c.entries))
	for id, e := range c.entries {
		result = append(result, Registration{
			Key:  id.String(),
			Type: e.valueType().String(),
		})
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// restoreFrom replaces c's entries with saved's. saved must be a private
// clone that nothing else references.
func (c *Container) restoreFrom(saved *Container) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = saved.entries
}

func (c *Container) load(id reflect.Type) (entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	return e, ok
}

func (c *Container) store(id reflect.Type, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[reflect.Type]entry)
	}
	c.entries[id] = e
}
