package di

import (
	"sync"
	"sync/atomic"
)

// Slot holds the current container of a process-wide registry. Accessors
// bound to a slot re-read it on every access, so containers installed later,
// permanently or by a scoped override, are observed.
type Slot struct {
	mu      sync.RWMutex
	current *Container
	depth   atomic.Int32
}

// NewSlot creates a slot holding c, or an empty container when c is nil.
func NewSlot(c *Container) *Slot {
	if c == nil {
		c = NewContainer()
	}
	return &Slot{current: c}
}

// Load returns the slot's current container.
func (s *Slot) Load() *Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Store replaces the slot's container. A nil container installs an empty one.
func (s *Slot) Store(c *Container) {
	s.Swap(c)
}

// Swap replaces the slot's container and returns the previous one.
func (s *Slot) Swap(c *Container) *Container {
	if c == nil {
		c = NewContainer()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.current
	s.current = c
	return old
}

// Depth returns the number of scoped overrides currently open on the slot.
func (s *Slot) Depth() int {
	return int(s.depth.Load())
}

// Run is WithDependenciesIn for operations that produce no result.
func (s *Slot) Run(override func(*Container), operation func()) {
	_, _ = WithDependenciesIn(s, override, func() (struct{}, error) {
		operation()
		return struct{}{}, nil
	})
}

var shared = NewSlot(nil)

// SharedSlot returns the slot holding the process-wide shared container.
func SharedSlot() *Slot { return shared }

// Shared returns the current process-wide shared container.
func Shared() *Container { return shared.Load() }

// SetShared permanently replaces the shared container. A nil container
// installs an empty one.
func SetShared(c *Container) { shared.Store(c) }

// ResetShared installs a fresh empty shared container. Nothing resets the
// shared container implicitly; test setup calls this or ditest.Reset.
func ResetShared() { shared.Store(NewContainer()) }
