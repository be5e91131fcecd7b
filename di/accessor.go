package di

// Dependency is a read-time binding from a consumer to a projection of a
// container. It holds no value; each call to Value resolves against the
// bound source's current state. Create it with Inject; the zero Dependency
// reads as the zero V.
type Dependency[V any] struct {
	projection Projection[V]
	source     func() *Container
}

type options struct {
	source func() *Container
}

// Option configures the source an accessor reads from.
type Option func(*options)

// FromContainer binds the accessor to c. Later changes to c are observed,
// but scoped overrides of the shared container are not.
func FromContainer(c *Container) Option {
	return func(o *options) {
		o.source = func() *Container { return c }
	}
}

// FromSlot binds the accessor to s, re-reading the slot on every access.
func FromSlot(s *Slot) Option {
	return func(o *options) {
		o.source = s.Load
	}
}

// Inject binds p to the shared container, or to the source chosen by opts.
func Inject[V any](p Projection[V], opts ...Option) Dependency[V] {
	o := options{source: shared.Load}
	for _, opt := range opts {
		opt(&o)
	}
	return Dependency[V]{projection: p, source: o.source}
}

// Value reads the dependency from the bound source.
func (d Dependency[V]) Value() V {
	if d.projection == nil {
		var zero V
		return zero
	}
	source := d.source
	if source == nil {
		source = shared.Load
	}
	return d.projection.Get(source())
}
