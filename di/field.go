package di

// Projection reads a value out of a container.
type Projection[V any] interface {
	Get(c *Container) V
}

// Field is a named getter/setter pair for one key. Dependency owners declare
// it once, next to the key:
//
//	var ClockDep = di.FieldOf[clockKey, Clock]()
//
// A Field must be created with FieldOf.
type Field[V any] struct {
	name   string
	get    func(*Container) V
	lookup func(*Container) (V, bool)
	set    func(*Container, V)
	unset  func(*Container)
}

// FieldOf returns the Field for key type K.
func FieldOf[K Key[V], V any]() Field[V] {
	return Field[V]{
		name:   keyID[K, V]().String(),
		get:    Get[K, V],
		lookup: Lookup[K, V],
		set:    Set[K, V],
		unset:  Unset[K, V],
	}
}

// Name returns the key type name the field is bound to.
func (f Field[V]) Name() string { return f.name }

// Get reads the field from c.
func (f Field[V]) Get(c *Container) V { return f.get(c) }

// Lookup reads the field from c and reports whether a value was stored.
func (f Field[V]) Lookup(c *Container) (V, bool) { return f.lookup(c) }

// Set stores v in c.
func (f Field[V]) Set(c *Container, v V) { f.set(c, v) }

// Unset removes the field's entry from c.
func (f Field[V]) Unset(c *Container) { f.unset(c) }

// Current reads the field from the shared container.
func (f Field[V]) Current() V { return f.get(Shared()) }

// projectionFunc adapts a function to Projection.
type projectionFunc[V any] func(*Container) V

func (p projectionFunc[V]) Get(c *Container) V { return p(c) }

// Project derives a projection that applies fn to the value read by p, for
// accessors that need a part of a dependency rather than the whole value.
// fn runs on every read.
func Project[V, W any](p Projection[V], fn func(V) W) Projection[W] {
	return projectionFunc[W](func(c *Container) W {
		return fn(p.Get(c))
	})
}
