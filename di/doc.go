// Package di provides a process-wide dependency container keyed by type.
//
// A dependency is declared by a key type that supplies the default value,
// and a Field that gives the dependency a name at the point of use:
//
//	type clockKey struct{}
//
//	func (clockKey) DefaultValue() Clock { return systemClock{} }
//
//	var ClockDep = di.FieldOf[clockKey, Clock]()
//
// Consumers bind an accessor once and read it whenever they need the value.
// Every read resolves against the container's current state, so values set
// or overridden after the accessor was created are observed:
//
//	type Scheduler struct {
//	    clock di.Dependency[Clock]
//	}
//
//	func NewScheduler() *Scheduler {
//	    return &Scheduler{clock: di.Inject(ClockDep)}
//	}
//
//	func (s *Scheduler) Next() time.Time { return s.clock.Value().Now() }
//
// # Scoped overrides
//
// WithDependencies runs an operation against a copy of the shared container
// with overrides applied, then restores the previous container on every exit
// path, including errors and panics:
//
//	next, err := di.WithDependencies(func(c *di.Container) {
//	    ClockDep.Set(c, fixedClock{at: noon})
//	}, func() (time.Time, error) {
//	    return NewScheduler().Next(), nil
//	})
//
// Overrides nest and unwind in LIFO order. Concurrent scopes on the same slot
// race with each other: the last restore wins. Scopes are meant for tests and
// single-threaded setup code.
//
// # Missing and mismatched entries
//
// A key with no stored entry resolves to its DefaultValue, calling it on each
// read. An entry whose stored type does not match the key's value type can
// only be produced by misusing the untyped layer; it also resolves to the
// default and is reported through the logger and metrics unless disabled
// with Config.SilentMismatches.
package di
