package di

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/depkit/observability"
)

// Scope outcomes recorded in logs and metrics.
const (
	statusOK    = "ok"
	statusError = "error"
	statusPanic = "panic"
)

// WithDependencies runs operation with the shared container replaced by a
// copy carrying override's changes. The previous shared container is restored
// when operation returns, fails or panics, and operation's result and error
// are passed through unchanged.
//
// Nested calls start from the already overridden container, so overrides
// compose and unwind in LIFO order. Changes made to Shared() inside the
// scope are discarded on exit. So are writes made during the scope through
// a reference to the pre-scope container: its entries are reset to what
// they held on entry, and the same pointer is reinstalled.
func WithDependencies[R any](override func(*Container), operation func() (R, error)) (R, error) {
	return WithDependenciesIn(shared, override, operation)
}

// WithDependenciesIn is WithDependencies for an explicit slot.
func WithDependenciesIn[R any](s *Slot, override func(*Container), operation func() (R, error)) (R, error) {
	snapshot := s.Load()
	saved := snapshot.Clone()
	scoped := saved.WithOverrides(override)
	s.Store(scoped)

	st := beginScope(s.depth.Add(1), scoped.Len())
	status := statusPanic
	defer func() {
		snapshot.restoreFrom(saved)
		s.Store(snapshot)
		s.depth.Add(-1)
		st.end(status)
	}()

	result, err := operation()
	if err != nil {
		status = statusError
	} else {
		status = statusOK
	}
	return result, err
}

// WithDependenciesContext is WithDependencies with the scope recorded as a
// span carrying its depth, the installed entries and the exit status.
// operation receives the span's context.
func WithDependenciesContext[R any](
	ctx context.Context,
	override func(*Container),
	operation func(context.Context) (R, error),
) (result R, err error) {
	ctx, span := observability.StartScopeSpan(ctx, shared.Depth()+1)
	defer func() {
		if r := recover(); r != nil {
			observability.EndScopeSpan(span, statusPanic, fmt.Errorf("panic in dependency scope: %v", r))
			panic(r)
		}
		status := statusOK
		if err != nil {
			status = statusError
		}
		observability.EndScopeSpan(span, status, err)
	}()

	return WithDependencies(override, func() (R, error) {
		span.SetAttributes(scopeAttributes(Shared())...)
		return operation(ctx)
	})
}

func scopeAttributes(c *Container) []attribute.KeyValue {
	regs := c.Registrations()
	keys := make([]string, len(regs))
	for i, r := range regs {
		keys[i] = r.Key
	}
	return observability.ScopeAttributes(len(regs), keys)
}
