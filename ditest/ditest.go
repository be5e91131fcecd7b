package ditest

import (
	"testing"

	"github.com/kbukum/depkit/di"
)

// Reset installs an empty shared container and returns it. The previous
// container is restored when the test finishes.
func Reset(t testing.TB) *di.Container {
	t.Helper()
	return install(t, di.NewContainer())
}

// Override installs a copy of the current shared container with override
// applied and returns it. The previous container is restored when the test
// finishes. Later writes to the returned container stay visible until then.
func Override(t testing.TB, override func(*di.Container)) *di.Container {
	t.Helper()
	return install(t, di.Shared().WithOverrides(override))
}

// Use installs c as the shared container until the test finishes.
func Use(t testing.TB, c *di.Container) *di.Container {
	t.Helper()
	if c == nil {
		c = di.NewContainer()
	}
	return install(t, c)
}

func install(t testing.TB, c *di.Container) *di.Container {
	prev := di.SharedSlot().Swap(c)
	t.Cleanup(func() { di.SetShared(prev) })
	return c
}
