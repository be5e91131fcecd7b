// Package ditest provides test helpers for code that reads dependencies from
// the shared di container.
//
// Each helper swaps the shared container for the duration of a test and
// restores the previous one through t.Cleanup:
//
//	func TestGreeting(t *testing.T) {
//	    ditest.Override(t, func(c *di.Container) {
//	        app.Clock.Set(c, fixedClock{})
//	    })
//	    // app code now observes fixedClock
//	}
//
// The shared container is process-wide. Tests that use these helpers must
// not call t.Parallel with other tests touching the same container.
package ditest
