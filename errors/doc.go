// Package errors provides the structured error type used across depkit.
//
// Errors carry a machine-readable ErrorCode so callers can branch on the
// kind of failure without matching message text:
//
//	v, err := di.Resolve[fooKey, Foo](c)
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//	    // nothing was registered for fooKey
//	}
package errors
