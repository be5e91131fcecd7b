package di

import "reflect"

// Key is implemented by the type that identifies a dependency. Keys are never
// stored or instantiated by callers; only the type's identity is used, so two
// key types with the same value type are distinct dependencies.
//
// DefaultValue must be free of side effects. It is called on every read that
// finds no stored entry.
type Key[V any] interface {
	DefaultValue() V
}

// keyID returns the identity a key type is stored under.
func keyID[K Key[V], V any]() reflect.Type {
	return reflect.TypeFor[K]()
}

func defaultOf[K Key[V], V any]() V {
	var k K
	return k.DefaultValue()
}
