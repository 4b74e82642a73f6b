package di

import "reflect"

// Key identifies a registration by the Go type it is registered under.
// Keys for the same type compare equal everywhere in the process.
type Key struct {
	typ reflect.Type
}

// KeyOf returns the key for T. For interface types the key is the interface
// itself, not the dynamic type of any value.
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeFor[T]()}
}

// KeyFor returns the key for an existing reflect.Type.
func KeyFor(t reflect.Type) Key {
	return Key{typ: t}
}

// Type returns the underlying type, nil for the zero key.
func (k Key) Type() reflect.Type { return k.typ }

// IsZero reports whether the key has no type.
func (k Key) IsZero() bool { return k.typ == nil }

// String returns the package-qualified type name, e.g. "app.Clock".
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// Name returns the bare type name, falling back to String for unnamed types.
func (k Key) Name() string {
	if k.typ == nil {
		return "<nil>"
	}
	if n := k.typ.Name(); n != "" {
		return n
	}
	return k.typ.String()
}

// accepts reports whether v can be returned for this key.
func (k Key) accepts(v any) bool {
	if k.typ == nil || v == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(k.typ)
}

// typeName describes the dynamic type of v for diagnostics.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
