package di

import "sync"

// Injected resolves T on first access and caches the result. It is safe for
// concurrent use.
//
//	type Handler struct {
//	    clock *di.Injected[Clock]
//	}
//
//	func (h *Handler) Now() time.Time { return h.clock.Get().Now() }
type Injected[T any] struct {
	c Container

	mu       sync.Mutex
	resolved bool
	value    T
}

// Inject returns an accessor that resolves T from c.
func Inject[T any](c Container) *Injected[T] {
	return &Injected[T]{c: c}
}

// InjectDefault returns an accessor that resolves T from the Default registry.
func InjectDefault[T any]() *Injected[T] {
	return &Injected[T]{}
}

func (i *Injected[T]) container() Container {
	if i.c == nil {
		return Default()
	}
	return i.c
}

// Get returns the cached value, resolving it on first use. It panics like
// MustResolve when T is not registered.
func (i *Injected[T]) Get() T {
	v, err := i.Lookup()
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup is Get with an error instead of a panic. Failures are not cached.
func (i *Injected[T]) Lookup() (T, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.resolved {
		return i.value, nil
	}
	v, err := Resolve[T](i.container())
	if err != nil {
		return v, err
	}
	i.value, i.resolved = v, true
	return v, nil
}

// Set replaces the cached value and registers it as T's implementation.
func (i *Injected[T]) Set(v T) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.value, i.resolved = v, true
	Register[T](i.container(), v)
}
