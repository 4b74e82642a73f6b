package di

// Register stores value under T's key and returns its handle. With the
// Never policy the key is protected right after registering.
//
// Example:
//
//	di.Register[contracts.BotRepository](reg, repo, di.Protected())
func Register[T any](c Container, value T, opts ...RegisterOption) *Registration[T] {
	key := KeyOf[T]()
	return track[T](c, key, c.Register(key, value), opts)
}

// RegisterLazy stores factory under T's key. The factory runs on the first
// Resolve, at most once.
func RegisterLazy[T any](c Container, factory func() T, opts ...RegisterOption) *Registration[T] {
	key := KeyOf[T]()
	id := c.RegisterLazy(key, func() (any, error) {
		return factory(), nil
	})
	return track[T](c, key, id, opts)
}

// RegisterLazyE is RegisterLazy for factories that can fail. A failed
// factory leaves the registration lazy, so the next Resolve runs it again.
func RegisterLazyE[T any](c Container, factory func() (T, error), opts ...RegisterOption) *Registration[T] {
	key := KeyOf[T]()
	id := c.RegisterLazy(key, func() (any, error) {
		v, err := factory()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	return track[T](c, key, id, opts)
}

func track[T any](c Container, key Key, id string, opts []RegisterOption) *Registration[T] {
	o := resolveRegisterOptions(opts)
	if o.policy == Never {
		c.Protect(key)
	}
	return &Registration[T]{c: c, key: key, id: id, policy: o.policy}
}

// Provide registers value in the Default registry.
func Provide[T any](value T, opts ...RegisterOption) *Registration[T] {
	return Register[T](Default(), value, opts...)
}

// ProvideLazy registers factory in the Default registry.
func ProvideLazy[T any](factory func() T, opts ...RegisterOption) *Registration[T] {
	return RegisterLazy[T](Default(), factory, opts...)
}

// Resolve resolves T with type safety and returns an error matching
// ErrNotFound when nothing usable is registered.
//
// Example:
//
//	repo, err := di.Resolve[contracts.BotRepository](reg)
//	if err != nil {
//	    return fmt.Errorf("failed to get bot repository: %w", err)
//	}
func Resolve[T any](c Container) (T, error) {
	var zero T
	key := KeyOf[T]()
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, typeMismatch(key, instance)
	}
	return result, nil
}

// MustResolve resolves T and panics with the resolution error when nothing
// usable is registered. The panic value is an error naming T.
func MustResolve[T any](c Container) T {
	result, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return result
}

// TryResolve resolves T and reports whether it succeeded.
// Use this at call sites where a dependency is optional.
func TryResolve[T any](c Container) (T, bool) {
	result, err := Resolve[T](c)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

// Remove deletes T's registration unless it is protected.
func Remove[T any](c Container) bool {
	return c.Remove(KeyOf[T]())
}

// Protect exempts T's key from Remove.
func Protect[T any](c Container) {
	c.Protect(KeyOf[T]())
}

// IsRegistered reports whether T has a registration.
func IsRegistered[T any](c Container) bool {
	return c.Has(KeyOf[T]())
}
