// Package di provides the type-keyed dependency engine used by depengine
// applications.
//
// Implementations are registered under the type consumers ask for, usually an
// interface, either eagerly as a constructed value or lazily as a factory that
// runs on first resolution. A Registry can be created explicitly for isolated
// wiring (tests) or reached through Default for process-wide sharing.
//
// # Registration
//
//	di.Register[Clock](reg, systemClock{})
//	di.RegisterLazy[Greeter](reg, func() Greeter {
//	    return newGreeter()
//	}, di.WithPolicy(di.Never))
//
// # Resolution
//
//	clock := di.MustResolve[Clock](reg)
//
// Resolving a type that was never registered is a programming error:
// MustResolve panics and Resolve returns an error wrapping ErrNotFound. Both
// name the requested type.
//
// # Concurrency
//
// Resolving an already constructed value only takes the registry read lock.
// Register, RegisterLazy, Remove, Clear and Protect take the write lock. A
// lazy factory runs at most once per registration: concurrent first readers
// of the same type wait on that registration's lock while the factory runs,
// and the constructed value replaces the lazy entry under the write lock.
// Readers and writers of other types are not blocked by a slow factory.
//
// Mutations are not blocked by a running factory either, even for the same
// type. A Register, Remove or Clear that lands while a factory runs wins: the
// factory's result is returned to the readers waiting on it but is not
// stored over the newer state.
//
// Registries created with New and no WithLogger option, including Default,
// look up the "di" logger on each use, so logger.Init may run after them.
package di
