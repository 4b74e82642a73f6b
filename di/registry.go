package di

import (
	"errors"
	"io"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/depengine/logger"
)

// Container is the type-erased registry surface. *Registry implements it;
// the generic helpers in this package accept any Container.
type Container interface {
	Register(key Key, value any) string
	RegisterLazy(key Key, factory Factory) string
	Resolve(key Key) (any, error)
	Remove(key Key) bool
	Clear()
	Protect(key Key)

	// Introspection
	Has(key Key) bool
	IsProtected(key Key) bool
	Len() int
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key          Key              `json:"-"`
	Type         string           `json:"type"`
	ID           string           `json:"id"`
	Mode         RegistrationMode `json:"mode"`
	Initialized  bool             `json:"initialized"`
	Protected    bool             `json:"protected"`
	RegisteredAt time.Time        `json:"registered_at"`
}

// Registry maps type keys to registrations. The zero value is not usable;
// create one with New or use Default.
type Registry struct {
	mu        sync.RWMutex
	entries   map[Key]*entry
	protected map[Key]struct{}

	log      *logger.Logger
	observer Observer
}

var _ Container = (*Registry)(nil)

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[Key]*entry),
		protected: make(map[Key]struct{}),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// logger returns the configured logger, or the "di" logger as it is at call
// time so registries created before logger.Init pick up the initialized one.
func (r *Registry) logger() *logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.Get("di")
}

// Register stores value under key, replacing any existing registration.
// It returns the new registration ID.
func (r *Registry) Register(key Key, value any) string {
	e := newEager(key, value)

	r.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()

	r.observer.Mutated(OpRegister, key)
	if value == nil {
		r.logger().Warn("Registered nil value; resolving it will fail", logger.Fields(
			logger.FieldType, key.String(),
			logger.FieldRegistrationID, e.id,
		))
		return e.id
	}
	r.logger().Debug("Registered eager component", logger.Fields(
		logger.FieldType, key.String(),
		logger.FieldRegistrationID, e.id,
	))
	return e.id
}

// RegisterLazy stores factory under key, replacing any existing
// registration. The factory is not invoked until the first Resolve.
func (r *Registry) RegisterLazy(key Key, factory Factory) string {
	e := newLazy(key, factory)

	r.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()

	r.observer.Mutated(OpRegisterLazy, key)
	r.logger().Debug("Registered lazy component", logger.Fields(
		logger.FieldType, key.String(),
		logger.FieldRegistrationID, e.id,
	))
	return e.id
}

// Resolve returns the value registered under key, running a lazy factory if
// this is the first resolve of that registration. A missing registration or
// a value that does not satisfy the key's type yields an error matching
// ErrNotFound.
func (r *Registry) Resolve(key Key) (any, error) {
	start := time.Now()

	r.mu.RLock()
	e, exists := r.entries[key]
	r.mu.RUnlock()

	if !exists {
		err := notFound(key)
		r.observer.Resolved(key, Eager, time.Since(start), err)
		return nil, err
	}

	var (
		value any
		err   error
	)
	if e.ready {
		value = e.value
	} else {
		value, err = r.materialize(e)
	}
	if err == nil && !key.accepts(value) {
		err = typeMismatch(key, value)
		value = nil
	}

	r.observer.Resolved(key, e.mode, time.Since(start), err)
	return value, err
}

// materialize constructs a lazy entry. The entry lock serializes the factory
// so concurrent first readers share one invocation; the map swap happens
// under the registry write lock and only if the entry is still current, so
// a registration that replaced it in the meantime is never overwritten.
func (r *Registry) materialize(lazy *entry) (any, error) {
	lazy.mu.Lock()
	defer lazy.mu.Unlock()

	started := time.Now()
	value, ran, err := lazy.construct()
	if !ran {
		return value, nil
	}
	d := time.Since(started)
	r.observer.Materialized(lazy.key, started, d, err)

	if err != nil {
		r.logger().Error("Lazy component initialization failed", logger.Fields(
			logger.FieldType, lazy.key.String(),
			logger.FieldRegistrationID, lazy.id,
			logger.FieldError, err.Error(),
		))
		return nil, constructionFailed(lazy.key, err)
	}

	r.mu.Lock()
	current, exists := r.entries[lazy.key]
	stored := exists && current == lazy
	if stored {
		r.entries[lazy.key] = lazy.materialized()
	}
	r.mu.Unlock()

	fields := logger.Fields(
		logger.FieldType, lazy.key.String(),
		logger.FieldRegistrationID, lazy.id,
		logger.FieldDuration, d.Milliseconds(),
	)
	if stored {
		r.logger().Debug("Lazy component initialized", fields)
	} else {
		r.logger().Debug("Lazy component initialized after being replaced; result not stored", fields)
	}
	return value, nil
}

// Remove deletes the registration for key and reports whether one was
// deleted. Protected keys and absent keys are left alone.
func (r *Registry) Remove(key Key) bool {
	r.mu.Lock()
	if _, ok := r.protected[key]; ok {
		r.mu.Unlock()
		r.logger().Info("Remove skipped for protected component", logger.Fields(
			logger.FieldType, key.String(),
		))
		return false
	}
	_, exists := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()

	if exists {
		r.observer.Mutated(OpRemove, key)
		r.logger().Debug("Removed component", logger.Fields(logger.FieldType, key.String()))
	}
	return exists
}

// Clear deletes every registration and forgets every protected key.
// It is meant for resetting state between tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	n, p := len(r.entries), len(r.protected)
	r.entries = make(map[Key]*entry)
	r.protected = make(map[Key]struct{})
	r.mu.Unlock()

	r.observer.Mutated(OpClear, Key{})
	r.logger().Warn("Registry cleared", logger.Fields(
		"registrations", n,
		"protected", p,
	))
}

// Protect exempts key from Remove. Protection is kept until Clear.
func (r *Registry) Protect(key Key) {
	r.mu.Lock()
	_, already := r.protected[key]
	r.protected[key] = struct{}{}
	r.mu.Unlock()

	if already {
		return
	}
	r.observer.Mutated(OpProtect, key)
	r.logger().Info("Component protected from removal", logger.Fields(
		logger.FieldType, key.String(),
	))
}

// Has reports whether key has a registration.
func (r *Registry) Has(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// IsProtected reports whether key is protected from Remove.
func (r *Registry) IsProtected(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.protected[key]
	return ok
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Registrations returns info about all registrations sorted by type name.
// It never runs lazy factories.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.RLock()
	result := make([]RegistrationInfo, 0, len(r.entries))
	for key, e := range r.entries {
		_, protected := r.protected[key]
		result = append(result, RegistrationInfo{
			Key:          key,
			Type:         key.String(),
			ID:           e.id,
			Mode:         e.mode,
			Initialized:  e.ready,
			Protected:    protected,
			RegisteredAt: e.registeredAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})
	return result
}

// constructedClosers snapshots the ready values implementing io.Closer,
// each instance once.
func (r *Registry) constructedClosers() []io.Closer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var closers []io.Closer
	seen := make(map[io.Closer]struct{})
	for _, e := range r.entries {
		if !e.ready {
			continue
		}
		c, ok := e.value.(io.Closer)
		if !ok {
			continue
		}
		// The same instance may be registered under several interfaces.
		// Only values that are comparable at runtime can be map keys.
		if reflect.ValueOf(c).Comparable() {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
		}
		closers = append(closers, c)
	}
	return closers
}

// Close calls Close on every constructed value that implements io.Closer,
// then clears the registry. Lazy registrations that were never resolved are
// not constructed. Errors from closers are joined.
func (r *Registry) Close() error {
	closers := r.constructedClosers()

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.Clear()
	return errors.Join(errs...)
}
