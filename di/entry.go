package di

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegistrationMode determines how a registration produces its value.
type RegistrationMode int

const (
	Eager RegistrationMode = iota // Value constructed before registration
	Lazy                          // Factory invoked on first resolve
)

// String returns the lowercase mode name.
func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText renders the mode by name in JSON output.
func (m RegistrationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Factory builds a lazily registered value.
type Factory func() (any, error)

// entry is one registration. Entries with ready set are immutable once
// stored. Lazy entries keep their factory and construction state behind mu;
// a constructed lazy entry is replaced in the map by a ready copy.
type entry struct {
	key          Key
	id           string
	registeredAt time.Time
	mode         RegistrationMode
	ready        bool
	value        any

	mu      sync.Mutex
	factory Factory
	built   bool
}

func newEager(key Key, value any) *entry {
	return &entry{
		key:          key,
		id:           uuid.NewString(),
		registeredAt: time.Now(),
		mode:         Eager,
		ready:        true,
		value:        value,
	}
}

func newLazy(key Key, factory Factory) *entry {
	return &entry{
		key:          key,
		id:           uuid.NewString(),
		registeredAt: time.Now(),
		mode:         Lazy,
		factory:      factory,
	}
}

// construct runs the factory unless a previous caller already did.
// The caller must hold e.mu. The factory reference is dropped after a
// successful call; on error the entry stays unbuilt so a later resolve
// can try again.
func (e *entry) construct() (value any, ran bool, err error) {
	if e.built {
		return e.value, false, nil
	}
	v, err := e.factory()
	if err != nil {
		return nil, true, err
	}
	e.value = v
	e.built = true
	e.factory = nil
	return v, true, nil
}

// materialized returns the ready replacement for a built lazy entry.
// It keeps the registration identity and mode so handles and
// introspection still refer to the same registration.
func (e *entry) materialized() *entry {
	return &entry{
		key:          e.key,
		id:           e.id,
		registeredAt: e.registeredAt,
		mode:         e.mode,
		ready:        true,
		value:        e.value,
	}
}
