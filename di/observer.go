package di

import "time"

// Operation names a registry mutation.
type Operation string

const (
	OpRegister     Operation = "register"
	OpRegisterLazy Operation = "register_lazy"
	OpRemove       Operation = "remove"
	OpProtect      Operation = "protect"
	OpClear        Operation = "clear"
)

// Observer receives notifications about registry activity. Implementations
// must be safe for concurrent use and must not call back into the registry.
type Observer interface {
	// Resolved is called once per Resolve with the mode of the entry that
	// served it. mode is meaningless when err reports a missing key.
	Resolved(key Key, mode RegistrationMode, d time.Duration, err error)
	// Materialized is called after a lazy factory ran, successful or not.
	Materialized(key Key, started time.Time, d time.Duration, err error)
	// Mutated is called after a mutation took effect. Clear reports a zero key.
	Mutated(op Operation, key Key)
}

type nopObserver struct{}

func (nopObserver) Resolved(Key, RegistrationMode, time.Duration, error) {}
func (nopObserver) Materialized(Key, time.Time, time.Duration, error)    {}
func (nopObserver) Mutated(Operation, Key)                               {}
