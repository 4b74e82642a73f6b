package di

import "sync"

// Registration is the handle returned by the typed Register helpers. It
// stands in for the registering object's lifetime: releasing it applies the
// registration's Policy.
//
//	h := di.Register[Store](reg, store, di.WithPolicy(di.OnRelease))
//	defer h.Close()
type Registration[T any] struct {
	c      Container
	key    Key
	id     string
	policy Policy

	once sync.Once
}

// Key returns the key the value was registered under.
func (h *Registration[T]) Key() Key { return h.key }

// ID returns the registration ID, matching RegistrationInfo.ID.
func (h *Registration[T]) ID() string { return h.id }

// Policy returns the removal policy.
func (h *Registration[T]) Policy() Policy { return h.policy }

// Release removes the registration when the policy is OnRelease and does
// nothing otherwise. Only the first call has an effect.
func (h *Registration[T]) Release() {
	h.once.Do(func() {
		if h.policy == OnRelease {
			h.c.Remove(h.key)
		}
	})
}

// Close calls Release. It lets handles be used with defer and io.Closer.
func (h *Registration[T]) Close() error {
	h.Release()
	return nil
}
