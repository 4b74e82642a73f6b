package di

import "fmt"

// Policy controls what happens to a registration when its handle is released.
type Policy int

const (
	// NotConfigured leaves the registration in place on release; Remove and
	// Clear still apply.
	NotConfigured Policy = iota
	// Never protects the key from Remove as soon as it is registered.
	Never
	// OnRelease removes the registration when its handle is released.
	OnRelease
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case NotConfigured:
		return "not_configured"
	case Never:
		return "never"
	case OnRelease:
		return "on_release"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// RegisterOption configures a typed registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	policy Policy
}

// WithPolicy sets the removal policy for the registration.
func WithPolicy(p Policy) RegisterOption {
	return func(o *registerOptions) { o.policy = p }
}

// Protected is shorthand for WithPolicy(Never).
func Protected() RegisterOption { return WithPolicy(Never) }

func resolveRegisterOptions(opts []RegisterOption) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
