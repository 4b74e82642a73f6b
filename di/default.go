package di

import (
	"sync"
	"sync/atomic"
)

var (
	defaultRegistry atomic.Pointer[Registry]
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
// Tests should prefer their own registry from New.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry.CompareAndSwap(nil, New())
	})
	return defaultRegistry.Load()
}

// SetDefault installs r as the process-wide registry. Call it during
// startup, before other code has captured Default.
func SetDefault(r *Registry) {
	if r == nil {
		return
	}
	defaultOnce.Do(func() {})
	defaultRegistry.Store(r)
}
