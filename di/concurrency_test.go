package di

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu           sync.Mutex
	mutations    map[Operation]int
	resolved     int
	materialized int
	lastErr      error
}

func (o *recordingObserver) Resolved(_ Key, _ RegistrationMode, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolved++
	o.lastErr = err
}

func (o *recordingObserver) Materialized(Key, time.Time, time.Duration, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.materialized++
}

func (o *recordingObserver) Mutated(op Operation, _ Key) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mutations == nil {
		o.mutations = make(map[Operation]int)
	}
	o.mutations[op]++
}

func (o *recordingObserver) count(op Operation) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mutations[op]
}

func TestLazyConstructOnceUnderContention(t *testing.T) {
	const readers = 16
	r := quietRegistry()
	key := KeyOf[greeter]()

	var calls atomic.Int32
	r.RegisterLazy(key, func() (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // widen the race window
		return &englishGreeter{name: "shared"}, nil
	})

	start := make(chan struct{})
	results := make([]any, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			v, err := r.Resolve(key)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load(), "factory must run exactly once")
	for i := 1; i < readers; i++ {
		assert.Same(t, results[0], results[i], "every reader must observe the same instance")
	}
}

func TestEagerReadsDoNotBlockEachOther(t *testing.T) {
	r := quietRegistry()
	key := KeyOf[string]()
	r.Register(key, "v")

	// Holding the read lock must not stop other eager reads.
	r.mu.RLock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := r.Resolve(key)
		assert.NoError(t, err)
		assert.Equal(t, "v", v)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("eager resolve blocked behind a reader")
	}
	r.mu.RUnlock()
}

func TestRegisterDuringMaterializationWins(t *testing.T) {
	r := quietRegistry()
	key := KeyOf[greeter]()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	r.RegisterLazy(key, func() (any, error) {
		close(entered)
		<-proceed
		return englishGreeter{name: "lazy"}, nil
	})

	got := make(chan any, 1)
	go func() {
		v, err := r.Resolve(key)
		assert.NoError(t, err)
		got <- v
	}()

	<-entered
	r.Register(key, englishGreeter{name: "explicit"})
	close(proceed)

	assert.Equal(t, "hello lazy", (<-got).(greeter).Greet(), "the in-flight reader gets the constructed value")

	v, err := r.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "hello explicit", v.(greeter).Greet(), "the later registration must not be overwritten")
}

func TestRemoveDuringMaterializationIsNotUndone(t *testing.T) {
	r := quietRegistry()
	key := KeyOf[greeter]()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	r.RegisterLazy(key, func() (any, error) {
		close(entered)
		<-proceed
		return englishGreeter{}, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Resolve(key)
	}()

	<-entered
	require.True(t, r.Remove(key))
	close(proceed)
	<-done

	assert.False(t, r.Has(key), "materialization must not resurrect a removed registration")
}

func TestSlowFactoryDoesNotStallOtherKeys(t *testing.T) {
	r := quietRegistry()
	slow := KeyOf[greeter]()
	fast := KeyOf[string]()

	entered := make(chan struct{})
	release := make(chan struct{})
	r.RegisterLazy(slow, func() (any, error) {
		close(entered)
		<-release
		return englishGreeter{}, nil
	})
	r.Register(fast, "fast")

	go func() { _, _ = r.Resolve(slow) }()
	<-entered
	defer close(release)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := r.Resolve(fast)
		assert.NoError(t, err)
		assert.Equal(t, "fast", v)
		r.Register(KeyOf[int](), 1)
		r.Protect(KeyOf[int]())
		r.Remove(fast)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("operations on other keys blocked behind a running factory")
	}
}

func TestFactoryMayResolveOtherKeys(t *testing.T) {
	r := quietRegistry()
	r.RegisterLazy(KeyOf[string](), func() (any, error) { return "ada", nil })
	r.RegisterLazy(KeyOf[greeter](), func() (any, error) {
		name, err := r.Resolve(KeyOf[string]())
		if err != nil {
			return nil, err
		}
		return englishGreeter{name: name.(string)}, nil
	})

	done := make(chan any, 1)
	go func() {
		v, err := r.Resolve(KeyOf[greeter]())
		assert.NoError(t, err)
		done <- v
	}()
	select {
	case v := <-done:
		assert.Equal(t, "hello ada", v.(greeter).Greet())
	case <-time.After(time.Second):
		t.Fatal("nested resolve deadlocked")
	}
}

func TestConcurrentMixedOperations(t *testing.T) {
	r := quietRegistry()
	key := KeyOf[greeter]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(4)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Register(key, englishGreeter{name: "e"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RegisterLazy(key, func() (any, error) { return englishGreeter{name: "l"}, nil })
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if v, err := r.Resolve(key); err == nil {
					_ = v.(greeter).Greet()
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Remove(key)
				_ = r.Registrations()
			}
		}()
	}
	wg.Wait()
}

func TestObserverNotifications(t *testing.T) {
	obs := &recordingObserver{}
	r := New(WithObserver(obs), WithLogger(nil))
	key := KeyOf[greeter]()

	r.RegisterLazy(key, func() (any, error) { return englishGreeter{}, nil })
	_, err := r.Resolve(key)
	require.NoError(t, err)
	_, err = r.Resolve(key)
	require.NoError(t, err)
	r.Remove(key)
	r.Remove(key)
	_, err = r.Resolve(key)
	require.ErrorIs(t, err, ErrNotFound)
	r.Clear()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 3, obs.resolved)
	assert.Equal(t, 1, obs.materialized)
	assert.ErrorIs(t, obs.lastErr, ErrNotFound)
	assert.Equal(t, 1, obs.mutations[OpRegisterLazy])
	assert.Equal(t, 1, obs.mutations[OpRemove], "removing an absent key is not a mutation")
	assert.Equal(t, 1, obs.mutations[OpClear])
}
