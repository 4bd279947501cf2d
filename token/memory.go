package token

import (
	"context"
	"sync"
)

// Memory is an in-process Store with subscriber fanout. It backs tests and
// single-process deployments, and doubles as the fake publisher for
// exercising cross-holder reactions: any handle writing to the same Memory
// notifies every watcher, mirroring a storage event from another tab.
type Memory struct {
	mu       sync.Mutex
	value    string
	watchers map[int]func(Change)
	nextID   int
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{watchers: make(map[int]func(Change))}
}

// Get returns the stored token or "".
func (m *Memory) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

// Set stores token and notifies watchers. Empty tokens are ignored.
func (m *Memory) Set(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	m.notify(m.swap(token))
	return nil
}

// Clear removes the token and notifies watchers.
func (m *Memory) Clear(ctx context.Context) error {
	m.notify(m.swap(""))
	return nil
}

// Watch registers fn for future changes. Calling stop releases the
// cancellation goroutine as well, so a watch on a never-cancelled context
// leaves nothing behind.
func (m *Memory) Watch(ctx context.Context, fn func(Change)) (func(), error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	m.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
		})
	}
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				stop()
			case <-done:
			}
		}()
	}
	return stop, nil
}

// swap stores value and returns the resulting change plus the watcher set
// to notify, all under one lock acquisition.
func (m *Memory) swap(value string) (Change, []func(Change)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	fns := make([]func(Change), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	return Change{Token: value, Present: value != ""}, fns
}

func (m *Memory) notify(change Change, fns []func(Change)) {
	for _, fn := range fns {
		fn(change)
	}
}
