// Package keymutex serializes critical sections per string key.
package keymutex

import "sync"

// KeyMutex hands out one mutex per key. Mutexes are created on first
// use and kept for the life of the process; the key space here is
// (user, product) pairs of in-flight cart adds, which stays small.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock func.
func (m *KeyMutex) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = new(sync.Mutex)
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
