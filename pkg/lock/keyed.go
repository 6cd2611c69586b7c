package lock

import "sync"

// KeyedMutex provides an in-process mutex per string key. The media manager
// locks on the owner key around every mutating operation so that two
// concurrent uploads (or an upload racing a delete) against the same owner
// cannot interleave and collide on indices. Operations on different keys
// proceed independently.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*ownerLock)}
}

// Lock blocks until the mutex for key is held by the caller.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &ownerLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key. The entry is dropped once no goroutine
// holds or waits on it, so the map does not grow with the owner population.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("lock: unlock of unheld key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
