package services

import "sync"

// keyLock hands out one mutex per key and forgets it once nobody holds or waits for it.
type keyLock struct {
	mu    sync.Mutex
	locks map[progressKey]*refMutex
}

type progressKey struct {
	userID, courseID uint
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[progressKey]*refMutex)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyLock) Lock(key progressKey) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
