package orchestrator

import "sync"

// ownerLocks serializes validate-and-create-intent sequences per owner key.
// Balance validation is check-then-act against shared storage; without this
// critical section two concurrent requests for the same owner could both read
// the same available balance and both pass validation before either commits.
// Locks are never held across external ledger calls.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a lock key, creating it on first use.
// Lock entries are never removed; the owner population is small and stable.
func (l *ownerLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
