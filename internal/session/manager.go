package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/DANCANKARANI/e-commerce/internal/cartsync"
	"github.com/DANCANKARANI/e-commerce/internal/checkout"
)

// State is everything the storefront holds for one authenticated session:
// the cart mirror and the checkout flow, both scoped to that session alone.
type State struct {
	Cart     *cartsync.Store
	Checkout *checkout.Flow
}

type entry struct {
	state    *State
	lastSeen atomic.Int64 // unix nanos of the most recent Get
}

// Manager hands out per-credential session state, creating it on first use.
// State lives in process memory; losing it only costs a reload from the
// authoritative remote cart. Evict reclaims sessions idle past their
// credential lifetime.
type Manager struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	newState func() *State
}

func NewManager(newState func() *State) *Manager {
	return &Manager{
		entries:  make(map[string]*entry),
		newState: newState,
	}
}

func (m *Manager) Get(credential string) *State {
	now := time.Now().UnixNano()

	m.mu.RLock()
	e, ok := m.entries[credential]
	m.mu.RUnlock()
	if ok {
		e.lastSeen.Store(now)
		return e.state
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[credential]; ok {
		e.lastSeen.Store(now)
		return e.state
	}
	e = &entry{state: m.newState()}
	e.lastSeen.Store(now)
	m.entries[credential] = e
	return e.state
}

// Drop forgets a session, e.g. after its credential expired.
func (m *Manager) Drop(credential string) {
	m.mu.Lock()
	delete(m.entries, credential)
	m.mu.Unlock()
}

// Evict removes every session idle longer than maxIdle and reports how many
// were dropped.
func (m *Manager) Evict(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for credential, e := range m.entries {
		if e.lastSeen.Load() < cutoff {
			delete(m.entries, credential)
			dropped++
		}
	}
	return dropped
}
