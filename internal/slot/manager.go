package slot

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
)

// Manager owns all role slots and their loaded model sessions, and enforces
// the global memory budget with LRU eviction.
//
// All slot mutations happen under a single mutex. Go has no re-entrant lock,
// so the public surface takes the mutex and delegates to *Locked internals;
// compound lifecycle work (eviction inside a load) runs inside one critical
// section and never re-enters through the public API.
type Manager struct {
	mu sync.Mutex

	slots     map[Role]*Slot
	usedEstMB int
	budgetMB  int
	marginMB  int

	adapter   llm.Adapter
	publisher EventPublisher
	log       zerolog.Logger

	loadsTotal     uint64
	evictionsTotal uint64
	// softExceeded is set while the loaded set exceeds the budget with no
	// evictable candidates left, and cleared by the next unload.
	softExceeded bool

	startTime time.Time
}

// Bound reports whether a role has a configured model.
func (m *Manager) Bound(role Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[role]
	return ok
}

// Loaded reports whether the role's slot currently holds a session.
func (m *Manager) Loaded(role Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[role]
	return ok && s.loaded
}
