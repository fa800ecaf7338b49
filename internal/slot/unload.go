package slot

// Unload destroys the role's session, clears the slot, and releases its
// memory estimate. Unloading an unloaded role is a no-op; an unknown role is
// an error.
func (m *Manager) Unload(role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[role]
	if !ok {
		return ErrRoleNotBound(role)
	}
	if !s.loaded {
		return nil
	}
	m.unloadSlotLocked(s, EventUnload)
	return nil
}

// UnloadAll unloads every role. Used at shutdown.
func (m *Manager) UnloadAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.loaded {
			m.unloadSlotLocked(s, EventUnload)
		}
	}
}

// unloadSlotLocked tears down one loaded slot and adjusts accounting.
// Caller must hold m.mu and have checked s.loaded.
func (m *Manager) unloadSlotLocked(s *Slot, event string) {
	if err := s.session.Close(); err != nil {
		m.log.Warn().Str("role", string(s.Role)).Err(err).Msg("session close failed")
	}
	s.session = nil
	s.loaded = false
	m.usedEstMB -= s.estMemMB
	if m.usedEstMB < 0 {
		m.usedEstMB = 0
	}
	s.estMemMB = 0
	// Any unload can only shrink the loaded set; re-evaluate the overflow flag.
	if m.usedEstMB+m.marginMB <= m.budgetMB {
		m.softExceeded = false
	}
	m.publisher.Publish(Event{Name: event, Role: s.Role, Fields: map[string]any{
		"model": s.Model.ID, "used_mb": m.usedEstMB,
	}})
	m.log.Info().Str("role", string(s.Role)).Str("event", event).Int("used_mb", m.usedEstMB).Msg("model unloaded")
}
