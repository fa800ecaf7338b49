package slot

import "sort"

// evictUntilFitsLocked unloads LRU slots until requiredMB fits under
// budget - margin. The pending role, any always-resident role, and any slot
// with a generation in flight are never candidates. When candidates run out before the load fits, the load is
// allowed to proceed anyway: the budget is advisory backpressure, not a
// hard quota. The soft-overflow path is observable through the
// budget_soft_exceeded event and the softExceeded status flag.
//
// Caller must hold m.mu. Reports whether the pending load fits.
func (m *Manager) evictUntilFitsLocked(requiredMB int, pending Role) bool {
	for {
		if m.usedEstMB+requiredMB+m.marginMB <= m.budgetMB {
			m.softExceeded = false
			return true
		}
		victim := m.oldestEvictableLocked(pending)
		if victim == nil {
			m.softExceeded = true
			m.publisher.Publish(Event{Name: EventBudgetSoftExceeded, Role: pending, Fields: map[string]any{
				"required_mb": requiredMB, "used_mb": m.usedEstMB, "budget_mb": m.budgetMB,
			}})
			m.log.Warn().
				Str("role", string(pending)).
				Int("required_mb", requiredMB).
				Int("used_mb", m.usedEstMB).
				Int("budget_mb", m.budgetMB).
				Msg("memory budget exceeded with no evictable slots; proceeding")
			return false
		}
		m.unloadSlotLocked(victim, EventEvict)
		m.evictionsTotal++
	}
}

// oldestEvictableLocked returns the loaded slot with the oldest lastUsed,
// excluding the pending role, always-resident slots, and slots with a
// generation in flight. Caller holds m.mu.
func (m *Manager) oldestEvictableLocked(pending Role) *Slot {
	candidates := make([]*Slot, 0, len(m.slots))
	for _, s := range m.slots {
		if !s.loaded || s.inUse > 0 || s.Role == pending || s.Config.AlwaysResident {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastUsed.Before(candidates[j].lastUsed)
	})
	return candidates[0]
}
