package slot

import (
	"sort"
	"time"

	"assistd/pkg/types"
)

// Usage is the memory accounting view returned by MemoryUsage.
type Usage struct {
	TotalMB    int
	BudgetMB   int
	HeadroomMB int
	PerRole    map[Role]int
}

// MemoryUsage sums estimated footprints of loaded slots. Pure read.
func (m *Manager) MemoryUsage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := Usage{
		TotalMB:    m.usedEstMB,
		BudgetMB:   m.budgetMB,
		HeadroomMB: m.budgetMB - m.usedEstMB - m.marginMB,
		PerRole:    make(map[Role]int, len(m.slots)),
	}
	for role, s := range m.slots {
		if s.loaded {
			u.PerRole[role] = s.estMemMB
		}
	}
	return u
}

// BudgetExceeded reports whether the last load left the loaded set over
// budget with no evictable candidates (the soft-warning path).
func (m *Manager) BudgetExceeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.softExceeded
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := types.StatusResponse{
		BudgetMB:       m.budgetMB,
		UsedMB:         m.usedEstMB,
		MarginMB:       m.marginMB,
		HeadroomMB:     m.budgetMB - m.usedEstMB - m.marginMB,
		LoadsTotal:     m.loadsTotal,
		EvictionsTotal: m.evictionsTotal,
		BudgetExceeded: m.softExceeded,
		UptimeSeconds:  int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	resp.Slots = make([]types.SlotStatus, 0, len(m.slots))
	for _, s := range m.slots {
		resp.Slots = append(resp.Slots, types.SlotStatus{
			Role:           string(s.Role),
			ModelID:        s.Model.ID,
			Loaded:         s.loaded,
			AlwaysResident: s.Config.AlwaysResident,
			LastUsed:       s.lastUsed.Unix(),
			EstMemMB:       s.estMemMB,
		})
	}
	sort.Slice(resp.Slots, func(i, j int) bool { return resp.Slots[i].Role < resp.Slots[j].Role })
	return resp
}
