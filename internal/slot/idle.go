package slot

import (
	"context"
	"time"
)

// StartIdleSweeper runs a housekeeping loop that unloads slots idle past
// their configured idle timeout. Always-resident slots and slots with a
// generation in flight are never swept. Returns after ctx is canceled.
func (m *Manager) StartIdleSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepIdle(time.Now())
		}
	}
}

func (m *Manager) sweepIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if !s.loaded || s.inUse > 0 || s.Config.AlwaysResident || s.Config.IdleUnload <= 0 {
			continue
		}
		if now.Sub(s.lastUsed) >= s.Config.IdleUnload {
			m.unloadSlotLocked(s, EventIdleUnload)
		}
	}
}
