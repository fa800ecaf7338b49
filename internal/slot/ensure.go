package slot

import (
	"context"
	"time"

	"assistd/internal/llm"
)

// EnsureLoaded makes the role's model resident and returns a borrowed
// session valid for the current step only. If the slot is already loaded it
// just stamps lastUsed. Otherwise it estimates the footprint, evicts LRU
// candidates until the load fits the budget, and loads through the adapter.
//
// A load failure leaves the slot untouched (loaded stays false) and returns
// a load error naming the role.
func (m *Manager) EnsureLoaded(ctx context.Context, role Role) (llm.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLocked(ctx, role)
}

func (m *Manager) ensureLocked(ctx context.Context, role Role) (llm.Session, error) {
	s, ok := m.slots[role]
	if !ok {
		return nil, ErrRoleNotBound(role)
	}
	if s.loaded {
		s.lastUsed = time.Now()
		return s.session, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqMB := estimateFootprintMB(s.Model.Path)
	if m.budgetMB > 0 {
		m.evictUntilFitsLocked(reqMB, role)
	}

	m.publisher.Publish(Event{Name: EventLoadStart, Role: role, Fields: map[string]any{
		"model": s.Model.ID, "est_mb": reqMB,
	}})
	m.log.Info().Str("role", string(role)).Str("model", s.Model.ID).Int("est_mb", reqMB).Msg("loading model")

	sess, err := m.adapter.Load(s.Model.Path, llm.Params{CtxSize: s.Config.CtxSize, Threads: s.Config.Threads})
	if err != nil {
		m.publisher.Publish(Event{Name: EventLoadError, Role: role, Fields: map[string]any{"error": err.Error()}})
		m.log.Error().Str("role", string(role)).Err(err).Msg("model load failed")
		return nil, loadError{role: role, err: err}
	}

	s.session = sess
	s.loaded = true
	s.estMemMB = reqMB
	s.lastUsed = time.Now()
	m.usedEstMB += reqMB
	m.loadsTotal++
	m.publisher.Publish(Event{Name: EventLoadDone, Role: role, Fields: map[string]any{
		"model": s.Model.ID, "used_mb": m.usedEstMB,
	}})
	return s.session, nil
}

// Touch stamps the role's lastUsed without loading. Used after a borrowed
// session finishes a long generation so LRU order reflects real use.
func (m *Manager) Touch(role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[role]; ok && s.loaded {
		s.lastUsed = time.Now()
	}
}
