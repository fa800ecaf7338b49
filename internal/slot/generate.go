package slot

import (
	"context"
	"time"

	"assistd/internal/llm"
	"assistd/pkg/types"
)

// Generate ensures the role is loaded and runs one generation call with the
// slot's sampling defaults merged under params. The session borrow never
// escapes this call. Generation runs outside the manager lock; the slot's
// inUse count pins the session so the idle sweeper and the eviction routine
// cannot close it mid-call, however long the call runs.
func (m *Manager) Generate(ctx context.Context, role Role, prompt string, params types.GenerateParams) (string, error) {
	m.mu.Lock()
	sess, err := m.ensureLocked(ctx, role)
	if err != nil {
		m.mu.Unlock()
		return "", err
	}
	s := m.slots[role]
	s.inUse++
	opts := s.mergedOptions(params)
	m.mu.Unlock()

	text, err := sess.Generate(ctx, prompt, opts)

	m.mu.Lock()
	s.inUse--
	if s.loaded {
		s.lastUsed = time.Now()
	}
	m.mu.Unlock()
	return text, err
}

// mergedOptions fills zero-valued params from the slot's configured defaults.
func (s *Slot) mergedOptions(p types.GenerateParams) llm.Options {
	opts := llm.Options{
		Temperature: p.Temperature,
		TopP:        p.TopP,
		MaxTokens:   p.MaxTokens,
		Stop:        p.Stop,
	}
	if opts.Temperature <= 0 {
		opts.Temperature = s.Config.Temperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = s.Config.MaxTokens
	}
	return opts
}
