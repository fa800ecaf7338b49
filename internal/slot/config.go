package slot

import (
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
	"assistd/pkg/types"
)

// Defaults applied when corresponding config fields are unset.
const (
	defaultCtxSize     = 4096
	defaultThreads     = 4
	defaultTemperature = 0.7
	defaultMaxTokens   = 512
)

// SlotConfig is the per-role configuration. Immutable once the manager is
// constructed.
type SlotConfig struct {
	CtxSize        int
	Threads        int
	Temperature    float64
	MaxTokens      int
	AlwaysResident bool
	IdleUnload     time.Duration
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Models binds each role to a registry entry. Roles absent from the map
	// are not available to callers.
	Models map[Role]types.Model
	// Slots carries per-role settings; missing entries get package defaults.
	Slots map[Role]SlotConfig
	// BudgetMB is the global memory ceiling (0 = unlimited).
	BudgetMB int
	// MarginMB is kept free under the budget.
	MarginMB int
	// Adapter is the generation backend used to load weights.
	Adapter llm.Adapter
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
	Logger    zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		slots:     make(map[Role]*Slot, len(cfg.Models)),
		budgetMB:  cfg.BudgetMB,
		marginMB:  cfg.MarginMB,
		adapter:   cfg.Adapter,
		publisher: cfg.Publisher,
		log:       cfg.Logger,
		startTime: time.Now(),
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	for role, mdl := range cfg.Models {
		sc := cfg.Slots[role]
		if sc.CtxSize <= 0 {
			sc.CtxSize = defaultCtxSize
		}
		if sc.Threads <= 0 {
			sc.Threads = defaultThreads
		}
		if sc.Temperature <= 0 {
			sc.Temperature = defaultTemperature
		}
		if sc.MaxTokens <= 0 {
			sc.MaxTokens = defaultMaxTokens
		}
		m.slots[role] = &Slot{Role: role, Config: sc, Model: mdl}
	}
	return m
}
