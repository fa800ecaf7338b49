package slot

import (
	"time"

	"assistd/internal/llm"
	"assistd/pkg/types"
)

// Role identifies a functional model position. The set is fixed and closed.
type Role string

const (
	// RoleRouter is the small always-resident classification model.
	RoleRouter Role = "router"
	// RolePrimary is the general-purpose code generation model.
	RolePrimary Role = "primary"
	// RoleSpecialist is the heavyweight model for complex tasks.
	RoleSpecialist Role = "specialist"
)

// Roles returns the closed role set in escalation order.
func Roles() []Role { return []Role{RoleRouter, RolePrimary, RoleSpecialist} }

// Slot binds a role to at most one loaded model session. Exactly one Slot
// exists per configured role for the process lifetime; the session inside it
// is created and destroyed repeatedly.
//
// Invariant: session is non-nil iff loaded is true.
type Slot struct {
	Role   Role
	Config SlotConfig
	Model  types.Model

	session  llm.Session
	loaded   bool
	lastUsed time.Time
	estMemMB int
	// inUse counts borrows currently generating outside the manager lock.
	// The sweeper and the eviction routine never tear down a slot while it
	// is non-zero.
	inUse int
}
