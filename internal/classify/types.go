package classify

import "assistd/internal/slot"

// Intent is the closed set of routing decisions. Raw model strings are
// normalized onto this set at the classifier boundary; the rest of the
// system never sees free-form intent strings.
type Intent string

const (
	IntentToolCall   Intent = "direct_tool_call"
	IntentAnswer     Intent = "direct_answer"
	IntentGenerate   Intent = "generation_task"
	IntentSpecialist Intent = "specialist_task"
)

// ToolKind is the closed set of tool identifiers.
type ToolKind string

const (
	ToolNone           ToolKind = ""
	ToolVersionControl ToolKind = "version_control"
	ToolShell          ToolKind = "shell"
	ToolFile           ToolKind = "file"
)

// Result is the routing decision for one request. Created once per request
// and immutable after creation.
type Result struct {
	Intent     Intent
	Confidence float64
	// Tool is set only for IntentToolCall.
	Tool   ToolKind
	Params map[string]string
	// Escalate names the role a generation-bearing intent routes to.
	Escalate slot.Role
	// UsedFallback marks results produced by the regex fallback path.
	UsedFallback bool
	// Raw is the unparsed model output, kept for diagnostics.
	Raw string
}

// escalationTarget derives the role deterministically from the intent.
func escalationTarget(intent Intent) slot.Role {
	switch intent {
	case IntentGenerate:
		return slot.RolePrimary
	case IntentSpecialist:
		return slot.RoleSpecialist
	default:
		return ""
	}
}
