package orchestrator

import (
	"context"

	"assistd/internal/classify"
	"assistd/internal/slot"
	"assistd/pkg/types"
)

// ToolExecutor is the tool-execution collaborator contract. Concrete tools
// (version control, shell, file ops) live outside this package.
type ToolExecutor interface {
	Execute(ctx context.Context, req types.ToolRequest) types.ToolResult
}

// FileReader fetches existing content for edit-type generation tasks.
type FileReader interface {
	Read(name string) types.FileContent
}

// SlotManager is the slice of the slot manager the orchestrator drives.
type SlotManager interface {
	Generate(ctx context.Context, role slot.Role, prompt string, params types.GenerateParams) (string, error)
	Unload(role slot.Role) error
}

// IntentClassifier produces the routing decision for one request.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) classify.Result
}
