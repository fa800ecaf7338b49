package types

// Model represents a discoverable or loadable LLM weights file on disk.
type Model struct {
	// Stable identifier for the model.
	// example: qwen2.5-coder-1.5b-q4
	ID string `json:"id" example:"qwen2.5-coder-1.5b-q4"`
	// Human-friendly name.
	Name string `json:"name" example:"Qwen2.5 Coder 1.5B (Q4)"`
	// Absolute path to the weights file on disk.
	Path string `json:"path" example:"/home/user/models/qwen2.5-coder-1.5b.Q4_K_M.gguf"`
	// Quantization level or variant string.
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// Optional family (e.g., llama, qwen, phi).
	Family string `json:"family,omitempty" example:"qwen"`
}

// GenerateParams are sampling parameters for one generation call.
// Zero values mean "use the slot's configured defaults".
type GenerateParams struct {
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Maximum number of new tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty" example:"256"`
	// Optional stop sequences. Generation stops when any sequence is matched.
	Stop []string `json:"stop,omitempty"`
}

// ToolRequest is a request to the tool-execution collaborator.
type ToolRequest struct {
	// Tool identifier: version_control, shell, or file.
	Tool string `json:"tool" example:"version_control"`
	// Tool-specific action, e.g. "status" for version_control.
	Action string `json:"action,omitempty" example:"status"`
	// Free-form parameters extracted from the user request.
	Params map[string]string `json:"params,omitempty"`
}

// ToolResult is the outcome of one tool execution.
type ToolResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
	Tool    string `json:"tool"`
	Action  string `json:"action,omitempty"`
}

// FileContent is the result of reading a file for an edit-type task.
type FileContent struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SlotStatus summarizes one role slot for /status.
type SlotStatus struct {
	// Role this slot serves.
	// example: primary
	Role string `json:"role" example:"primary"`
	// ID of the model bound to the role.
	ModelID string `json:"model_id" example:"qwen2.5-coder-7b-q4"`
	// Whether a model handle is currently resident.
	Loaded bool `json:"loaded"`
	// Whether the slot is exempt from eviction.
	AlwaysResident bool `json:"always_resident"`
	// Last time this slot served a request (unix seconds).
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Estimated memory footprint in MB when loaded.
	EstMemMB int `json:"est_mem_mb" example:"4600"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Per-role slot states.
	Slots []SlotStatus `json:"slots"`
	// Memory budget in MB across all slots.
	// example: 8192
	BudgetMB int `json:"budget_mb" example:"8192"`
	// Estimated used memory in MB.
	UsedMB int `json:"used_est_mb" example:"4700"`
	// Reserved margin in MB kept free under the budget.
	MarginMB int `json:"margin_mb" example:"512"`
	// Remaining headroom under the budget in MB (can be negative on the
	// soft-overflow path).
	HeadroomMB int `json:"headroom_mb" example:"2980"`
	// Total number of model loads.
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total number of evictions performed to free memory.
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// True while the loaded set exceeds the budget with no evictable
	// candidates left.
	BudgetExceeded bool `json:"budget_exceeded,omitempty"`
	// Uptime of the process in seconds.
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"role not bound: specialist"`
	Code  int    `json:"code" example:"500"`
}
