package classify

import "strings"

// normalizeKey canonicalizes loose spellings: lower-case, separators to
// underscores.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Trim(s, "_")
}

// normalizeIntent maps free-form intent spellings onto the closed set.
// Unknown values default to direct-answer.
func normalizeIntent(raw string) Intent {
	switch normalizeKey(raw) {
	case "direct_tool_call", "tool_call", "toolcall", "tool", "tool_use", "use_tool":
		return IntentToolCall
	case "direct_answer", "answer", "chat", "respond", "conversation":
		return IntentAnswer
	case "generation_task", "generation", "generate", "code_generation", "coding", "code":
		return IntentGenerate
	case "specialist_task", "specialist", "expert", "complex", "complex_task":
		return IntentSpecialist
	default:
		return IntentAnswer
	}
}

// normalizeTool maps free-form tool names onto the closed set. Unknown
// values map to ToolNone, which invalidates a tool-call intent.
func normalizeTool(raw string) ToolKind {
	switch normalizeKey(raw) {
	case "version_control", "versioncontrol", "vcs", "git", "git_tool":
		return ToolVersionControl
	case "shell", "bash", "sh", "terminal", "command", "exec":
		return ToolShell
	case "file", "files", "filesystem", "fs", "file_ops", "file_operations":
		return ToolFile
	default:
		return ToolNone
	}
}
