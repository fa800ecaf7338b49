package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"

	"assistd/internal/slot"
)

// escalationMarker is the token the primary model is instructed to emit
// when a task exceeds its ability. Its presence in a generation result
// flags "needs escalation".
const escalationMarker = "NEEDS_SPECIALIST"

// GenerationTask describes one generation step for a target role.
type GenerationTask struct {
	Role         slot.Role
	Instructions string
	Filename     string
	Existing     string
	Language     string
}

// GenerationResult is the outcome of one generation step. Lifetime is
// bounded to a single orchestrator step.
type GenerationResult struct {
	Success         bool
	Content         map[string]string
	NeedsEscalation bool
	Warnings        []string
	Err             error
}

// extToLanguage maps code file extensions to a language hint for prompts.
var extToLanguage = map[string]string{
	".py": "python", ".go": "go", ".js": "javascript", ".ts": "typescript",
	".jsx": "javascript", ".tsx": "typescript", ".rs": "rust", ".java": "java",
	".c": "c", ".cc": "c++", ".cpp": "c++", ".h": "c", ".hpp": "c++",
	".rb": "ruby", ".sh": "shell", ".sql": "sql", ".html": "html", ".css": "css",
}

func languageHint(filename string) string {
	return extToLanguage[strings.ToLower(filepath.Ext(filename))]
}

// buildPrompt renders the task for its target role. The primary role is
// told how to signal escalation; the specialist never escalates further.
func (t GenerationTask) buildPrompt() string {
	var b strings.Builder
	b.WriteString("You are a coding assistant. Complete the task below.\n")
	if t.Role == slot.RolePrimary {
		fmt.Fprintf(&b, "If the task is too complex for you, reply with the single word %s followed by a one-line reason.\n", escalationMarker)
	}
	if t.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", t.Language)
	}
	if t.Filename != "" {
		fmt.Fprintf(&b, "Target file: %s\n", t.Filename)
	}
	if t.Existing != "" {
		fmt.Fprintf(&b, "Current file content:\n```\n%s\n```\n", t.Existing)
	}
	fmt.Fprintf(&b, "Task: %s\n", t.Instructions)
	return b.String()
}

// resultFromOutput interprets raw model output as a generation result.
func (t GenerationTask) resultFromOutput(out string) GenerationResult {
	trimmed := strings.TrimSpace(out)
	if idx := strings.Index(trimmed, escalationMarker); idx >= 0 {
		reason := strings.TrimSpace(trimmed[idx+len(escalationMarker):])
		res := GenerationResult{NeedsEscalation: true}
		if reason != "" {
			res.Warnings = append(res.Warnings, reason)
		}
		return res
	}
	target := t.Filename
	if target == "" {
		target = "response"
	}
	return GenerationResult{Success: true, Content: map[string]string{target: trimmed}}
}
