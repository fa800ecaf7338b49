package classify

import (
	"fmt"
	"strings"
)

// classifyPromptTemplate embeds the user text and a small set of worked
// examples. Kept short: the router model has a small context window and a
// tight token budget.
const classifyPromptTemplate = `You are a request router for a coding assistant.
Classify the user request into exactly one intent:
- direct_tool_call: run a tool now (version_control, shell, or file)
- direct_answer: answer a question conversationally
- generation_task: write or edit code
- specialist_task: complex refactoring, review, or architecture work

Respond with JSON only, no prose:
{"intent": "...", "confidence": 0.0-1.0, "tool": "...", "parameters": {...}}

Examples:
Request: git status
{"intent": "direct_tool_call", "confidence": 0.97, "tool": "version_control", "parameters": {"action": "status"}}
Request: what does a mutex do?
{"intent": "direct_answer", "confidence": 0.9}
Request: write a script that renames photos by date
{"intent": "generation_task", "confidence": 0.92, "parameters": {"instructions": "rename photos by date"}}
Request: review this package for data races
{"intent": "specialist_task", "confidence": 0.88}

Request: %s
`

func classifyPrompt(text string) string {
	return fmt.Sprintf(classifyPromptTemplate, strings.TrimSpace(text))
}
