package classify

import (
	"regexp"
	"strings"
)

// fallbackGroup is one row of the ordered regex fallback table. The first
// group whose patterns match the lower-cased input wins with the group's
// fixed confidence.
type fallbackGroup struct {
	intent     Intent
	tool       ToolKind
	confidence float64
	patterns   []*regexp.Regexp
}

var fallbackTable = []fallbackGroup{
	{
		intent: IntentToolCall, tool: ToolVersionControl, confidence: 0.95,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^git\b`),
			regexp.MustCompile(`\b(commit|push|pull|branch|rebase|merge|stash|checkout)\b`),
			regexp.MustCompile(`\bgit\s+(status|diff|log|add)\b`),
			regexp.MustCompile(`\b(show|view|check).*\b(diff|git status|commit history|changes)\b`),
		},
	},
	{
		intent: IntentToolCall, tool: ToolShell, confidence: 0.90,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(run|execute|exec)\b\s+`),
			regexp.MustCompile(`^(ls|pwd|ps|df|du|cat|grep|find|make|npm|pip|cargo|docker)\b`),
			regexp.MustCompile(`\b(shell|terminal|command line)\b`),
		},
	},
	{
		intent: IntentToolCall, tool: ToolFile, confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(read|show|open|display|print)\b.*\b(file|contents?)\b`),
			regexp.MustCompile(`\blist\b.*\b(files|directory|folder)\b`),
			regexp.MustCompile(`\bwhat('s| is) in\b.*\b(file|directory|folder)\b`),
		},
	},
	{
		intent: IntentGenerate, confidence: 0.80,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(write|create|generate|implement|build|make|add)\b.*\b(code|function|class|method|script|module|test|program|file)\b`),
			regexp.MustCompile(`\b(fix|edit|modify|update|change)\b.*\b(code|function|class|bug|file)\b`),
		},
	},
	{
		intent: IntentSpecialist, confidence: 0.75,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(refactor|optimi[sz]e|redesign|architect)\b`),
			regexp.MustCompile(`\b(review|audit|analy[sz]e)\b.*\b(code|codebase|architecture|design|security)\b`),
			regexp.MustCompile(`\b(complex|advanced|tricky|race condition|deadlock|memory leak)\b`),
		},
	},
	// Default of last resort: anything conversational.
	{
		intent: IntentAnswer, confidence: 0.50,
		patterns: []*regexp.Regexp{regexp.MustCompile(`.?`)},
	},
}

// classifyByRegex evaluates the ordered fallback table against the
// lower-cased input. It always produces a result; the final group matches
// everything. Every result it returns sets UsedFallback.
func classifyByRegex(text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, g := range fallbackTable {
		for _, re := range g.patterns {
			if !re.MatchString(lower) {
				continue
			}
			return Result{
				Intent:       g.intent,
				Confidence:   g.confidence,
				Tool:         g.tool,
				Params:       fallbackParams(g, text),
				Escalate:     escalationTarget(g.intent),
				UsedFallback: true,
			}
		}
	}
	// Unreachable: the last group matches any input including empty.
	return Result{Intent: IntentAnswer, Confidence: 0.50, UsedFallback: true}
}

var (
	reVCAction  = regexp.MustCompile(`\b(status|diff|log|commit|push|pull|branch|add|stash|checkout|merge|rebase)\b`)
	reRunTail   = regexp.MustCompile(`(?i)\b(?:run|execute|exec)\s+(.+)$`)
	reAnyPath   = regexp.MustCompile(`[A-Za-z0-9_./-]+\.[A-Za-z0-9]+`)
	reShellHead = regexp.MustCompile(`^(ls|pwd|ps|df|du|cat|grep|find|make|npm|pip|cargo|docker)\b.*`)
)

// fallbackParams extracts coarse parameters appropriate to the winning group.
func fallbackParams(g fallbackGroup, text string) map[string]string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	params := map[string]string{"instructions": trimmed}
	switch g.tool {
	case ToolVersionControl:
		if m := reVCAction.FindString(lower); m != "" {
			params["action"] = m
		} else {
			params["action"] = "status"
		}
	case ToolShell:
		if m := reRunTail.FindStringSubmatch(trimmed); m != nil {
			params["command"] = strings.TrimSpace(m[1])
		} else if m := reShellHead.FindString(trimmed); m != "" {
			params["command"] = m
		}
	case ToolFile:
		params["action"] = "read"
		if strings.Contains(lower, "list") {
			params["action"] = "list"
		}
		if m := reAnyPath.FindString(trimmed); m != "" {
			params["filename"] = m
		}
	}
	if g.intent == IntentGenerate || g.intent == IntentSpecialist {
		if m := reFilename.FindString(trimmed); m != "" {
			params["filename"] = m
		}
	}
	return params
}
