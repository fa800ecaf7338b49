package classify

import (
	"regexp"
	"strings"
)

// codeExt matches filenames with code extensions the assistant generates.
const codeExt = `[A-Za-z0-9_./-]+\.(?:py|go|js|ts|jsx|tsx|rs|java|c|cc|cpp|h|hpp|rb|sh|sql|html|css)\b`

// Pre-check patterns for unambiguous generation requests: an action verb
// plus an explicit filename with a code extension. These short-circuit with
// confidence 1.0 and skip the model, guarding against the small router
// model hallucinating non-generation intents for clearly-coding requests.
var (
	reCreateFile = regexp.MustCompile(`(?i)\b(write|create|generate|make|build|implement|add)\b.*\b(` + codeExt + `)`)
	reEditFile   = regexp.MustCompile(`(?i)\b(edit|modify|update|change|fix|refactor)\b.*\b(` + codeExt + `)`)
	reFilename   = regexp.MustCompile(codeExt)
)

// precheck returns a full-confidence generation result for inputs the regex
// tier can commit to without the model, or nil.
func precheck(text string) *Result {
	var action string
	switch {
	case reCreateFile.MatchString(text):
		action = "create"
	case reEditFile.MatchString(text):
		action = "edit"
	default:
		return nil
	}
	params := map[string]string{"action": action, "instructions": strings.TrimSpace(text)}
	if fn := reFilename.FindString(text); fn != "" {
		params["filename"] = fn
	}
	return &Result{
		Intent:     IntentGenerate,
		Confidence: 1.0,
		Params:     params,
		Escalate:   escalationTarget(IntentGenerate),
	}
}
