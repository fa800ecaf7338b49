// Package extract recovers a structured record from noisy generated text.
// Small models rarely emit clean JSON; the cascade tries increasingly loose
// interpretations and reports which one produced the record so callers and
// tests can tell the stages apart without error-driven control flow.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Method identifies which cascade stage produced a record.
type Method string

const (
	MethodDirectParse Method = "direct_parse"
	MethodBracketScan Method = "bracket_scan"
	MethodKeyValue    Method = "key_value"
	MethodHeuristic   Method = "heuristic"
	MethodNone        Method = "none"
)

// Extract tries, in order: whole-text JSON parse, first brace-matched block,
// loose key:value block conversion, then keyword heuristics. A candidate
// wins only if it contains every required key. Returns nil and MethodNone
// when every stage fails.
func Extract(text string, required []string) (map[string]any, Method) {
	cleaned := stripFences(text)

	if rec := tryDirect(cleaned); hasKeys(rec, required) {
		return rec, MethodDirectParse
	}
	if rec := tryBracketScan(cleaned); hasKeys(rec, required) {
		return rec, MethodBracketScan
	}
	if rec := tryKeyValue(cleaned); hasKeys(rec, required) {
		return rec, MethodKeyValue
	}
	if rec := tryHeuristic(cleaned); hasKeys(rec, required) {
		return rec, MethodHeuristic
	}
	return nil, MethodNone
}

// stripFences removes Markdown code fences that models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func hasKeys(rec map[string]any, required []string) bool {
	if rec == nil {
		return false
	}
	for _, k := range required {
		if _, ok := rec[k]; !ok {
			return false
		}
	}
	return true
}

func tryDirect(s string) map[string]any {
	var rec map[string]any
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil
	}
	return rec
}

// tryBracketScan finds the first balanced {...} span and parses it. Depth
// counting skips braces inside quoted strings, tracking an in-string flag
// and a pending escape character by character.
func tryBracketScan(s string) map[string]any {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return tryDirect(s[start : i+1])
				}
			}
		}
	}
	return nil
}

// tryKeyValue interprets the text as a loose "key: value" block, optionally
// bulleted with - or *. Values run through a JSON parse so true/false/null
// and numeric literals (and nested structures) coerce naturally; anything
// else stays a string.
func tryKeyValue(s string) map[string]any {
	rec := make(map[string]any)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.Trim(strings.TrimSpace(line[:idx]), `"'`)
		val := strings.TrimSpace(line[idx+1:])
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		rec[strings.ToLower(key)] = coerceValue(val)
	}
	if len(rec) == 0 {
		return nil
	}
	return rec
}

func coerceValue(v string) any {
	v = strings.TrimSuffix(v, ",")
	v = strings.TrimSpace(v)
	var parsed any
	if err := json.Unmarshal([]byte(v), &parsed); err == nil {
		return parsed
	}
	return strings.Trim(v, `"'`)
}

var (
	reConfidence = regexp.MustCompile(`(?i)confidence["'\s:=]+([0-9]*\.?[0-9]+)`)

	// reTool requires a :/= separator so prose like "no tool is needed"
	// does not capture a bogus tool name.
	reTool = regexp.MustCompile(`(?i)tool["']?\s*[:=]\s*["']?([a-z_][a-z0-9_-]*)`)
)

// intentKeywords are known intent-name substrings, checked most specific
// first so "specialist_task" is not swallowed by a generic match.
var intentKeywords = []string{
	"direct_tool_call", "tool_call", "toolcall",
	"specialist_task", "specialist",
	"generation_task", "generation", "generate",
	"direct_answer", "answer",
}

// tryHeuristic assembles a partial record from keyword scans. If an intent
// was found but no confidence, confidence defaults to 0.5.
func tryHeuristic(s string) map[string]any {
	lower := strings.ToLower(s)
	rec := make(map[string]any)

	for _, kw := range intentKeywords {
		if strings.Contains(lower, kw) {
			rec["intent"] = kw
			break
		}
	}
	if m := reConfidence.FindStringSubmatch(s); m != nil {
		var f float64
		if err := json.Unmarshal([]byte(m[1]), &f); err == nil {
			rec["confidence"] = f
		}
	}
	if m := reTool.FindStringSubmatch(s); m != nil {
		rec["tool"] = strings.ToLower(m[1])
	}
	if len(rec) == 0 {
		return nil
	}
	if _, ok := rec["intent"]; ok {
		if _, ok := rec["confidence"]; !ok {
			rec["confidence"] = 0.5
		}
	}
	return rec
}
