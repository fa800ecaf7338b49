// Package classify turns free-text user input into a structured routing
// decision using the always-resident router model, with a regex fallback
// cascade when the model's output is malformed or unconvincing.
package classify

import (
	"context"

	"github.com/rs/zerolog"

	"assistd/internal/extract"
	"assistd/internal/slot"
	"assistd/pkg/types"
)

// minConfidence is the floor below which a model classification is
// discarded in favor of the regex fallback.
const minConfidence = 0.5

// Sampling for the classification call: near-deterministic, short budget.
var classifyParams = types.GenerateParams{
	Temperature: 0.1,
	MaxTokens:   160,
	Stop:        []string{"\nRequest:"},
}

// Generator is the slice of the slot manager the classifier needs.
type Generator interface {
	Generate(ctx context.Context, role slot.Role, prompt string, params types.GenerateParams) (string, error)
}

type Classifier struct {
	gen Generator
	log zerolog.Logger
}

func New(gen Generator, log zerolog.Logger) *Classifier {
	return &Classifier{gen: gen, log: log}
}

// Classify produces a routing decision for text. It never fails outwardly:
// worst case it returns a low-confidence direct-answer from the regex
// fallback. Single-shot and idempotent per call.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	if r := precheck(text); r != nil {
		c.log.Debug().Str("intent", string(r.Intent)).Msg("classified by pre-check")
		return *r
	}

	raw, err := c.gen.Generate(ctx, slot.RoleRouter, classifyPrompt(text), classifyParams)
	if err != nil {
		c.log.Warn().Err(err).Msg("router generation failed; using regex fallback")
		r := classifyByRegex(text)
		r.Raw = raw
		return r
	}

	rec, method := extract.Extract(raw, []string{"intent"})
	if method == extract.MethodNone {
		c.log.Debug().Msg("no parsable classification; using regex fallback")
		r := classifyByRegex(text)
		r.Raw = raw
		return r
	}

	r := c.fromRecord(rec, raw)
	if !c.valid(r) {
		c.log.Debug().
			Str("intent", string(r.Intent)).
			Float64("confidence", r.Confidence).
			Str("method", string(method)).
			Msg("model classification rejected; using regex fallback")
		fb := classifyByRegex(text)
		fb.Raw = raw
		return fb
	}
	c.log.Debug().
		Str("intent", string(r.Intent)).
		Float64("confidence", r.Confidence).
		Str("method", string(method)).
		Msg("classified by model")
	return r
}

// fromRecord normalizes an extracted record onto the closed intent/tool sets.
func (c *Classifier) fromRecord(rec map[string]any, raw string) Result {
	r := Result{Raw: raw}
	if v, ok := rec["intent"].(string); ok {
		r.Intent = normalizeIntent(v)
	} else {
		r.Intent = IntentAnswer
	}
	switch v := rec["confidence"].(type) {
	case float64:
		r.Confidence = v
	case string:
		// Already coerced by the extractor in the common cases; a leftover
		// string means an unparsable number, treated as missing.
	}
	if v, ok := rec["tool"].(string); ok {
		r.Tool = normalizeTool(v)
	}
	r.Params = stringParams(rec)
	r.Escalate = escalationTarget(r.Intent)
	if r.Intent != IntentToolCall {
		r.Tool = ToolNone
	}
	return r
}

// stringParams flattens the record's parameter map to string values.
func stringParams(rec map[string]any) map[string]string {
	var src map[string]any
	for _, key := range []string{"parameters", "params"} {
		if v, ok := rec[key].(map[string]any); ok {
			src = v
			break
		}
	}
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// valid rejects classifications the orchestrator could not act on: a
// tool-call with no resolvable tool, or confidence below the floor.
func (c *Classifier) valid(r Result) bool {
	if r.Intent == IntentToolCall && r.Tool == ToolNone {
		return false
	}
	if r.Confidence < minConfidence {
		return false
	}
	return true
}
