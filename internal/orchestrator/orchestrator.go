// Package orchestrator sequences classification, tool execution, and
// escalation between model roles for one request at a time.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"assistd/internal/classify"
	"assistd/internal/slot"
	"assistd/pkg/types"
)

const defaultGenTimeout = 120 * time.Second

// maxHistoryTurns bounds the in-memory conversation window carried into
// direct-answer prompts. Nothing is persisted across process restarts.
const maxHistoryTurns = 4

// maxHistoryReplyLen truncates stored replies so a long generation does not
// crowd the router model's context on the next question.
const maxHistoryReplyLen = 500

type turn struct {
	user  string
	reply string
}

// Config carries orchestrator tunables.
type Config struct {
	// GenTimeout is the wall-clock ceiling for one generation call. An
	// expired call returns its partial text as a partial success.
	GenTimeout time.Duration
	// Observe, when set, is called once per request with the classified
	// intent and whether the regex fallback decided it.
	Observe func(intent string, fallback bool)
	Logger  zerolog.Logger
}

// Orchestrator is the top-level controller. Request processing is
// single-threaded end to end; one Process call owns the whole pipeline.
type Orchestrator struct {
	mgr        SlotManager
	classifier IntentClassifier
	tools      ToolExecutor
	files      FileReader
	genTimeout time.Duration
	observe    func(intent string, fallback bool)
	history    []turn
	log        zerolog.Logger
}

func New(mgr SlotManager, classifier IntentClassifier, tools ToolExecutor, files FileReader, cfg Config) *Orchestrator {
	gt := cfg.GenTimeout
	if gt <= 0 {
		gt = defaultGenTimeout
	}
	return &Orchestrator{
		mgr:        mgr,
		classifier: classifier,
		tools:      tools,
		files:      files,
		genTimeout: gt,
		observe:    cfg.Observe,
		log:        cfg.Logger,
	}
}

// Process handles one user request and always returns a response string.
// Errors become short human-readable messages naming the failing stage;
// they never escape, so the caller's interactive loop survives any single
// request.
func (o *Orchestrator) Process(ctx context.Context, text string) string {
	decision := o.classifier.Classify(ctx, text)
	o.log.Info().
		Str("intent", string(decision.Intent)).
		Float64("confidence", decision.Confidence).
		Bool("fallback", decision.UsedFallback).
		Msg("request classified")
	if o.observe != nil {
		o.observe(string(decision.Intent), decision.UsedFallback)
	}

	var resp string
	switch decision.Intent {
	case classify.IntentToolCall:
		resp = o.executeTool(ctx, decision)
	case classify.IntentAnswer:
		resp = o.answer(ctx, text)
	case classify.IntentGenerate:
		resp = o.generate(ctx, text, decision)
	case classify.IntentSpecialist:
		resp = o.escalate(ctx, o.buildTask(slot.RoleSpecialist, text, decision), nil)
	default:
		return o.errorResponse("routing", fmt.Errorf("unhandled intent %q", decision.Intent))
	}
	o.remember(text, resp)
	return resp
}

// remember appends one completed turn to the bounded conversation window.
// Truncation backs up to a rune boundary so the stored reply stays valid
// UTF-8 when it is fed into the next prompt.
func (o *Orchestrator) remember(user, reply string) {
	if len(reply) > maxHistoryReplyLen {
		cut := maxHistoryReplyLen
		for cut > 0 && !utf8.RuneStart(reply[cut]) {
			cut--
		}
		reply = reply[:cut]
	}
	o.history = append(o.history, turn{user: strings.TrimSpace(user), reply: reply})
	if len(o.history) > maxHistoryTurns {
		o.history = o.history[len(o.history)-maxHistoryTurns:]
	}
}

// executeTool dispatches to the tool collaborator. No model role is loaded
// on this path.
func (o *Orchestrator) executeTool(ctx context.Context, d classify.Result) string {
	req := types.ToolRequest{
		Tool:   string(d.Tool),
		Action: d.Params["action"],
		Params: d.Params,
	}
	res := o.tools.Execute(ctx, req)
	if !res.Success {
		return o.errorResponse("tool "+res.Tool, errors.New(res.Error))
	}
	out := strings.TrimSpace(res.Output)
	if out == "" {
		return fmt.Sprintf("%s %s: done.", res.Tool, res.Action)
	}
	return out
}

// answer uses the already-resident router role with a short free-form
// prompt carrying the recent conversation window; no additional load.
func (o *Orchestrator) answer(ctx context.Context, text string) string {
	var b strings.Builder
	b.WriteString("You are a concise coding assistant. Answer briefly.\n\n")
	for _, t := range o.history {
		fmt.Fprintf(&b, "Question: %s\nAnswer: %s\n\n", t.user, t.reply)
	}
	fmt.Fprintf(&b, "Question: %s\nAnswer:", strings.TrimSpace(text))
	out, warn, err := o.generateWithWatchdog(ctx, slot.RoleRouter, b.String(), types.GenerateParams{MaxTokens: 256})
	if err != nil {
		return o.loadAwareError("answering", err)
	}
	return appendWarning(strings.TrimSpace(out), warn)
}

// generate runs the primary role on a generation task, escalating
// mid-flight when the result signals it needs the specialist.
func (o *Orchestrator) generate(ctx context.Context, text string, d classify.Result) string {
	task := o.buildTask(slot.RolePrimary, text, d)
	out, warn, err := o.generateWithWatchdog(ctx, slot.RolePrimary, task.buildPrompt(), types.GenerateParams{})
	if err != nil {
		return o.loadAwareError("generation", err)
	}
	res := task.resultFromOutput(out)
	if res.NeedsEscalation {
		o.log.Info().Strs("reason", res.Warnings).Msg("primary requested escalation")
		return o.escalate(ctx, task, res.Warnings)
	}
	return appendWarning(formatGeneration(res), warn)
}

// escalate hands the task to the specialist role, keeping its filename,
// language hint, and existing content. The primary role is unloaded first,
// ahead of the budget check, to guarantee headroom; a failure after that
// point leaves the primary unloaded — the next request reloads on demand.
func (o *Orchestrator) escalate(ctx context.Context, task GenerationTask, partial []string) string {
	if err := o.mgr.Unload(slot.RolePrimary); err != nil && !slot.IsRoleNotBound(err) {
		return o.errorResponse("escalation", err)
	}

	task.Role = slot.RoleSpecialist
	if len(partial) > 0 {
		task.Instructions += "\n\nNotes from the first attempt:\n" + strings.Join(partial, "\n")
	}
	out, warn, err := o.generateWithWatchdog(ctx, slot.RoleSpecialist, task.buildPrompt(), types.GenerateParams{})
	if err != nil {
		return o.loadAwareError("escalation", err)
	}
	return appendWarning(formatGeneration(task.resultFromOutput(out)), warn)
}

// buildTask assembles a generation task from the classification parameters,
// reading existing file content for edit-type tasks.
func (o *Orchestrator) buildTask(role slot.Role, text string, d classify.Result) GenerationTask {
	task := GenerationTask{
		Role:         role,
		Instructions: strings.TrimSpace(text),
		Filename:     d.Params["filename"],
	}
	if inst := d.Params["instructions"]; inst != "" {
		task.Instructions = inst
	}
	task.Language = languageHint(task.Filename)
	if d.Params["action"] == "edit" && task.Filename != "" && o.files != nil {
		fc := o.files.Read(task.Filename)
		if fc.Success {
			task.Existing = fc.Content
		} else {
			o.log.Warn().Str("file", task.Filename).Str("error", fc.Error).Msg("edit target unreadable; generating from scratch")
		}
	}
	return task
}

// generateWithWatchdog bounds one generation call by the configured
// wall-clock ceiling. A timeout with partial text is a partial success: the
// text is returned with a warning instead of being discarded.
func (o *Orchestrator) generateWithWatchdog(ctx context.Context, role slot.Role, prompt string, params types.GenerateParams) (out, warning string, err error) {
	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()
	out, err = o.mgr.Generate(genCtx, role, prompt, params)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && strings.TrimSpace(out) != "" {
		o.log.Warn().Str("role", string(role)).Dur("timeout", o.genTimeout).Msg("generation timed out; returning partial output")
		return out, fmt.Sprintf("generation stopped after %s; output may be incomplete", o.genTimeout), nil
	}
	return out, "", err
}

// loadAwareError names the failing role when the underlying error was a
// weights-load failure.
func (o *Orchestrator) loadAwareError(stage string, err error) string {
	if role, ok := slot.IsLoadError(err); ok {
		return o.errorResponse(stage, fmt.Errorf("could not load the %s model: %w", role, errors.Unwrap(err)))
	}
	return o.errorResponse(stage, err)
}

func (o *Orchestrator) errorResponse(stage string, err error) string {
	o.log.Error().Str("stage", stage).Err(err).Msg("request failed")
	if err == nil || err.Error() == "" {
		return fmt.Sprintf("Sorry, %s failed.", stage)
	}
	return fmt.Sprintf("Sorry, %s failed: %v", stage, err)
}

func formatGeneration(res GenerationResult) string {
	if !res.Success {
		return "The model produced no usable output."
	}
	names := make([]string, 0, len(res.Content))
	for name := range res.Content {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		if name != "response" {
			fmt.Fprintf(&b, "### %s\n", name)
		}
		b.WriteString(res.Content[name])
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func appendWarning(out, warning string) string {
	if warning == "" {
		return out
	}
	return out + "\n\n[warning] " + warning
}
