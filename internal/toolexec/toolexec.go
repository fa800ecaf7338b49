// Package toolexec is the default tool-execution collaborator: version
// control, shell, and file operations behind the orchestrator's contract.
// The core treats tools as external; this implementation exists so the
// binary runs end to end.
package toolexec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"assistd/pkg/types"
)

const defaultCmdTimeout = 30 * time.Second

// vcActions is the allow-list of git subcommands the assistant may run.
var vcActions = map[string]bool{
	"status": true, "diff": true, "log": true, "add": true, "commit": true,
	"push": true, "pull": true, "branch": true, "stash": true, "checkout": true,
}

type Executor struct {
	workDir string
	timeout time.Duration
	log     zerolog.Logger
}

func New(workDir string, log zerolog.Logger) *Executor {
	if workDir == "" {
		workDir = "."
	}
	return &Executor{workDir: workDir, timeout: defaultCmdTimeout, log: log}
}

// Execute dispatches one tool request. Failures are reported in the result,
// never as a panic or unhandled error.
func (e *Executor) Execute(ctx context.Context, req types.ToolRequest) types.ToolResult {
	res := types.ToolResult{Tool: req.Tool, Action: req.Action}
	switch req.Tool {
	case "version_control":
		return e.runGit(ctx, req)
	case "shell":
		return e.runShell(ctx, req)
	case "file":
		return e.runFile(req)
	default:
		res.Error = fmt.Sprintf("unknown tool: %s", req.Tool)
		return res
	}
}

func (e *Executor) runGit(ctx context.Context, req types.ToolRequest) types.ToolResult {
	res := types.ToolResult{Tool: req.Tool, Action: req.Action}
	action := req.Action
	if action == "" {
		action = "status"
		res.Action = action
	}
	if !vcActions[action] {
		res.Error = fmt.Sprintf("unsupported git action: %s", action)
		return res
	}
	args := []string{action}
	if extra := req.Params["args"]; extra != "" {
		args = append(args, strings.Fields(extra)...)
	}
	if action == "commit" {
		msg := req.Params["message"]
		if msg == "" {
			res.Error = "commit requires a message parameter"
			return res
		}
		args = append(args, "-m", msg)
	}
	out, err := e.run(ctx, "git", args...)
	res.Output = out
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func (e *Executor) runShell(ctx context.Context, req types.ToolRequest) types.ToolResult {
	res := types.ToolResult{Tool: req.Tool, Action: "run"}
	cmd := strings.TrimSpace(req.Params["command"])
	if cmd == "" {
		res.Error = "no command to run"
		return res
	}
	out, err := e.run(ctx, "sh", "-c", cmd)
	res.Output = out
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func (e *Executor) runFile(req types.ToolRequest) types.ToolResult {
	res := types.ToolResult{Tool: req.Tool, Action: req.Action}
	name := req.Params["filename"]
	switch req.Action {
	case "read":
		if name == "" {
			res.Error = "no filename given"
			return res
		}
		b, err := os.ReadFile(e.resolve(name))
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Success = true
		res.Output = string(b)
	case "write":
		if name == "" {
			res.Error = "no filename given"
			return res
		}
		if err := os.WriteFile(e.resolve(name), []byte(req.Params["content"]), 0o644); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Success = true
		res.Output = "wrote " + name
	case "list", "":
		dir := name
		if dir == "" {
			dir = "."
		}
		entries, err := os.ReadDir(e.resolve(dir))
		if err != nil {
			res.Error = err.Error()
			return res
		}
		names := make([]string, 0, len(entries))
		for _, en := range entries {
			n := en.Name()
			if en.IsDir() {
				n += "/"
			}
			names = append(names, n)
		}
		sort.Strings(names)
		res.Success = true
		res.Action = "list"
		res.Output = strings.Join(names, "\n")
	default:
		res.Error = fmt.Sprintf("unsupported file action: %s", req.Action)
	}
	return res
}

// run executes one command with the executor's timeout, returning combined
// output. Output is returned even on failure so callers can surface it.
func (e *Executor) run(ctx context.Context, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Dir = e.workDir
	out, err := cmd.CombinedOutput()
	e.log.Debug().Str("cmd", name).Strs("args", args).Err(err).Msg("tool command finished")
	return strings.TrimSpace(string(out)), err
}

func (e *Executor) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.workDir, name)
}

// FileReader implements the orchestrator's file-read contract.
type FileReader struct {
	workDir string
}

func NewFileReader(workDir string) *FileReader {
	if workDir == "" {
		workDir = "."
	}
	return &FileReader{workDir: workDir}
}

func (r *FileReader) Read(name string) types.FileContent {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.workDir, p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return types.FileContent{Error: err.Error()}
	}
	return types.FileContent{Success: true, Content: string(b)}
}
