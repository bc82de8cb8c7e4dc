package backend

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// ScriptBackend is a real subprocess-backed Backend used by the
// core's own tests to exercise context-aware subprocess timeouts
// against something that actually forks — grounded on the teacher's
// internal/process.LocalExecutor os/exec usage (SPEC_FULL.md §6).
// It is not one of Auggie/Claude/Cursor; production backends are out
// of scope for this core.
type ScriptBackend struct {
	name string
	// Command and Args are run with the prompt appended as the final
	// argument — e.g. a shell script that echoes canned JSON.
	Command string
	Args    []string
}

// NewScriptBackend constructs a ScriptBackend that invokes command
// (with args) and passes the prompt as the last argument.
func NewScriptBackend(name, command string, args ...string) *ScriptBackend {
	return &ScriptBackend{name: name, Command: command, Args: args}
}

func (s *ScriptBackend) Name() string { return s.name }

func (s *ScriptBackend) RunPrintQuiet(ctx context.Context, prompt string, _ bool, timeout time.Duration) (string, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := append(append([]string(nil), s.Args...), prompt)
	cmd := exec.CommandContext(runCtx, s.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", NewBackendTimeout(s.name, timeout)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", NewBackendNotInstalled(s.name)
		}
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewBackendNotInstalled(s.name)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", NewBackendNotInstalled(s.name)
		}
		return "", NewBackendNotConfigured(s.name, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
