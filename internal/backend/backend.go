// Package backend defines the boundary the ticket acquisition core
// consumes from AI coding backends (Auggie, Claude, Cursor, ...). The
// concrete subprocess implementations are out of scope for the core —
// SPEC_FULL.md §6 specifies only this interface and the errors a
// conforming backend may raise.
package backend

import (
	"context"
	"fmt"
	"time"
)

// Backend is the single method surface the core depends on. A
// conforming implementation blocks until its subprocess returns,
// honors ctx cancellation, and treats an empty reply as valid but the
// fetcher layer above treats it as failure.
type Backend interface {
	// Name is the human-readable backend name ("auggie", "claude", "cursor").
	Name() string

	// RunPrintQuiet sends prompt to the backend and returns its raw
	// text reply. dontSaveSession asks the backend not to persist
	// conversation state. timeout, if non-zero, bounds the call.
	RunPrintQuiet(ctx context.Context, prompt string, dontSaveSession bool, timeout time.Duration) (string, error)
}

// Error is the typed error surface a Backend may raise. The fetcher
// layer translates these into AgentFetch/AgentIntegration errors.
type Error struct {
	Kind    string
	Backend string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s: %s: %s", e.Backend, e.Kind, e.Message)
}

func NewBackendTimeout(backendName string, timeout time.Duration) *Error {
	return &Error{Kind: "timeout", Backend: backendName, Message: fmt.Sprintf("timed out after %s", timeout)}
}

func NewBackendRateLimit(backendName, message string) *Error {
	return &Error{Kind: "rate_limit", Backend: backendName, Message: message}
}

func NewBackendNotInstalled(backendName string) *Error {
	return &Error{Kind: "not_installed", Backend: backendName, Message: "executable not found on PATH"}
}

func NewBackendNotConfigured(backendName, reason string) *Error {
	return &Error{Kind: "not_configured", Backend: backendName, Message: reason}
}
