package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrNoPlayers       = errors.New("no players found")
	ErrMPVNotInstalled = errors.New("mpv not installed")
	ErrIPCTimeout      = errors.New("ipc timeout")
	ErrNoSource        = errors.New("no media source")
	ErrNoSessionBus    = errors.New("no session bus")
	ErrConfigNotFound  = errors.New("config file not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// ReelError wraps an error with a user-friendly suggestion.
type ReelError struct {
	Err        error
	Suggestion string
}

func (e *ReelError) Error() string {
	return e.Err.Error()
}

func (e *ReelError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ReelError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a ReelError with suggestion
	var reelErr *ReelError
	if errors.As(err, &reelErr) && reelErr.Suggestion != "" {
		return reelErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Player errors
	if errors.Is(err, ErrMPVNotInstalled) || strings.Contains(errStr, "executable file not found") {
		return "Install mpv, or set mpv.path in your config"
	}

	if errors.Is(err, ErrPlayerNotFound) || strings.Contains(errStr, "player not found") {
		return "Run 'reel players' to see available players"
	}

	if errors.Is(err, ErrNoPlayers) {
		return "Start an MPRIS-capable player, or use 'reel play' to launch mpv"
	}

	if errors.Is(err, ErrNoSessionBus) || strings.Contains(errStr, "dbus") {
		return "MPRIS needs a D-Bus session bus. Check DBUS_SESSION_BUS_ADDRESS"
	}

	// Source errors
	if errors.Is(err, ErrNoSource) {
		return "Pass a URL or file, or set source.url in your config"
	}

	// IPC errors
	if errors.Is(err, ErrIPCTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "The player stopped responding. Try again, or raise mpv.ipc_timeout"
	}

	// Config errors
	if errors.Is(err, ErrInvalidConfig) {
		return "Run 'reel config show' to inspect your configuration"
	}
	if errors.Is(err, ErrConfigNotFound) || strings.Contains(errStr, "config") {
		return "Run 'reel config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
