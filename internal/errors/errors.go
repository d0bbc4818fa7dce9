package errors

import (
	"errors"
	"fmt"
)

// DunnetError is the base interface for all errors raised by this module.
type DunnetError interface {
	error
	IsDunnetError() bool
}

// Compile-time verification that all error types implement DunnetError.
var (
	_ DunnetError = (*ExecutableNotFoundError)(nil)
	_ DunnetError = (*SpawnError)(nil)
	_ DunnetError = (*WriteError)(nil)
	_ DunnetError = (*ConfigError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotStarted indicates a command was sent before the game was started.
	ErrNotStarted = errors.New("game not started: call start first")

	// ErrAlreadyStarted indicates start was requested twice on one session.
	ErrAlreadyStarted = errors.New("game already started")

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.New("session closed")

	// ErrEmptyCommand indicates an empty command was submitted.
	ErrEmptyCommand = errors.New("command must not be empty")
)

// ExecutableNotFoundError indicates the Emacs binary could not be located.
type ExecutableNotFoundError struct {
	SearchedPaths []string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("emacs executable not found in: %v", e.SearchedPaths)
}

// IsDunnetError implements DunnetError.
func (e *ExecutableNotFoundError) IsDunnetError() bool { return true }

// SpawnError indicates the child process could not be launched.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsDunnetError implements DunnetError.
func (e *SpawnError) IsDunnetError() bool { return true }

// WriteError indicates a command could not be delivered to the child's stdin,
// typically because the child already exited.
type WriteError struct {
	Command string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to send command %q: %v", e.Command, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsDunnetError implements DunnetError.
func (e *WriteError) IsDunnetError() bool { return true }

// ConfigError indicates a configuration file could not be read or parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsDunnetError implements DunnetError.
func (e *ConfigError) IsDunnetError() bool { return true }
