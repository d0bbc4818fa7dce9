package dunnet

import "github.com/lambdageek/mcp-server-dunnet/internal/errors"

// Re-export error types from internal package

// ExecutableNotFoundError indicates the emacs binary was not found.
type ExecutableNotFoundError = errors.ExecutableNotFoundError

// SpawnError indicates the child process could not be started.
type SpawnError = errors.SpawnError

// WriteError indicates a command could not be delivered to the child.
type WriteError = errors.WriteError

// ConfigError indicates a configuration file could not be read or parsed.
type ConfigError = errors.ConfigError

// DunnetError is the base interface for all errors raised by this module.
type DunnetError = errors.DunnetError

// Re-export sentinel errors from internal package.
var (
	// ErrNotStarted indicates a command was sent before Start.
	ErrNotStarted = errors.ErrNotStarted

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrEmptyCommand indicates an empty command was submitted.
	ErrEmptyCommand = errors.ErrEmptyCommand
)
