// Package config provides configuration types for the dunnet wrapper.
package config

import (
	"io"
	"log/slog"
	"maps"
	"slices"
)

// DefaultQueueSize is the default capacity of the frame queue between the
// output framer and the session.
const DefaultQueueSize = 100

// DefaultArgs start Emacs without init files, in batch mode, with dunnet loaded.
var DefaultArgs = []string{"-q", "-batch", "-l", "dunnet"}

// Options configures how the child process is launched and how the session
// is run.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// EmacsPath is the explicit path to the emacs binary.
	// If empty, the binary is searched for (see the discovery package).
	EmacsPath string

	// Args are the arguments passed to the child.
	// If nil, DefaultArgs are used.
	Args []string

	// Cwd sets the working directory for the child process.
	// If empty, the current working directory is used.
	Cwd string

	// Env provides additional environment variables for the child process.
	Env map[string]string

	// Stderr is a callback receiving each line the child writes to stderr.
	Stderr func(string)

	// QueueSize is the capacity of the frame queue.
	// If zero or negative, DefaultQueueSize is used.
	QueueSize int

	// SkipVersionCheck skips probing the emacs version during discovery.
	SkipVersionCheck bool
}

// WithDefaults returns a copy of o with unset fields filled in.
// A nil receiver yields a fully defaulted Options.
func (o *Options) WithDefaults() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
		out.Args = slices.Clone(o.Args)
		out.Env = maps.Clone(o.Env)
	}

	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if out.Args == nil {
		out.Args = slices.Clone(DefaultArgs)
	}

	if out.QueueSize <= 0 {
		out.QueueSize = DefaultQueueSize
	}

	return out
}
