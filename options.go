package dunnet

import (
	"log/slog"

	"github.com/lambdageek/mcp-server-dunnet/internal/config"
)

// Options configures how the game is launched.
type Options = config.Options

// ConfigFile is the parsed form of a YAML configuration file.
type ConfigFile = config.File

// DefaultArgs are the emacs arguments used when none are configured.
var DefaultArgs = config.DefaultArgs

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// LoadConfig reads the user and project configuration files, or only
// explicit when it is not empty. Missing implicit files are not an error.
func LoadConfig(explicit string) (*ConfigFile, error) {
	return config.Load(explicit)
}

// WithConfig applies the settings of a loaded configuration file.
// Options given after it override the file.
func WithConfig(file *ConfigFile) Option {
	return func(o *Options) {
		if file != nil {
			file.Apply(o)
		}
	}
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEmacsPath sets the explicit path to the emacs binary.
func WithEmacsPath(path string) Option {
	return func(o *Options) {
		o.EmacsPath = path
	}
}

// WithArgs replaces the arguments passed to the child.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = args
	}
}

// WithCwd sets the working directory for the child.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the child.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithStderr sets a callback receiving each line the child writes to stderr.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithQueueSize sets how many frames may wait between the child's output
// and the session.
func WithQueueSize(size int) Option {
	return func(o *Options) {
		o.QueueSize = size
	}
}

// WithSkipVersionCheck disables the emacs --version probe.
func WithSkipVersionCheck(skip bool) Option {
	return func(o *Options) {
		o.SkipVersionCheck = skip
	}
}
