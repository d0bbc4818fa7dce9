package discovery

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
)

const (
	// EnvEmacsPath names the environment variable overriding the search.
	EnvEmacsPath = "DUNNET_EMACS"

	// VersionCheckTimeout is the timeout for the emacs --version probe.
	VersionCheckTimeout = 2 * time.Second

	binaryName = "emacs"
)

// CommonPaths are checked when emacs is not on PATH.
var CommonPaths = []string{
	"/Applications/Emacs.app/Contents/MacOS/Emacs",
	"/opt/homebrew/bin/emacs",
	"/usr/local/bin/emacs",
	"/usr/bin/emacs",
}

var versionPattern = regexp.MustCompile(`GNU Emacs ([0-9]+(?:\.[0-9]+)*)`)

// Config holds configuration for discovery.
type Config struct {
	// EmacsPath is an explicit path that skips the search.
	EmacsPath string

	// SkipVersionCheck skips the --version probe.
	SkipVersionCheck bool

	// Logger is an optional logger. If nil, nothing is logged.
	Logger *slog.Logger

	// lookPath and commonPaths are replaced in tests.
	lookPath    func(string) (string, error)
	commonPaths []string
}

// Discoverer locates the emacs binary.
type Discoverer interface {
	// Discover returns the path to the emacs binary or an
	// *errors.ExecutableNotFoundError.
	Discover(ctx context.Context) (string, error)
}

type discoverer struct {
	cfg *Config
	log *slog.Logger
}

var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg: cfg,
		log: log.With("component", "discovery"),
	}
}

// Discover locates the emacs binary and logs its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	path, err := d.find()
	if err != nil {
		d.log.Error("Failed to find emacs", "error", err)

		return "", err
	}

	d.log.Debug("Found emacs binary", "path", path)

	if !d.cfg.SkipVersionCheck {
		if version, ok := probeVersion(ctx, path); ok {
			d.log.Info("Using emacs", "path", path, "version", version)
		} else {
			d.log.Debug("Could not determine emacs version", "path", path)
		}
	}

	return path, nil
}

func (d *discoverer) find() (string, error) {
	if d.cfg.EmacsPath != "" {
		if isExecutable(d.cfg.EmacsPath) {
			return d.cfg.EmacsPath, nil
		}

		return "", &errors.ExecutableNotFoundError{SearchedPaths: []string{d.cfg.EmacsPath}}
	}

	searched := make([]string, 0, 6)

	if env := os.Getenv(EnvEmacsPath); env != "" {
		searched = append(searched, env)

		if isExecutable(env) {
			d.log.Debug("Using emacs from environment", "env", EnvEmacsPath)

			return env, nil
		}
	}

	lookPath := d.cfg.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	searched = append(searched, "$PATH")

	if path, err := lookPath(binaryName); err == nil {
		return path, nil
	}

	common := d.cfg.commonPaths
	if common == nil {
		common = CommonPaths
	}

	for _, path := range common {
		searched = append(searched, path)

		if isExecutable(path) {
			return path, nil
		}
	}

	d.log.Warn("emacs not found in any searched paths", "searched_paths", searched)

	return "", &errors.ExecutableNotFoundError{SearchedPaths: searched}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode()&0o111 != 0
}

// probeVersion runs `emacs --version` and extracts the version number.
func probeVersion(ctx context.Context, path string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	//nolint:gosec // G204: the binary path comes from discovery
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", false
	}

	return ParseVersion(string(output))
}

// ParseVersion extracts the version from `emacs --version` output,
// e.g. "GNU Emacs 29.1" yields "29.1".
func ParseVersion(output string) (string, bool) {
	first, _, _ := strings.Cut(output, "\n")

	match := versionPattern.FindStringSubmatch(first)
	if match == nil {
		return "", false
	}

	return match[1], true
}
