package config

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
)

const (
	// UserConfigName is the config file looked up under the user config dir.
	UserConfigName = "dunnet/config.yaml"
	// ProjectConfigName is the config file looked up in the working directory.
	ProjectConfigName = ".dunnet.yaml"
)

// File is the on-disk configuration.
type File struct {
	EmacsPath string            `yaml:"emacs_path"`
	Args      []string          `yaml:"args"`
	Cwd       string            `yaml:"cwd"`
	Env       map[string]string `yaml:"env"`
	QueueSize int               `yaml:"queue_size"`
	LogLevel  string            `yaml:"log_level"`
	LogFormat string            `yaml:"log_format"`
}

// Load reads configuration. When explicit is non-empty only that file is
// read and it must exist. Otherwise the user file and then the project file
// are read if present, the project file taking precedence.
func Load(explicit string) (*File, error) {
	if explicit != "" {
		f := &File{}
		if err := LoadFile(explicit, f); err != nil {
			return nil, err
		}

		return f, nil
	}

	var paths []string

	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, UserConfigName))
	}

	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ProjectConfigName))
	}

	return loadLayered(paths...)
}

// loadLayered reads each existing path in order; later files override
// fields set by earlier ones.
func loadLayered(paths ...string) (*File, error) {
	merged := &File{}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		layer := &File{}
		if err := LoadFile(path, layer); err != nil {
			return nil, err
		}

		merged.merge(layer)
	}

	return merged, nil
}

// LoadFile decodes the YAML file at path into f.
func LoadFile(path string, f *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errors.ConfigError{Path: path, Err: err}
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return &errors.ConfigError{Path: path, Err: err}
	}

	return nil
}

func (f *File) merge(other *File) {
	if other.EmacsPath != "" {
		f.EmacsPath = other.EmacsPath
	}

	if other.Args != nil {
		f.Args = slices.Clone(other.Args)
	}

	if other.Cwd != "" {
		f.Cwd = other.Cwd
	}

	if len(other.Env) > 0 {
		if f.Env == nil {
			f.Env = make(map[string]string, len(other.Env))
		}

		maps.Copy(f.Env, other.Env)
	}

	if other.QueueSize > 0 {
		f.QueueSize = other.QueueSize
	}

	if other.LogLevel != "" {
		f.LogLevel = other.LogLevel
	}

	if other.LogFormat != "" {
		f.LogFormat = other.LogFormat
	}
}

// Apply copies the process settings of f onto o, leaving fields of o that f
// does not set untouched.
func (f *File) Apply(o *Options) {
	if f.EmacsPath != "" {
		o.EmacsPath = f.EmacsPath
	}

	if f.Args != nil {
		o.Args = slices.Clone(f.Args)
	}

	if f.Cwd != "" {
		o.Cwd = f.Cwd
	}

	if len(f.Env) > 0 {
		if o.Env == nil {
			o.Env = make(map[string]string, len(f.Env))
		}

		maps.Copy(o.Env, f.Env)
	}

	if f.QueueSize > 0 {
		o.QueueSize = f.QueueSize
	}
}
