package subprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/lambdageek/mcp-server-dunnet/internal/config"
	"github.com/lambdageek/mcp-server-dunnet/internal/discovery"
	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
)

// waitDelay bounds how long Wait keeps copying stderr after the child exits,
// in case a grandchild still holds the pipe.
const waitDelay = 2 * time.Second

// Process supervises one child process.
type Process struct {
	log     *slog.Logger
	options *config.Options
	path    string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *os.File
	stderr  *lineWriter

	mu      sync.Mutex // Protects closing
	closing bool       // Whether Close() has been called (intentional shutdown)

	waitOnce sync.Once
	waitErr  error
	exited   chan struct{}
}

// New creates a process supervisor. Nothing is spawned until Start.
func New(log *slog.Logger, options *config.Options) *Process {
	return &Process{
		log:     log.With("component", "process"),
		options: options,
		exited:  make(chan struct{}),
	}
}

// Start locates the emacs binary and spawns it.
//
// Returns *errors.ExecutableNotFoundError if no binary is found, or
// *errors.SpawnError if the process cannot be launched.
func (p *Process) Start(ctx context.Context) error {
	discoverer := discovery.NewDiscoverer(&discovery.Config{
		EmacsPath:        p.options.EmacsPath,
		SkipVersionCheck: p.options.SkipVersionCheck,
		Logger:           p.log,
	})

	path, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover emacs: %w", err)
	}

	return p.StartPath(path)
}

// StartPath spawns the executable at path with the configured arguments.
func (p *Process) StartPath(path string) error {
	p.path = path

	//nolint:gosec // G204: launching the configured child is the purpose of this package
	cmd := exec.Command(path, p.options.Args...)
	cmd.Dir = p.options.Cwd
	cmd.Env = buildEnvironment(p.options.Env)
	cmd.WaitDelay = waitDelay

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.SpawnError{Path: path, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return &errors.SpawnError{Path: path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	cmd.Stdout = stdoutW

	p.stderr = newLineWriter(func(line string) {
		p.log.Debug("Child stderr", "line", line)

		if p.options.Stderr != nil {
			p.options.Stderr(line)
		}
	})
	cmd.Stderr = p.stderr

	p.log.Debug("Spawning child", "path", path, "args", p.options.Args)

	if err := cmd.Start(); err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()

		p.log.Error("Failed to start child process", "error", err)

		return &errors.SpawnError{Path: path, Err: err}
	}

	// Only the child holds the write end now, so stdout reaches end-of-stream
	// when the child exits.
	_ = stdoutW.Close()

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = stdoutR

	p.log.Info("Child process started", "pid", cmd.Process.Pid)

	return nil
}

// Stdin returns the child's input stream.
func (p *Process) Stdin() io.WriteCloser {
	return p.stdin
}

// Stdout returns the child's output stream.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// Exited returns a channel closed once the process has been reaped.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Wait reaps the process and logs how it ended. Only the first call waits;
// later calls return the same result once it is available. The exit status
// is informational.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		defer close(p.exited)

		if p.cmd == nil {
			return
		}

		err := p.cmd.Wait()
		p.stderr.Flush()

		p.mu.Lock()
		closing := p.closing
		p.mu.Unlock()

		switch {
		case err == nil:
			p.log.Info("Child process exited")
		case closing:
			p.log.Debug("Child process terminated during shutdown", "error", err)
		default:
			exitCode := -1
			if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
				exitCode = exitErr.ExitCode()
			}

			p.log.Warn("Child process exited with error", "exit_code", exitCode, "error", err)
		}

		p.waitErr = err
	})

	<-p.exited

	return p.waitErr
}

// Close closes the child's stdin and kills it if it is still running.
// It is safe to call more than once.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closing {
		return nil
	}

	p.closing = true

	if p.cmd == nil {
		return nil
	}

	_ = p.stdin.Close()

	select {
	case <-p.exited:
		return nil
	default:
	}

	p.log.Debug("Killing child process", "pid", p.cmd.Process.Pid)

	if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill child process (pid %d): %w", p.cmd.Process.Pid, err)
	}

	return nil
}

// buildEnvironment returns the parent environment plus extra variables.
func buildEnvironment(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}

	return env
}
