package session

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
	"github.com/lambdageek/mcp-server-dunnet/internal/framer"
	"github.com/lambdageek/mcp-server-dunnet/internal/toggle"
)

// exitGrace is how long after the child is reaped the framer may keep
// draining stdout before it is told to stop.
const exitGrace = 2 * time.Second

// Phase is the lifecycle state of a Session.
type Phase int32

const (
	// PhaseNotStarted means Start has not been called.
	PhaseNotStarted Phase = iota
	// PhaseStarted means the banner was consumed and commands are accepted.
	PhaseStarted
	// PhaseEnded means a Done frame was returned or the session was ended.
	PhaseEnded
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseStarted:
		return "started"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Process is the child a Session talks to.
type Process interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	// Wait blocks until the child has exited.
	Wait() error
	// Close releases the child, killing it if needed.
	Close() error
}

// Session runs turns against one child process.
type Session struct {
	id     string
	log    *slog.Logger
	proc   Process
	stdin  *bufio.Writer
	stop   *toggle.Sender
	frames chan framer.Frame
	eg     *errgroup.Group

	// framerDone is closed when the framer has sent its Done frame.
	framerDone chan struct{}

	mu        sync.Mutex // Serializes turns
	phase     atomic.Int32
	closed    atomic.Bool
	closeOnce sync.Once
	stdinOnce sync.Once
}

// New starts a session over proc. The framer and the reaper run in the
// background until the child's output ends or the session is ended.
func New(log *slog.Logger, proc Process, queueSize int) *Session {
	id := ulid.Make().String()
	stop, stopRx := toggle.New()

	s := &Session{
		id:         id,
		log:        log.With("component", "session", "session_id", id),
		proc:       proc,
		stdin:      bufio.NewWriter(proc.Stdin()),
		stop:       stop,
		frames:     make(chan framer.Frame, max(queueSize, 1)),
		eg:         new(errgroup.Group),
		framerDone: make(chan struct{}),
	}

	reader := framer.NewReader(s.log, proc.Stdout(), stopRx.Clone())

	s.eg.Go(func() error {
		defer close(s.framerDone)

		reader.Run(s.frames)

		return nil
	})

	s.eg.Go(func() error {
		s.reap()

		return nil
	})

	s.log.Debug("Session created", "queue_size", cap(s.frames))

	return s
}

// reap waits for the child to exit. If the framer has not reached the end of
// the output shortly afterwards (a grandchild may hold stdout open), it is
// stopped.
func (s *Session) reap() {
	_ = s.proc.Wait()

	select {
	case <-s.framerDone:
	case <-time.After(exitGrace):
		s.log.Warn("Child exited but output is still open, stopping framer")
		s.stop.Fire()
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Session) setPhase(p Phase) {
	s.phase.Store(int32(p))
}

// Start returns the first frame: the startup banner and initial prompt.
//
// Returns ErrAlreadyStarted if called twice.
func (s *Session) Start(ctx context.Context) (framer.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return framer.Frame{}, errors.ErrSessionClosed
	}

	switch s.Phase() {
	case PhaseEnded:
		return framer.Done(""), nil
	case PhaseStarted:
		return framer.Frame{}, errors.ErrAlreadyStarted
	}

	s.setPhase(PhaseStarted)
	s.log.Debug("Waiting for startup banner")

	return s.next(ctx)
}

// Send writes command to the child and returns the next frame.
//
// Returns ErrNotStarted before Start. If the command cannot be written the
// session ends and a *errors.WriteError is returned.
func (s *Session) Send(ctx context.Context, command string) (framer.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return framer.Frame{}, errors.ErrSessionClosed
	}

	switch s.Phase() {
	case PhaseEnded:
		return framer.Done(""), nil
	case PhaseNotStarted:
		return framer.Frame{}, errors.ErrNotStarted
	}

	line := Normalize(command)
	s.log.Debug("Sending command", "command", strings.TrimSuffix(line, "\n"))

	if err := s.write(line); err != nil {
		s.log.Error("Failed to write command", "error", err)
		s.end()

		return framer.Frame{}, &errors.WriteError{Command: command, Err: err}
	}

	return s.next(ctx)
}

// Quit ends the session and returns its Done frame. Output frames still
// queued are not returned separately; their text is prepended to the Done
// frame's text.
func (s *Session) Quit(ctx context.Context) (framer.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return framer.Frame{}, errors.ErrSessionClosed
	}

	if s.Phase() == PhaseEnded {
		return framer.Done(""), nil
	}

	s.log.Info("Quitting session")
	s.end()

	var (
		text    strings.Builder
		skipped int
	)

	for {
		select {
		case f, ok := <-s.frames:
			if !ok {
				return framer.Done(text.String()), nil
			}

			text.WriteString(f.Text)

			if f.IsDone() {
				if skipped > 0 {
					s.log.Debug("Folded unread output into final frame", "frames", skipped)
				}

				return framer.Done(text.String()), nil
			}

			skipped++

		case <-ctx.Done():
			return framer.Frame{}, ctx.Err()
		}
	}
}

// Close ends the session, releases the child, and waits for background
// goroutines. It is safe to call more than once and concurrently with a
// turn in progress, which is woken with a Done frame.
func (s *Session) Close() error {
	var err error

	s.closeOnce.Do(func() {
		s.log.Debug("Closing session")

		// Lock-free wakeups first, so a blocked turn can release the mutex.
		s.stop.Fire()
		err = s.proc.Close()

		s.mu.Lock()
		s.closed.Store(true)
		s.end()
		s.mu.Unlock()

		for range s.frames {
		}

		_ = s.eg.Wait()

		s.log.Debug("Session closed")
	})

	return err
}

// end moves the session to PhaseEnded, stops the framer and closes stdin.
// Caller must hold s.mu.
func (s *Session) end() {
	s.setPhase(PhaseEnded)
	s.stop.Fire()

	s.stdinOnce.Do(func() {
		if err := s.proc.Stdin().Close(); err != nil {
			s.log.Debug("Closing child stdin", "error", err)
		}
	})
}

// write sends one normalized command line. Caller must hold s.mu.
func (s *Session) write(line string) error {
	if _, err := s.stdin.WriteString(line); err != nil {
		return err
	}

	return s.stdin.Flush()
}

// next waits for the next frame. Caller must hold s.mu.
//
// If ctx ends first the session is ended: the pending frame would otherwise
// be handed to the following turn.
func (s *Session) next(ctx context.Context) (framer.Frame, error) {
	select {
	case f, ok := <-s.frames:
		if !ok {
			s.end()

			return framer.Done(""), nil
		}

		if f.IsDone() {
			s.log.Info("Child output ended", "lines", len(f.Lines))
			s.end()
		}

		return f, nil

	case <-ctx.Done():
		s.log.Warn("Gave up waiting for output, ending session", "error", ctx.Err())
		s.end()

		return framer.Frame{}, ctx.Err()
	}
}

// Normalize prepares a command for the child: it ends with exactly one
// newline and embedded line breaks are replaced with spaces so one command
// is always one turn.
func Normalize(command string) string {
	command = strings.TrimRight(command, "\r\n")
	command = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(command)

	return command + "\n"
}
