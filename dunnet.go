package dunnet

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lambdageek/mcp-server-dunnet/internal/console"
	"github.com/lambdageek/mcp-server-dunnet/internal/framer"
	internalmcp "github.com/lambdageek/mcp-server-dunnet/internal/mcp"
	"github.com/lambdageek/mcp-server-dunnet/internal/session"
	"github.com/lambdageek/mcp-server-dunnet/internal/subprocess"
)

// Session runs turns against one game. See the session package for the
// lifecycle rules.
type Session = session.Session

// Frame is one turn of game output.
type Frame = framer.Frame

// FrameKind distinguishes ordinary turns from the final frame.
type FrameKind = framer.Kind

// Frame kinds.
const (
	FrameOutput = framer.KindOutput
	FrameDone   = framer.KindDone
)

// Phase is a session's lifecycle state.
type Phase = session.Phase

// Session phases.
const (
	PhaseNotStarted = session.PhaseNotStarted
	PhaseStarted    = session.PhaseStarted
	PhaseEnded      = session.PhaseEnded
)

// Open locates emacs, spawns the game and returns a session ready for Start.
//
// Returns *ExecutableNotFoundError if emacs cannot be found, or *SpawnError
// if it cannot be launched. ctx bounds discovery only; the child outlives it.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := applyOptions(opts).WithDefaults()

	proc := subprocess.New(options.Logger, options)
	if err := proc.Start(ctx); err != nil {
		return nil, err
	}

	return session.New(options.Logger, proc, options.QueueSize), nil
}

// WithSession opens a session, runs fn, and closes the session afterwards.
// A Close failure is logged and does not override fn's error.
func WithSession(ctx context.Context, fn func(*Session) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	log := applyOptions(opts).WithDefaults().Logger

	s, err := Open(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			log.Warn("failed to close session", "error", closeErr)
		}
	}()

	return fn(s)
}

// Play runs the game on a line-oriented terminal until it ends or in is
// exhausted.
func Play(ctx context.Context, in io.Reader, out io.Writer, opts ...Option) error {
	return WithSession(ctx, func(s *Session) error {
		return console.Run(ctx, applyOptions(opts).WithDefaults().Logger, s, in, out)
	}, opts...)
}

// Serve exposes a game as MCP tools over transport until the client
// disconnects or ctx is done. The game is spawned before serving starts.
func Serve(ctx context.Context, transport mcp.Transport, version string, opts ...Option) error {
	return WithSession(ctx, func(s *Session) error {
		server := internalmcp.NewGameServer(applyOptions(opts).WithDefaults().Logger, s, version)

		return server.Run(ctx, transport)
	}, opts...)
}

// ServeStdio is Serve over the process's standard input and output.
func ServeStdio(ctx context.Context, version string, opts ...Option) error {
	return Serve(ctx, &mcp.StdioTransport{}, version, opts...)
}

// Script starts s and plays commands in order, yielding the opening frame
// and then one frame per command. It stops after the Done frame or the first
// error.
func Script(ctx context.Context, s *Session, commands iter.Seq[string]) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		f, err := s.Start(ctx)
		if !yield(f, err) || err != nil || f.IsDone() {
			return
		}

		for cmd := range commands {
			f, err = s.Send(ctx, cmd)
			if !yield(f, err) || err != nil || f.IsDone() {
				return
			}
		}
	}
}

// Normalize returns command as it will be written to the child: trailing line
// breaks removed, embedded ones replaced by spaces, one newline appended.
func Normalize(command string) string {
	return session.Normalize(command)
}
