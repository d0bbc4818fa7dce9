// Package console plays the game on a line-oriented terminal.
//
// Every line of game output is echoed with an "O: " prefix and the user is
// prompted between turns. Every input line, blank ones included, is one
// command. End of input quits the game and prints whatever
// the game said on the way out.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lambdageek/mcp-server-dunnet/internal/framer"
)

const (
	// OutputPrefix marks lines produced by the game.
	OutputPrefix = "O: "

	// Prompt is printed before each line of user input is read.
	Prompt = "Your command: "
)

// Game is one playable session.
type Game interface {
	Start(ctx context.Context) (framer.Frame, error)
	Send(ctx context.Context, command string) (framer.Frame, error)
	Quit(ctx context.Context) (framer.Frame, error)
}

// Console connects a Game to an input and output stream.
type Console struct {
	log  *slog.Logger
	game Game
	in   io.Reader
	out  io.Writer
}

// New creates a console reading commands from in and printing to out.
func New(log *slog.Logger, game Game, in io.Reader, out io.Writer) *Console {
	return &Console{
		log:  log.With("component", "console"),
		game: game,
		in:   in,
		out:  out,
	}
}

// Run plays until the game ends, input runs out or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	f, err := c.game.Start(ctx)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	if err := c.print(f); err != nil {
		return err
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := c.readLines(readCtx)

	for !f.IsDone() {
		if _, err := io.WriteString(c.out, Prompt); err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		var (
			line string
			ok   bool
		)

		select {
		case line, ok = <-lines:
		case <-ctx.Done():
			return ctx.Err()
		}

		if !ok {
			c.log.Debug("End of input, quitting")

			f, err = c.game.Quit(ctx)
			if err != nil {
				return fmt.Errorf("quit game: %w", err)
			}

			return c.print(f)
		}

		f, err = c.game.Send(ctx, line)
		if err != nil {
			return fmt.Errorf("send %q: %w", line, err)
		}

		if err := c.print(f); err != nil {
			return err
		}
	}

	return nil
}

// readLines delivers input lines until end of input or ctx is done.
func (c *Console) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			c.log.Warn("Reading input failed", "error", err)
		}
	}()

	return lines
}

func (c *Console) print(f framer.Frame) error {
	var b strings.Builder
	for _, line := range f.Lines {
		b.WriteString(OutputPrefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// Run is shorthand for New(log, game, in, out).Run(ctx).
func Run(ctx context.Context, log *slog.Logger, game Game, in io.Reader, out io.Writer) error {
	return New(log, game, in, out).Run(ctx)
}
