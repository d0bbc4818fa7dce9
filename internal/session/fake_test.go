package session

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProcess implements Process over in-memory pipes. A scripted game
// goroutine plays the child's side.
type fakeProcess struct {
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	exitOnce sync.Once
	exited   chan struct{}

	mu       sync.Mutex
	received []string
}

func newFakeProcess() *fakeProcess {
	p := &fakeProcess{exited: make(chan struct{})}
	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()

	return p
}

func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdinW }
func (p *fakeProcess) Stdout() io.Reader     { return p.stdoutR }

func (p *fakeProcess) Wait() error {
	<-p.exited

	return nil
}

func (p *fakeProcess) exit() {
	p.exitOnce.Do(func() {
		_ = p.stdoutW.Close()
		_ = p.stdinR.Close()
		close(p.exited)
	})
}

func (p *fakeProcess) Close() error {
	p.exit()

	return nil
}

// Received returns the command lines the game has read so far.
func (p *fakeProcess) Received() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.received...)
}

// play runs a tiny adventure: it prints banner, then answers each command
// line with reply(line) followed by a prompt. A reply of "" with exit=true
// ends the game. End of input ends the game.
func (p *fakeProcess) play(t *testing.T, banner string, reply func(cmd string) (out string, exit bool)) {
	t.Helper()

	go func() {
		defer p.exit()

		if _, err := io.WriteString(p.stdoutW, banner); err != nil {
			return
		}

		scanner := bufio.NewScanner(p.stdinR)
		for scanner.Scan() {
			line := scanner.Text()

			p.mu.Lock()
			p.received = append(p.received, line)
			p.mu.Unlock()

			out, exit := reply(line)
			if _, err := io.WriteString(p.stdoutW, out); err != nil {
				return
			}

			if exit {
				return
			}
		}
	}()
}

// adventure is the reply function used by most tests.
func adventure(cmd string) (string, bool) {
	switch cmd {
	case "go north":
		return "A room\n>", false
	case "look":
		return "You are in a dead end.\nThere is a shovel here.\n>", false
	case "quit":
		return "You have scored 0 points.\n", true
	default:
		return fmt.Sprintf("I don't understand that: %s\n>", cmd), false
	}
}
