package framer

import (
	"bufio"
	"errors"
	"io"
	"log/slog"

	"github.com/lambdageek/mcp-server-dunnet/internal/toggle"
)

// chunk is the result of one delimited read from the child.
type chunk struct {
	data []byte
	err  error
}

// Reader drives a Scanner over the child's stdout.
type Reader struct {
	log  *slog.Logger
	src  io.Reader
	stop toggle.Receiver
}

// NewReader creates a Reader over src that finishes early once stop fires.
func NewReader(log *slog.Logger, src io.Reader, stop toggle.Receiver) *Reader {
	return &Reader{
		log:  log.With("component", "framer"),
		src:  src,
		stop: stop,
	}
}

// Run reads until end-of-stream, a read error, or the stop toggle, sending
// frames to out in stream order. It always sends exactly one Done frame as the
// last frame and then closes out. Sends block while out is full.
//
// A read error is logged and ends the session like end-of-stream. When stop
// fires, Run stops waiting on the in-flight read; the underlying read is
// abandoned and its result discarded.
func (r *Reader) Run(out chan<- Frame) {
	defer close(out)

	chunks := make(chan chunk)
	go r.pump(chunks)

	var (
		sc     Scanner
		frames int
	)

	for {
		select {
		case c := <-chunks:
			for _, f := range sc.Feed(c.data) {
				frames++
				r.log.Debug("Reached prompt, emitting frame", "frame", frames, "lines", len(f.Lines))

				out <- f
			}

			if c.err != nil {
				if !errors.Is(c.err, io.EOF) {
					r.log.Warn("Error reading child output", "error", c.err)
				} else {
					r.log.Debug("Child output reached end of stream")
				}

				r.finish(out, &sc)

				return
			}

		case <-r.stop.Done():
			r.log.Debug("Stop requested, finishing output", "pending_bytes", sc.Pending())
			r.finish(out, &sc)

			return
		}
	}
}

func (r *Reader) finish(out chan<- Frame, sc *Scanner) {
	done := sc.Finish()
	r.log.Debug("Emitting final frame", "lines", len(done.Lines))

	out <- done
}

// pump performs the blocking reads, each up to and including the next prompt
// byte, and hands them to Run.
func (r *Reader) pump(chunks chan<- chunk) {
	br := bufio.NewReader(r.src)

	for {
		data, err := br.ReadBytes(PromptByte)

		select {
		case chunks <- chunk{data: data, err: err}:
		case <-r.stop.Done():
			return
		}

		if err != nil {
			return
		}
	}
}
