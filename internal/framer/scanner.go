package framer

import "bytes"

const (
	// PromptByte is the character the child prints when it wants a command.
	PromptByte = '>'
)

// promptBoundary marks the end of a turn in the byte stream.
var promptBoundary = []byte{'\n', PromptByte}

// Scanner accumulates raw output and cuts it into frames at prompt
// boundaries. It does no I/O and is not safe for concurrent use.
type Scanner struct {
	buf []byte
	// scanned is how much of buf is known to hold no boundary, minus one
	// byte so a boundary split across two chunks is still found.
	scanned int
}

// Feed appends chunk to the accumulator and returns one output frame for
// every prompt boundary now present, in stream order. Bytes after the last
// boundary stay buffered.
func (s *Scanner) Feed(chunk []byte) []Frame {
	s.buf = append(s.buf, chunk...)

	var frames []Frame

	for {
		i := bytes.Index(s.buf[s.scanned:], promptBoundary)
		if i < 0 {
			break
		}

		end := s.scanned + i
		// Keep the newline, drop the prompt byte.
		frames = append(frames, Output(decode(s.buf[:end+1])))
		s.buf = append(s.buf[:0], s.buf[end+len(promptBoundary):]...)
		s.scanned = 0
	}

	s.scanned = max(len(s.buf)-1, 0)

	return frames
}

// Pending reports how many bytes are buffered without a boundary.
func (s *Scanner) Pending() int {
	return len(s.buf)
}

// Finish returns the terminal frame holding whatever is buffered and resets
// the scanner. With nothing buffered the frame has no lines.
func (s *Scanner) Finish() Frame {
	f := Done(decode(s.buf))
	s.buf = nil
	s.scanned = 0

	return f
}
