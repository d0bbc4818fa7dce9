package framer

import "strings"

// Kind distinguishes a prompted turn from the end of the session.
type Kind int

const (
	// KindOutput is a chunk of output after which the child awaits a command.
	KindOutput Kind = iota
	// KindDone is the final frame: the child exited, the stream failed, or
	// the session was ended. It carries any output that was never prompted.
	KindDone
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "output"
	case KindDone:
		return "done"
	default:
		return "unknown"
	}
}

// Frame is one unit of child output handed to consumers.
type Frame struct {
	Kind Kind
	// Lines is Text split into lines.
	Lines []string
	// Text is the decoded output with the prompt byte removed.
	Text string
}

// IsDone reports whether this is the terminal frame.
func (f Frame) IsDone() bool {
	return f.Kind == KindDone
}

// String joins the frame's lines with newlines.
func (f Frame) String() string {
	return strings.Join(f.Lines, "\n")
}

// Output builds an output frame from already-decoded text.
func Output(text string) Frame {
	return Frame{Kind: KindOutput, Lines: SplitLines(text), Text: text}
}

// Done builds a terminal frame from already-decoded text.
func Done(text string) Frame {
	return Frame{Kind: KindDone, Lines: SplitLines(text), Text: text}
}

// SplitLines splits text at newlines. A trailing newline does not produce an
// empty final line, and a carriage return before a newline is dropped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
