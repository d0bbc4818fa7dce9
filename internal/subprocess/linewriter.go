package subprocess

import (
	"bytes"
	"strings"
	"sync"
)

// maxPendingLine caps a single unterminated stderr line.
const maxPendingLine = 64 * 1024

// lineWriter is an io.Writer that calls emit once per complete line.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func newLineWriter(emit func(string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.emit(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}

	if len(w.buf) > maxPendingLine {
		w.emit(string(w.buf))
		w.buf = nil
	}

	return len(p), nil
}

// Flush emits any unterminated trailing line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}
