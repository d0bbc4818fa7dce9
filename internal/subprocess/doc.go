// Package subprocess spawns and supervises the Emacs child process.
//
// The child's stdin is a pipe written by the session, its stdout is a pipe
// read by the output framer, and each line it writes to stderr is forwarded
// to a callback and the debug log. Reaping is independent of reading: stdout
// is an os.Pipe owned by this package, so waiting for the process never
// closes the read end under the framer.
package subprocess
