// Package session serializes command/response turns against the child.
//
// A Session owns the child's stdin and the queue of frames produced by the
// output framer. Each Start, Send or Quit consumes exactly the next frame, so
// calls are serialized by an internal mutex: concurrent callers are served
// one whole turn at a time, in lock order.
//
// The lifecycle is NotStarted, then Started after Start, then Ended once a
// Done frame has been returned. Send before Start fails with ErrNotStarted.
// Once Ended, every call returns an empty Done frame instead of blocking.
package session
