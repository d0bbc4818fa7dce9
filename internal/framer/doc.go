// Package framer turns the child's raw stdout byte stream into frames.
//
// A frame is one completed turn of output, terminated in the stream by a
// newline immediately followed by the '>' prompt byte. The prompt byte is
// stripped; the newline before it is kept in the frame text. A '>' that does
// not follow a newline is ordinary text and never ends a frame.
//
// Scanner holds the boundary state machine and performs no I/O, so it can be
// driven directly from tests. Reader runs Scanner over a live stream, racing
// each read against a stop toggle, and guarantees that the last frame it
// emits is the single Done frame of the session.
package framer
