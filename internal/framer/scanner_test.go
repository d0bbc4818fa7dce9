package framer

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(sc *Scanner, chunks ...string) []Frame {
	var frames []Frame
	for _, c := range chunks {
		frames = append(frames, sc.Feed([]byte(c))...)
	}

	return frames
}

func TestScannerSingleBoundary(t *testing.T) {
	var sc Scanner

	frames := feedAll(&sc, "Welcome\n>")

	require.Len(t, frames, 1)
	require.Equal(t, KindOutput, frames[0].Kind)
	require.Equal(t, []string{"Welcome"}, frames[0].Lines)
	require.Equal(t, "Welcome\n", frames[0].Text)
	require.Zero(t, sc.Pending())
}

func TestScannerLiteralPromptByteDoesNotSplit(t *testing.T) {
	var sc Scanner

	frames := feedAll(&sc, "abc>def\n>")

	require.Len(t, frames, 1)
	require.Equal(t, []string{"abc>def"}, frames[0].Lines)
}

func TestScannerLiteralPromptByteAcrossReads(t *testing.T) {
	var sc Scanner

	// The way a delimited reader delivers "abc>def\n>".
	frames := feedAll(&sc, "abc>", "def\n>")

	require.Len(t, frames, 1)
	require.Equal(t, "abc>def\n", frames[0].Text)
}

func TestScannerBoundarySplitAcrossChunks(t *testing.T) {
	var sc Scanner

	require.Empty(t, sc.Feed([]byte("You are in a room.\n")))

	frames := sc.Feed([]byte(">"))
	require.Len(t, frames, 1)
	require.Equal(t, []string{"You are in a room."}, frames[0].Lines)
}

func TestScannerMultipleBoundariesInOneChunk(t *testing.T) {
	var sc Scanner

	frames := feedAll(&sc, "one\n>two\nthree\n>tail")

	require.Len(t, frames, 2)
	require.Equal(t, []string{"one"}, frames[0].Lines)
	require.Equal(t, []string{"two", "three"}, frames[1].Lines)
	require.Equal(t, 4, sc.Pending())

	done := sc.Finish()
	require.True(t, done.IsDone())
	require.Equal(t, []string{"tail"}, done.Lines)
	require.Zero(t, sc.Pending())
}

func TestScannerFinishEmpty(t *testing.T) {
	var sc Scanner

	done := sc.Finish()

	require.Equal(t, KindDone, done.Kind)
	require.Empty(t, done.Lines)
	require.Empty(t, done.Text)
}

func TestScannerFinishWithoutPrompt(t *testing.T) {
	var sc Scanner

	require.Empty(t, feedAll(&sc, "You have died.\nGoodbye"))

	done := sc.Finish()
	require.Equal(t, []string{"You have died.", "Goodbye"}, done.Lines)
}

func TestScannerPromptAtStreamStartIsText(t *testing.T) {
	var sc Scanner

	require.Empty(t, sc.Feed([]byte(">")))
	require.Equal(t, 1, sc.Pending())

	frames := sc.Feed([]byte("x\n>"))
	require.Len(t, frames, 1)
	require.Equal(t, ">x\n", frames[0].Text)
}

func TestScannerEmptyTurn(t *testing.T) {
	var sc Scanner

	frames := feedAll(&sc, "\n>")

	require.Len(t, frames, 1)
	require.Equal(t, []string{""}, frames[0].Lines)
}

func TestScannerLossyDecoding(t *testing.T) {
	var sc Scanner

	frames := sc.Feed([]byte("\xffcave\xfe\n>"))

	require.Len(t, frames, 1)
	require.Equal(t, []string{"\uFFFDcave\uFFFD"}, frames[0].Lines)
}

func TestScannerCarriageReturns(t *testing.T) {
	var sc Scanner

	frames := feedAll(&sc, "line one\r\nline two\r\n>")

	require.Len(t, frames, 1)
	require.Equal(t, []string{"line one", "line two"}, frames[0].Lines)
}

// TestScannerReconstructsStream checks that for random streams and random
// chunking, there is one frame per boundary plus one Done, and that the frame
// texts with their stripped prompt bytes put back reproduce the stream.
func TestScannerReconstructsStream(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []byte("ab >\n\n>")

	for iter := range 500 {
		stream := make([]byte, rng.IntN(200))
		for i := range stream {
			stream[i] = alphabet[rng.IntN(len(alphabet))]
		}

		var (
			sc     Scanner
			frames []Frame
		)

		for rest := stream; len(rest) > 0; {
			n := 1 + rng.IntN(len(rest))
			frames = append(frames, sc.Feed(rest[:n])...)
			rest = rest[n:]
		}

		frames = append(frames, sc.Finish())

		require.Len(t, frames, strings.Count(string(stream), "\n>")+1, "iteration %d", iter)

		var rebuilt strings.Builder
		for i, f := range frames {
			rebuilt.WriteString(f.Text)

			if i < len(frames)-1 {
				require.Equal(t, KindOutput, f.Kind)
				rebuilt.WriteByte(PromptByte)
			} else {
				require.Equal(t, KindDone, f.Kind)
			}
		}

		require.Equal(t, string(stream), rebuilt.String(), "iteration %d", iter)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single newline", in: "\n", want: []string{""}},
		{name: "no trailing newline", in: "a\nb", want: []string{"a", "b"}},
		{name: "trailing newline", in: "a\nb\n", want: []string{"a", "b"}},
		{name: "blank line kept", in: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "crlf", in: "a\r\nb\r\n", want: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, SplitLines(tc.in))
		})
	}
}
