//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"

	dunnet "github.com/lambdageek/mcp-server-dunnet"
)

// skipIfEmacsNotInstalled skips the test if the error indicates emacs is not found.
func skipIfEmacsNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*dunnet.ExecutableNotFoundError](err); ok {
		t.Skip("emacs not installed")
	}
}

// openGame opens a session against the real emacs.
func openGame(t *testing.T, ctx context.Context, opts ...dunnet.Option) *dunnet.Session {
	t.Helper()

	s, err := dunnet.Open(ctx, opts...)
	if err != nil {
		skipIfEmacsNotInstalled(t, err)
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}
