// Package mcp exposes the game as Model Context Protocol tools.
//
// Server wraps the official MCP SDK server and keeps its own registry of the
// tools it registers, so tools can also be listed and invoked directly
// without a transport. The game tools map each session turn to a single text
// result; failures become error results rather than protocol errors.
package mcp
