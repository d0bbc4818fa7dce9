package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps an MCP SDK server with a programmatic tool registry.
type Server struct {
	log     *slog.Logger
	name    string
	version string
	server  *mcp.Server
	mu      sync.RWMutex
	tools   map[string]*registeredTool
}

// registeredTool holds tool metadata and handler for the internal registry.
type registeredTool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewServer creates a server advertising the given identity and instructions.
func NewServer(log *slog.Logger, name, version, instructions string) *Server {
	return &Server{
		log:     log.With("component", "mcp_server"),
		name:    name,
		version: version,
		server: mcp.NewServer(
			&mcp.Implementation{Name: name, Version: version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		tools: make(map[string]*registeredTool, 4),
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// Version returns the server version.
func (s *Server) Version() string {
	return s.version
}

// SDKServer returns the underlying MCP SDK server.
func (s *Server) SDKServer() *mcp.Server {
	return s.server
}

// AddTool registers a tool. The tool's input schema must be an object schema.
func (s *Server) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	handler = s.logged(tool.Name, handler)

	s.mu.Lock()
	s.tools[tool.Name] = &registeredTool{tool: tool, handler: handler}
	s.mu.Unlock()

	s.server.AddTool(tool, handler)
}

func (s *Server) logged(name string, handler mcp.ToolHandler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		s.log.Debug("Tool call", "tool", name)

		result, err := handler(ctx, req)

		switch {
		case err != nil:
			s.log.Error("Tool call failed", "tool", name, "error", err)
		case result != nil && result.IsError:
			s.log.Info("Tool call returned error result", "tool", name, "duration", time.Since(start))
		default:
			s.log.Debug("Tool call finished", "tool", name, "duration", time.Since(start))
		}

		return result, err
	}
}

// ListTools returns all registered tools sorted by name.
func (s *Server) ListTools() []*mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*mcp.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		result = append(result, t.tool)
	}

	slices.SortFunc(result, func(a, b *mcp.Tool) int {
		return strings.Compare(a.Name, b.Name)
	})

	return result
}

// CallTool invokes a registered tool directly. Unknown tools, bad input and
// handler errors are reported as error results, not as a Go error.
func (s *Server) CallTool(ctx context.Context, name string, input map[string]any) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return ErrorResult("Tool not found: " + name), nil
	}

	inputBytes, err := json.Marshal(input)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return ErrorResult("Failed to marshal input: " + err.Error()), nil
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: inputBytes,
		},
	}

	result, err := t.handler(ctx, req)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return ErrorResult("Tool execution failed: " + err.Error()), nil
	}

	return result, nil
}

// Run serves MCP over the given transport until the client disconnects or
// ctx is done.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.log.Info("Serving MCP", "name", s.name, "version", s.version, "tools", len(s.ListTools()))

	return s.server.Run(ctx, transport)
}
