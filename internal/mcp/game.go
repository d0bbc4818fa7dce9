package mcp

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
	"github.com/lambdageek/mcp-server-dunnet/internal/framer"
)

// Tool names exposed by the game server.
const (
	ToolStartGame    = "start_game"
	ToolWorldCommand = "world_command"
	ToolEndGame      = "end_game"
)

const (
	// ServerName is the MCP implementation name the server advertises.
	ServerName = "Dunnet MCP Server"

	// Instructions tells the client how to drive the game.
	Instructions = "Use this server to play dunnet. Call start_game once, then send one command at a time " +
		"with world_command. Some commands you can use are: look, go <direction>, take <object>, use <object>. " +
		"Use the command 'quit' or the end_game tool to exit the game."

	nextCommandPrompt = "What is your next command?"
	gameOverNotice    = "The game has ended. You can not send any more commands."
)

// Game is one playable session.
type Game interface {
	Start(ctx context.Context) (framer.Frame, error)
	Send(ctx context.Context, command string) (framer.Frame, error)
	Quit(ctx context.Context) (framer.Frame, error)
}

// NewGameServer creates a server with the game tools registered against game.
func NewGameServer(log *slog.Logger, game Game, version string) *Server {
	s := NewServer(log, ServerName, version, Instructions)
	RegisterGameTools(s, game)

	return s
}

// RegisterGameTools adds start_game, world_command and end_game to s.
func RegisterGameTools(s *Server, game Game) {
	empty := StringArgsSchema()

	s.AddTool(withAnnotations(NewTool(ToolStartGame,
		"Start a new game of dunnet and return the opening text. Call this once before world_command.",
		empty)), func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := game.Start(ctx)
		if err != nil {
			return sessionErrorResult(ToolStartGame, err), nil
		}

		return TextResult(FormatFrame(f)), nil
	})

	command := StringArgsSchema("command")
	command.Properties["command"].Description = "The command to send to the game, for example \"look\" or \"go north\"."
	command.Properties["command"].MinLength = intPtr(1)

	s.AddTool(withAnnotations(NewTool(ToolWorldCommand,
		"Send one command to the running game and return the game's response.",
		command)), func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			//nolint:nilerr // Intentionally return nil error - error is encoded in the result
			return ErrorResult("Invalid arguments: " + err.Error()), nil
		}

		cmd, ok := args["command"].(string)
		if !ok {
			return ErrorResult(`world_command requires a string argument "command"`), nil
		}

		if strings.TrimSpace(cmd) == "" {
			return ErrorResult(errors.ErrEmptyCommand.Error()), nil
		}

		f, err := game.Send(ctx, cmd)
		if err != nil {
			return sessionErrorResult(ToolWorldCommand, err), nil
		}

		return TextResult(FormatFrame(f)), nil
	})

	s.AddTool(withAnnotations(NewTool(ToolEndGame,
		"End the running game and return any final text.",
		empty)), func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := game.Quit(ctx)
		if err != nil {
			return sessionErrorResult(ToolEndGame, err), nil
		}

		return TextResult(FormatFrame(f)), nil
	})
}

// FormatFrame renders a frame as tool result text.
func FormatFrame(f framer.Frame) string {
	suffix := nextCommandPrompt
	if f.IsDone() {
		suffix = gameOverNotice
	}

	if len(f.Lines) == 0 {
		return suffix
	}

	return strings.Join(f.Lines, "\n") + "\n" + suffix
}

func sessionErrorResult(tool string, err error) *mcp.CallToolResult {
	switch {
	case stderrors.Is(err, errors.ErrNotStarted):
		return ErrorResult("The game has not been started. Call start_game first.")
	case stderrors.Is(err, errors.ErrAlreadyStarted):
		return ErrorResult("The game is already running. Use world_command to play.")
	case stderrors.Is(err, errors.ErrSessionClosed):
		return ErrorResult("The game session is closed. " + gameOverNotice)
	default:
		return ErrorResult(tool + " failed: " + err.Error())
	}
}

func withAnnotations(tool *mcp.Tool) *mcp.Tool {
	tool.Annotations = &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		IdempotentHint:  false,
		OpenWorldHint:   boolPtr(true),
		ReadOnlyHint:    false,
	}

	return tool
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
