// Command dunnet plays the dunnet text adventure in a terminal or serves it
// to MCP clients over stdio.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dunnet "github.com/lambdageek/mcp-server-dunnet"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type flags struct {
	configPath string
	emacsPath  string
	logLevel   string
	logFormat  string
	queueSize  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	play := func(cmd *cobra.Command, _ []string) error {
		log, opts, err := f.resolve(stderr)
		if err != nil {
			return err
		}

		log.Debug("Starting console game")

		return dunnet.Play(cmd.Context(), stdin, stdout, opts...)
	}

	root := &cobra.Command{
		Use:           "dunnet",
		Short:         "Play dunnet through GNU Emacs",
		Long:          "Run the dunnet text adventure as an Emacs child process, either in the terminal or as an MCP tool server.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          play,
	}

	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a YAML config file (default: user and project config files)")
	pf.StringVar(&f.emacsPath, "emacs", "", "path to the emacs binary (default: search $PATH and common locations)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: text, json or logrus")
	pf.IntVar(&f.queueSize, "queue-size", 0, "number of frames buffered between the game and the session")

	root.AddCommand(
		&cobra.Command{
			Use:   "play",
			Short: "Play in the terminal (default)",
			Args:  cobra.NoArgs,
			RunE:  play,
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the game as MCP tools over stdio",
			Long: `Serve the game to an MCP client over standard input and output.

The game is started when the server starts. Clients call start_game once,
then world_command for each command, and end_game to stop.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				log, opts, err := f.resolve(stderr)
				if err != nil {
					return err
				}

				log.Info("Starting MCP server", "version", version)

				return dunnet.ServeStdio(cmd.Context(), version, opts...)
			},
		},
	)

	return root
}

// resolve merges the config files with the command line flags. Flags win.
func (f *flags) resolve(stderr io.Writer) (*slog.Logger, []dunnet.Option, error) {
	file, err := dunnet.LoadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := firstNonEmpty(f.logLevel, file.LogLevel)
	format := firstNonEmpty(f.logFormat, file.LogFormat)

	log, err := dunnet.NewLogger(stderr, level, format)
	if err != nil {
		return nil, nil, err
	}

	opts := []dunnet.Option{
		dunnet.WithConfig(file),
		dunnet.WithLogger(log),
		dunnet.WithStderr(func(line string) {
			log.Warn("emacs", "stderr", line)
		}),
	}

	if f.emacsPath != "" {
		opts = append(opts, dunnet.WithEmacsPath(f.emacsPath))
	}

	if f.queueSize > 0 {
		opts = append(opts, dunnet.WithQueueSize(f.queueSize))
	}

	return log, opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
