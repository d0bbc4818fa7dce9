// Package dunnet runs the dunnet text adventure as a child process of GNU
// Emacs and turns its output into discrete turns.
//
// Each turn is a Frame: the text the game printed before its next prompt.
// A Session starts the game, sends one command per turn, and reports a final
// Done frame once the game is over.
//
// # Basic Usage
//
//	ctx := context.Background()
//	s, err := dunnet.Open(ctx, dunnet.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	banner, err := s.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(banner)
//
//	reply, err := s.Send(ctx, "look")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(reply)
//
// # Front Ends
//
// Play runs the game on a terminal, echoing output lines prefixed with "O: ".
// Serve exposes the game as Model Context Protocol tools over stdio.
//
// # Configuration
//
// Options are applied in order, so later options win. LoadConfig reads the
// YAML configuration files and WithConfig applies them:
//
//	file, err := dunnet.LoadConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := dunnet.Open(ctx, dunnet.WithConfig(file), dunnet.WithQueueSize(16))
//
// # Error Handling
//
// Errors are typed and can be inspected with errors.As or errors.Is:
//
//	s, err := dunnet.Open(ctx)
//	var notFound *dunnet.ExecutableNotFoundError
//	if errors.As(err, &notFound) {
//	    fmt.Println("emacs not found in:", notFound.SearchedPaths)
//	}
package dunnet
