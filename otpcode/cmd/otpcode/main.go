package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Version information (set by ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := NewDefaultApp()
	run(ctx, app, os.Args)
}

// run is the testable entrypoint for the application
func run(ctx context.Context, app *App, args []string) {
	root := newRootCmd(app)
	root.SetArgs(args[1:])
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetIn(app.Stdin)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(app.Stderr, "❌ %v\n", err)
		app.Exit(1)
	}
}
