package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/bgricker/uicheck/internal/cli"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.ExitCode(newRootCmd(defaultDeps()).ExecuteContext(ctx), os.Stderr)
}
