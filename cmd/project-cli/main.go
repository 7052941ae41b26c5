package main

import (
	"context"
	"os"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/app"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli/commands"
)

func main() {
	ctx := context.Background()
	s := app.NewSession(ctx, os.Stdout, os.Stderr, os.Environ())
	os.Exit(cli.Execute(ctx, commands.NewProjectRoot(s), s, os.Args[1:]))
}
