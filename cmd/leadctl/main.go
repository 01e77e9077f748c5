package main

import (
	"os"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
	os.Exit(cli.ExitSuccess)
}
