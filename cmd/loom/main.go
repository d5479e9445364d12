package main

import (
	"os"

	"github.com/dshills/loom/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
