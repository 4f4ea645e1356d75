package main

import (
	"os"

	"github.com/dshills/locguard/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
