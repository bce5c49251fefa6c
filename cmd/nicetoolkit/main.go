package main

import (
	"os"

	"github.com/nicetoolkit/nicetoolkit/cmd/nicetoolkit/commands"
)

func main() {
	os.Exit(commands.Execute(commands.NewRootCmd()))
}
