// Command calver-bump rewrites the YYYY.MM.P version in ./VERSION.
package main

import (
	"os"

	"github.com/nicetoolkit/nicetoolkit/cmd/nicetoolkit/commands"
)

func main() {
	os.Exit(commands.Execute(commands.Standalone(commands.NewBumpCmd(), "calver-bump")))
}
