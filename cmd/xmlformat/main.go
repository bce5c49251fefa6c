// Command xmlformat pretty-prints or minimizes an XML document.
package main

import (
	"os"

	"github.com/nicetoolkit/nicetoolkit/cmd/nicetoolkit/commands"
)

func main() {
	os.Exit(commands.Execute(commands.Standalone(commands.NewXMLFormatCmd(), "xmlformat")))
}
