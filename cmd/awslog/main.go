// Command awslog converts a CloudWatch Logs JSON export to plain text.
package main

import (
	"os"

	"github.com/nicetoolkit/nicetoolkit/cmd/nicetoolkit/commands"
)

func main() {
	os.Exit(commands.Execute(commands.Standalone(commands.NewAWSLogCmd(), "awslog")))
}
