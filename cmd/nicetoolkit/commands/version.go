package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicetoolkit/nicetoolkit/internal/version"
)

// NewVersionCmd prints the build version.
// NewVersionCmd 打印构建版本。
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of nicetoolkit`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "nicetoolkit %s\n", version.Version)
			return err
		},
	}
}
