package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicetoolkit/nicetoolkit/internal/calver"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// NewBumpCmd bumps the calendar version stored in the version file.
// NewBumpCmd 递增版本文件中保存的日历版本号。
func NewBumpCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Bump the YYYY.MM.P version in the VERSION file",
		// Short: 递增 VERSION 文件中的 YYYY.MM.P 版本号
		Long: `Bump the calendar version stored in the VERSION file.
The patch number increments within the same month and restarts at 1 in a new month.
A missing file starts at the current month.
递增 VERSION 文件中的日历版本号：同月内补丁号加一，跨月从 1 开始，文件不存在时从当前月份开始。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := file
			if path == "" {
				path = configFrom(ctx).Bump.VersionFile
			}

			store := calver.NewStore(path)
			store.Now = clock

			res, err := store.Bump(ctx, dryRun)
			if err != nil {
				var fe *tkerrors.FormatError
				if errors.As(err, &fe) {
					return &reportedError{
						msg: fmt.Sprintf("Invalid version format in %s file: %s", path, fe.Value),
						err: err,
					}
				}
				return err
			}

			if !res.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "Next version: %s (dry run, %s not modified)\n", res.Version, path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version bumped to: %s\n", res.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Version file to bump (default from config: VERSION)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the next version without writing it")
	return cmd
}
