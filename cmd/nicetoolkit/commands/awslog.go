package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicetoolkit/nicetoolkit/internal/awslog"
	"github.com/nicetoolkit/nicetoolkit/internal/config"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/fileutil"
)

// awslogRun is the validated input of one extraction.
type awslogRun struct {
	Input     string   `validate:"required"`
	Output    string   // empty or "-" means stdout
	FieldPath []string `validate:"min=1,dive,required"`
}

// NewAWSLogCmd extracts message lines from a CloudWatch Logs JSON export.
// NewAWSLogCmd 从 CloudWatch Logs JSON 导出中提取消息行。
func NewAWSLogCmd() *cobra.Command {
	var (
		output     string
		filterExpr string
		stream     string
	)

	cmd := &cobra.Command{
		Use:   "awslog <input>",
		Short: "Extract log lines from a CloudWatch Logs JSON export",
		// Short: 从 CloudWatch Logs JSON 导出中提取日志行
		Long: `Extract the @message.log field of every record in a CloudWatch Logs JSON export
and write the lines as plain text. Malformed records are skipped with a warning.
Input may be gzip or zstd compressed.
提取 CloudWatch Logs JSON 导出中每条记录的 @message.log 字段并输出为纯文本，格式错误的记录会被跳过并给出警告。

Examples:
  awslog export.json
  awslog export.json.gz -o app-%Y%m%d.txt
  awslog export.json --stream 'web/*' --filter 'Line contains "ERROR"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run := awslogRun{
				Input:     args[0],
				Output:    output,
				FieldPath: configFrom(ctx).AWSLog.FieldPath,
			}
			if err := config.Validate(run); err != nil {
				return err
			}

			filter, err := awslog.NewFilter(filterExpr, stream)
			if err != nil {
				return err
			}

			raw, err := fileutil.ReadInput(run.Input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := awslog.Extract(ctx, raw, run.Input, awslog.Options{FieldPath: run.FieldPath, Filter: filter})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintln(out, w.String())
			}

			dest := ""
			if run.Output != "" && run.Output != fileutil.StdStream {
				if dest, err = awslog.ExpandPath(run.Output, clock()); err != nil {
					return err
				}
			}
			if err := awslog.WriteOutput(res.Text(), dest, out); err != nil {
				return err
			}
			if dest != "" {
				fmt.Fprintf(out, "Successfully wrote logs to %s\n", dest)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (strftime placeholders allowed); stdout when omitted")
	cmd.Flags().StringVar(&filterExpr, "filter", "", "Keep records for which this expression is true (fields: Line, Stream, Group, Index)")
	cmd.Flags().StringVar(&stream, "stream", "", "Keep records whose @logStream matches this glob")
	return cmd
}
