package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicetoolkit/nicetoolkit/internal/config"
	"github.com/nicetoolkit/nicetoolkit/internal/metrics"
	"github.com/nicetoolkit/nicetoolkit/internal/runtime"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/logger"
)

type contextKey string

const configKey = contextKey("config")

// clock is the time source for version bumps and dated output paths.
var clock = time.Now

// NewRootCmd builds the nicetoolkit command with every tool registered.
// NewRootCmd 构建注册了全部工具的 nicetoolkit 命令。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nicetoolkit",
		Short: "Small tools for versions, CloudWatch logs and XML files",
		// Short: 处理版本号、CloudWatch 日志与 XML 文件的小工具集
		Long: `nicetoolkit bundles three single-shot file tools:
  bump       rewrite the YYYY.MM.P calendar version in a VERSION file
  awslog     extract plain text lines from a CloudWatch Logs JSON export
  xmlformat  pretty-print or minimize an XML document
nicetoolkit 包含三个一次性文件工具：日历版本号递增、CloudWatch 日志提取、XML 格式化。`,
	}
	addPersistentFlags(root)

	root.AddCommand(NewBumpCmd())
	root.AddCommand(NewAWSLogCmd())
	root.AddCommand(NewXMLFormatCmd())
	root.AddCommand(NewVersionCmd())

	root.CompletionOptions.DisableDescriptions = true
	return root
}

// Standalone turns a tool command into the root of its own binary named name.
// Standalone 将工具命令转换为名为 name 的独立程序的根命令。
func Standalone(cmd *cobra.Command, name string) *cobra.Command {
	cmd.Use = strings.Replace(cmd.Use, cmd.Name(), name, 1)
	addPersistentFlags(cmd)
	return cmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Config file path
	// 配置文件路径
	cmd.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))
	cmd.PersistentFlags().BoolVarP(&runtime.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&runtime.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")

	cmd.PersistentPreRunE = setup
}

// setup loads the configuration, initializes logging and injects both into the context.
// setup 加载配置、初始化日志，并将两者注入 Context。
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runtime.ConfigPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	if runtime.Verbose {
		logCfg.Level = "debug"
	}
	logger.Init(logCfg)

	// Inject logger, metrics and config into context
	// 将 Logger、指标与配置注入 Context
	ctx := cmd.Context()
	ctx = logger.WithContext(ctx, logger.Get(nil))
	ctx = metrics.WithContext(ctx, metrics.FromContext(ctx))
	ctx = context.WithValue(ctx, configKey, cfg)
	cmd.SetContext(ctx)

	logger.Get(ctx).Debugf("[CLI] %s: config=%q args=%v", cmd.Name(), runtime.ConfigPath, args)
	return nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Execute runs cmd and returns the process exit status.
// Errors are printed as "Error: ..." on stderr and give status 1.
// Execute 运行 cmd 并返回进程退出码。
// 错误以 "Error: ..." 形式打印到 stderr，退出码为 1。
func Execute(cmd *cobra.Command) int {
	defer logger.Sync() // nolint:errcheck

	rec := metrics.New()
	ran, err := cmd.ExecuteContextC(metrics.WithContext(context.Background(), rec))

	code := 0
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		tool := cmd.Name()
		if ran != nil {
			tool = ran.Name()
		}
		rec.RunErrors.WithLabelValues(tool).Inc()
		code = 1
	}

	if runtime.MetricsFile != "" {
		if werr := rec.WriteTextfile(runtime.MetricsFile); werr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to write metrics to %s: %v\n", runtime.MetricsFile, werr)
		}
	}
	return code
}

// reportedError carries a user-facing message and keeps the cause for errors.Is.
type reportedError struct {
	msg string
	err error
}

func (e *reportedError) Error() string { return e.msg }

func (e *reportedError) Unwrap() error { return e.err }
