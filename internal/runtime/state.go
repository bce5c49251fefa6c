package runtime

// ConfigPath stores the path to the configuration file provided via CLI flags.
// ConfigPath 存储通过 CLI 标志提供的配置文件路径。
var ConfigPath string

// Verbose forces debug level logging regardless of the configured level.
// Verbose 强制使用 debug 日志级别，忽略配置中的级别。
var Verbose bool

// MetricsFile is where run metrics are written after the command finishes; empty disables export.
// MetricsFile 是命令结束后写入运行指标的文件路径；为空时不导出。
var MetricsFile string

// Reset clears the flag-backed state. Used between command executions in tests.
// Reset 清除由标志设置的状态，测试中在多次执行命令之间使用。
func Reset() {
	ConfigPath = ""
	Verbose = false
	MetricsFile = ""
}
