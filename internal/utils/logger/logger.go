package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var globalLogger *zap.SugaredLogger

// Init initializes the global logger based on configuration.
// Tool output owns stdout, so the console sink is stderr unless cfg.Output is set.
// Init 根据配置初始化全局日志记录器。
// 标准输出用于工具结果，因此控制台日志写入 stderr（除非设置了 cfg.Output）。
func Init(cfg LoggingConfig) {
	writeSyncer := zapcore.AddSync(os.Stderr)
	if cfg.Output != nil {
		writeSyncer = zapcore.AddSync(cfg.Output)
	}

	if cfg.Enabled && cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			// 如果无法创建目录，则继续输出到控制台
			zap.NewExample().Sugar().Warnf("[WARN]  Failed to create log directory: %v", err)
		} else {
			rotator := &lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			writeSyncer = zapcore.AddSync(rotator)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := ParseLevel(cfg.Level)

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core, zap.AddCaller())
	globalLogger = logger.Sugar()

	globalLogger.Debugf("[LOG] Logging initialized (Level: %s, Path: %s)", level, cfg.Path)
}

// ParseLevel maps a configured level name to a zap level. Unknown or empty names mean warn.
// ParseLevel 将配置的级别名称映射为 zap 级别，未知或为空时使用 warn。
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Sync flushes any buffered log entries.
// Sync 刷新所有缓存的日志条目。
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Get returns the logger from context or global logger
// Get 从 Context 或全局日志记录器返回 Logger。
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	if globalLogger == nil {
		// Not initialized: stay quiet rather than mixing into tool output
		// 未初始化：保持静默，避免混入工具输出
		return zap.NewNop().Sugar()
	}
	return globalLogger
}

// WithContext adds logger to context
// WithContext 将 Logger 添加到 Context。
func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}
