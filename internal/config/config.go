package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nicetoolkit/nicetoolkit/internal/utils/logger"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// DefaultConfigPath is looked up in the working directory when --config is not given.
// DefaultConfigPath 是未指定 --config 时在工作目录中查找的配置文件。
const DefaultConfigPath = ".nicetoolkit.yaml"

// Config is the toolkit configuration file.
// Config 是工具集配置文件。
type Config struct {
	Logging   logger.LoggingConfig `yaml:"logging"`
	Bump      BumpConfig           `yaml:"bump"`
	AWSLog    AWSLogConfig         `yaml:"awslog"`
	XMLFormat XMLFormatConfig      `yaml:"xmlformat"`
}

// BumpConfig configures the calendar version bumper.
// BumpConfig 配置日历版本号递增工具。
type BumpConfig struct {
	VersionFile string `yaml:"version_file" validate:"required"`
}

// AWSLogConfig configures the CloudWatch log extractor.
// AWSLogConfig 配置 CloudWatch 日志提取工具。
type AWSLogConfig struct {
	// FieldPath is the key path of the message inside each record.
	// FieldPath 是每条记录中消息字段的键路径。
	FieldPath []string `yaml:"field_path" validate:"min=1,dive,required"`
}

// XMLFormatConfig configures the XML formatter.
// XMLFormatConfig 配置 XML 格式化工具。
type XMLFormatConfig struct {
	Indent int `yaml:"indent" validate:"gte=0,lte=8"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator.
// Validator 返回共享的结构体校验器。
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report YAML names in validation errors
		// 校验错误中使用 YAML 字段名
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks a struct against its validate tags and folds failures into ErrConfigInvalid.
// Validate 按 validate 标签校验结构体，失败时包装为 ErrConfigInvalid。
func Validate(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		field := strings.TrimPrefix(first.Namespace(), reflectTypeName(v)+".")
		return tkerrors.NewConfigError(field, first.Value())
	}
	return fmt.Errorf("%w: %v", tkerrors.ErrConfigInvalid, err)
}

// Default returns the built-in configuration.
// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		Logging: logger.LoggingConfig{
			Enabled:    false,
			Level:      "warn",
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			MaxAge:     30, // 30 days
			Compress:   true,
		},
		Bump: BumpConfig{
			VersionFile: "VERSION",
		},
		AWSLog: AWSLogConfig{
			FieldPath: []string{"@message", "log"},
		},
		XMLFormat: XMLFormatConfig{
			Indent: 2,
		},
	}
}

// Load reads the configuration from path on top of the defaults.
// When path is empty the default file is used if present; an explicit path must exist.
// Load 在默认值之上读取 path 指定的配置。
// path 为空时若默认文件存在则使用；显式指定的路径必须存在。
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := Default()
	safePath := filepath.Clean(path)   // Sanitize path to prevent directory traversal
	data, err := os.ReadFile(safePath) // #nosec G304 // path comes from the --config flag
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, tkerrors.NewIOError("read", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", tkerrors.ErrConfigInvalid, path, err)
	}

	// Validate configuration / 验证配置
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func reflectTypeName(v interface{}) string {
	return reflect.Indirect(reflect.ValueOf(v)).Type().Name()
}
