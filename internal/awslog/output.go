package awslog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/nicetoolkit/nicetoolkit/internal/utils/fileutil"
)

// ExpandPath replaces strftime placeholders such as %Y%m%d in an output path.
// ExpandPath 替换输出路径中的 strftime 占位符，例如 %Y%m%d。
func ExpandPath(pattern string, now time.Time) (string, error) {
	if !strings.Contains(pattern, "%") {
		return pattern, nil
	}
	path, err := strftime.Format(pattern, now)
	if err != nil {
		return "", fmt.Errorf("output path %q: %w", pattern, err)
	}
	return path, nil
}

// WriteOutput writes text to the file dest, or prints it to stdout when dest is empty.
// WriteOutput 将 text 写入文件 dest，dest 为空时输出到 stdout。
func WriteOutput(text, dest string, stdout io.Writer) error {
	if dest == "" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	return fileutil.AtomicWriteFile(dest, []byte(text), 0644)
}
