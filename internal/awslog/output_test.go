package awslog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpandPath tests strftime placeholders in output paths
// TestExpandPath 测试输出路径中的 strftime 占位符
func TestExpandPath(t *testing.T) {
	now := time.Date(2024, time.February, 9, 8, 7, 6, 0, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"out.txt", "out.txt"},
		{"app-%Y%m%d.txt", "app-20240209.txt"},
		{"logs/%Y/%m/app-%H%M.log", "logs/2024/02/app-0807.log"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := ExpandPath(tt.pattern, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestWriteOutputStdout tests printing with a single trailing newline
// TestWriteOutputStdout 测试输出到 stdout 时只追加一个换行
func TestWriteOutputStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput("a\nb", "", &buf))
	assert.Equal(t, "a\nb\n", buf.String())
}

// TestWriteOutputFile tests writing without a trailing newline
// TestWriteOutputFile 测试写入文件时不追加换行
func TestWriteOutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteOutput("a\nb", dest, nil))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(data))
}

// TestWriteOutputFileError tests an unwritable destination
// TestWriteOutputFileError 测试无法写入的目标
func TestWriteOutputFileError(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "out.txt")
	assert.Error(t, WriteOutput("a", dest, nil))
}
