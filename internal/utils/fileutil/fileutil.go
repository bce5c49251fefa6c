package fileutil

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mattn/go-isatty"

	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// StdStream is the path sentinel for standard input or standard output.
// StdStream 是表示标准输入或标准输出的路径标记。
const StdStream = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// AtomicWriteFile writes data to a temporary file and then renames it to the target file.
// A failed write leaves any existing target untouched.
// AtomicWriteFile 将数据写入临时文件，然后将其重命名为目标文件。
// 写入失败时，已存在的目标文件保持不变。
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename) // #nosec G703 // Safe: filepath.Dir cleans the path preventing traversal
	tmpFile, err := os.CreateTemp(dir, ".atomic-*.tmp")
	if err != nil {
		return tkerrors.NewIOError("write", filename, err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up if something fails

	fail := func(err error) error {
		tmpFile.Close()
		return tkerrors.NewIOError("write", filename, err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		return fail(err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fail(err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail(err)
	}
	if err := tmpFile.Close(); err != nil {
		return tkerrors.NewIOError("write", filename, err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil { // #nosec G703 // filename is validated by caller
		return tkerrors.NewIOError("write", filename, err)
	}
	return nil
}

// ReadInput reads the whole input named by path, or stdin when path is "-".
// gzip and zstd payloads are decompressed transparently.
// ReadInput 读取 path 指定的全部输入，path 为 "-" 时读取 stdin。
// gzip 与 zstd 数据会被透明解压。
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	rc, err := OpenInput(path, stdin)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, tkerrors.NewIOError("read", displayName(path), err)
	}
	return data, nil
}

// OpenInput opens path (or stdin for "-") and wraps it in a decompressor when the
// content starts with a gzip or zstd magic number.
// OpenInput 打开 path（"-" 表示 stdin），若内容以 gzip 或 zstd 魔数开头则包装解压器。
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	var src io.ReadCloser
	if path == StdStream {
		src = io.NopCloser(stdin)
	} else {
		f, err := os.Open(filepath.Clean(path)) // #nosec G304 // path is supplied by the user on purpose
		if err != nil {
			return nil, tkerrors.NewIOError("open", path, err)
		}
		src = f
	}

	rc, err := decompress(src)
	if err != nil {
		src.Close()
		return nil, tkerrors.NewIOError("decompress", displayName(path), err)
	}
	return rc, nil
}

func decompress(src io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(src)
	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []func() error{zr.Close, src.Close}}, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, src.Close}}, nil
	default:
		return &stackedCloser{Reader: br, closers: []func() error{src.Close}}, nil
	}
}

// stackedCloser closes the decompressor before the underlying file.
type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IsTerminal reports whether r is an interactive terminal.
// IsTerminal 判断 r 是否为交互式终端。
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func displayName(path string) string {
	if path == StdStream {
		return "<stdin>"
	}
	return path
}
