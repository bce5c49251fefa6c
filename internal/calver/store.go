package calver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicetoolkit/nicetoolkit/internal/metrics"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/fileutil"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/logger"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// Store reads and rewrites the version file.
// Store 读取并重写版本文件。
type Store struct {
	Path string
	Now  func() time.Time
}

// Result is the outcome of a bump.
// Result 是一次递增的结果。
type Result struct {
	Previous string // trimmed prior content, empty if there was none
	Version  Version
	Kind     Kind
	Written  bool
}

// NewStore returns a Store for path using the wall clock.
// NewStore 返回使用系统时钟、指向 path 的 Store。
func NewStore(path string) *Store {
	return &Store{Path: path, Now: time.Now}
}

// Read returns the trimmed file content, or "" when the file does not exist.
// Read 返回去除首尾空白的文件内容，文件不存在时返回 ""。
func (s *Store) Read() (string, error) {
	data, err := os.ReadFile(filepath.Clean(s.Path)) // #nosec G304 // version file path is user supplied
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", tkerrors.NewIOError("read", s.Path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Bump computes the next version and, unless dryRun is set, overwrites the file
// with it followed by a newline. Nothing is written when the current content is invalid.
// Bump 计算下一个版本号，非 dryRun 时用其（加换行）覆盖文件；当前内容无效时不写入。
func (s *Store) Bump(ctx context.Context, dryRun bool) (*Result, error) {
	log := logger.Get(ctx)

	current, err := s.Read()
	if err != nil {
		return nil, err
	}

	next, kind, err := Next(current, s.Now())
	if err != nil {
		return nil, err
	}

	if current != "" {
		prev, trailing, _ := Parse(current)
		if trailing {
			log.Debugf("[BUMP] Ignoring text after %s in %s: %q", prev, s.Path, current)
		}
		if next.Less(prev) {
			log.Warnf("[WARN]  New version %s sorts before %s; is the clock behind?", next, prev)
		}
	}

	res := &Result{Previous: current, Version: next, Kind: kind}
	metrics.FromContext(ctx).VersionBumps.WithLabelValues(string(kind)).Inc()

	if dryRun {
		log.Debugf("[BUMP] Dry run, %s not modified", s.Path)
		return res, nil
	}

	if err := fileutil.AtomicWriteFile(s.Path, []byte(next.String()+"\n"), 0644); err != nil {
		return nil, err
	}
	res.Written = true
	log.Debugf("[BUMP] %s: %q -> %s (%s)", s.Path, current, next, kind)
	return res, nil
}
