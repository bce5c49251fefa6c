package calver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicetoolkit/nicetoolkit/internal/metrics"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

func newTestStore(t *testing.T, content *string, now time.Time) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "VERSION")
	if content != nil {
		require.NoError(t, os.WriteFile(path, []byte(*content), 0644))
	}
	return &Store{Path: path, Now: func() time.Time { return now }}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func strPtr(s string) *string { return &s }

// TestStoreBumpMissingFile tests initialising a missing VERSION file
// TestStoreBumpMissingFile 测试初始化不存在的 VERSION 文件
func TestStoreBumpMissingFile(t *testing.T) {
	s := newTestStore(t, nil, date(2024, time.March))

	res, err := s.Bump(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "2024.03.1", res.Version.String())
	assert.Equal(t, KindInitial, res.Kind)
	assert.Equal(t, "", res.Previous)
	assert.True(t, res.Written)
	assert.Equal(t, "2024.03.1\n", readFile(t, s.Path))
}

// TestStoreBumpIncrement tests incrementing an existing version
// TestStoreBumpIncrement 测试递增已有版本
func TestStoreBumpIncrement(t *testing.T) {
	s := newTestStore(t, strPtr("2024.03.4\n"), date(2024, time.March))
	rec := metrics.New()
	ctx := metrics.WithContext(context.Background(), rec)

	res, err := s.Bump(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "2024.03.4", res.Previous)
	assert.Equal(t, "2024.03.5\n", readFile(t, s.Path))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.VersionBumps.WithLabelValues("increment")))

	// A second invocation increments once more, never twice
	// 第二次调用只再递增一次
	_, err = s.Bump(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "2024.03.6\n", readFile(t, s.Path))
}

// TestStoreBumpEmptyFile tests that blank content counts as no prior version
// TestStoreBumpEmptyFile 测试空白内容视为无版本
func TestStoreBumpEmptyFile(t *testing.T) {
	s := newTestStore(t, strPtr("  \n"), date(2024, time.July))

	res, err := s.Bump(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, KindInitial, res.Kind)
	assert.Equal(t, "2024.07.1\n", readFile(t, s.Path))
}

// TestStoreBumpReset tests the clock moving backwards still resets
// TestStoreBumpReset 测试时钟回拨时仍然重置
func TestStoreBumpReset(t *testing.T) {
	s := newTestStore(t, strPtr("2024.08.3"), date(2024, time.July))

	res, err := s.Bump(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, KindReset, res.Kind)
	assert.Equal(t, "2024.07.1\n", readFile(t, s.Path))
}

// TestStoreBumpInvalid tests that a malformed file is reported and left untouched
// TestStoreBumpInvalid 测试格式错误的文件返回错误且不被修改
func TestStoreBumpInvalid(t *testing.T) {
	for _, content := range []string{"abc", "2024.13", "24.1.1"} {
		t.Run(content, func(t *testing.T) {
			s := newTestStore(t, strPtr(content+"\n"), date(2024, time.May))

			res, err := s.Bump(context.Background(), false)
			require.Error(t, err)
			assert.Nil(t, res)

			var fe *tkerrors.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, content, fe.Value)
			assert.Equal(t, content+"\n", readFile(t, s.Path))
		})
	}
}

// TestStoreBumpDryRun tests that dry runs do not write
// TestStoreBumpDryRun 测试 dry run 不写入文件
func TestStoreBumpDryRun(t *testing.T) {
	s := newTestStore(t, strPtr("2024.03.4"), date(2024, time.March))

	res, err := s.Bump(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "2024.03.5", res.Version.String())
	assert.False(t, res.Written)
	assert.Equal(t, "2024.03.4", readFile(t, s.Path))
}

// TestStoreReadError tests that an unreadable path is an IOError
// TestStoreReadError 测试无法读取的路径返回 IOError
func TestStoreReadError(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Path: dir, Now: time.Now}

	_, err := s.Bump(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tkerrors.ErrIO))
}

// TestNewStore tests the wall clock default
// TestNewStore 测试默认使用系统时钟
func TestNewStore(t *testing.T) {
	s := NewStore("VERSION")
	assert.Equal(t, "VERSION", s.Path)
	assert.WithinDuration(t, time.Now(), s.Now(), time.Minute)
}
