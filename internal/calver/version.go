// Package calver implements the YYYY.MM.P calendar version used by the bump tool.
// Package calver 实现 bump 工具使用的 YYYY.MM.P 日历版本号。
package calver

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"

	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// versionPattern is anchored at the start only: text after a valid prefix is ignored.
var versionPattern = regexp.MustCompile(`^(\d{4})\.(\d{2})\.(\d+)`)

// Kind describes how a new version was derived.
// Kind 描述新版本号的产生方式。
type Kind string

const (
	KindInitial   Kind = "initial"
	KindIncrement Kind = "increment"
	KindReset     Kind = "reset"
)

// Version is a calendar version token.
// Version 是一个日历版本号。
type Version struct {
	Year  int
	Month int
	Patch uint64
}

// String renders the token as YYYY.MM.P.
func (v Version) String() string {
	return fmt.Sprintf("%04d.%02d.%d", v.Year, v.Month, v.Patch)
}

// Less reports whether v sorts before o.
// Less 判断 v 是否排在 o 之前。
func (v Version) Less(o Version) bool {
	return v.semver().LessThan(o.semver())
}

func (v Version) semver() *semver.Version {
	return semver.New(uint64(v.Year), uint64(v.Month), v.Patch, "", "")
}

// Initial returns the first version of the month containing now.
// Initial 返回 now 所在月份的第一个版本号。
func Initial(now time.Time) Version {
	return Version{Year: now.Year(), Month: int(now.Month()), Patch: 1}
}

// Parse reads a version from the start of s. Trailing text after the
// YYYY.MM.P prefix is ignored; the returned bool reports whether any was present.
// Parse 从 s 开头解析版本号，YYYY.MM.P 之后的多余文本被忽略；返回的 bool 表示是否存在多余文本。
func Parse(s string) (Version, bool, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false, tkerrors.NewFormatError(s)
	}

	// Both are exactly 4 and 2 ASCII digits, so Atoi cannot fail
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	patch, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		// Year and month stay usable: a reset does not need the patch
		// 年月仍然可用：重置时不需要补丁号
		return Version{Year: year, Month: month}, false, tkerrors.NewPatchOverflowError(m[3])
	}

	return Version{Year: year, Month: month, Patch: patch}, len(m[0]) < len(s), nil
}

// Next computes the version that follows current at time now.
// An empty current means no prior version exists.
// Next 计算 current 在 now 时刻的下一个版本号，current 为空表示尚无版本。
func Next(current string, now time.Time) (Version, Kind, error) {
	if current == "" {
		return Initial(now), KindInitial, nil
	}

	prev, _, err := Parse(current)
	sameMonth := now.Year() == prev.Year && int(now.Month()) == prev.Month
	switch {
	case err != nil && (!errors.Is(err, tkerrors.ErrPatchOverflow) || sameMonth):
		return Version{}, "", err
	case !sameMonth:
		return Initial(now), KindReset, nil
	}

	if prev.Patch == math.MaxUint64 {
		return Version{}, "", tkerrors.NewPatchOverflowError(strconv.FormatUint(prev.Patch, 10) + "+1")
	}
	prev.Patch++
	return prev, KindIncrement, nil
}
