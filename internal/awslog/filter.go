package awslog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gobwas/glob"

	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// FilterEnv is the environment a filter expression is evaluated against.
// FilterEnv 是过滤表达式求值时的环境。
type FilterEnv struct {
	Line   string // extracted message
	Stream string // @logStream of the record
	Group  string // @log of the record
	Index  int    // position in the input array
}

// Filter selects records by log stream glob and/or an expr boolean expression.
// Filter 通过日志流 glob 和/或 expr 布尔表达式选择记录。
type Filter struct {
	expression string
	program    *vm.Program
	pattern    string
	stream     glob.Glob
}

// NewFilter compiles the expression and stream pattern. Both empty yields a nil filter.
// NewFilter 编译表达式与日志流模式，两者都为空时返回 nil。
func NewFilter(expression, streamPattern string) (*Filter, error) {
	if expression == "" && streamPattern == "" {
		return nil, nil
	}

	f := &Filter{expression: expression, pattern: streamPattern}
	if expression != "" {
		program, err := expr.Compile(expression, expr.Env(FilterEnv{}), expr.AsBool())
		if err != nil {
			return nil, tkerrors.NewFilterError(expression, err)
		}
		f.program = program
	}
	if streamPattern != "" {
		g, err := glob.Compile(streamPattern, '/')
		if err != nil {
			return nil, tkerrors.NewFilterError(streamPattern, err)
		}
		f.stream = g
	}
	return f, nil
}

// Match reports whether a record passes the filter.
// Match 判断记录是否通过过滤。
func (f *Filter) Match(env FilterEnv) (bool, error) {
	if f.stream != nil && (env.Stream == "" || !f.stream.Match(env.Stream)) {
		return false, nil
	}
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %v", f.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
