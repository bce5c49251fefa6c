// Package awslog turns CloudWatch Logs JSON exports into plain text lines.
// Package awslog 将 CloudWatch Logs JSON 导出转换为纯文本行。
package awslog

import (
	"context"
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/nicetoolkit/nicetoolkit/internal/metrics"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/logger"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// DefaultFieldPath locates the message of a CloudWatch Insights export record.
// DefaultFieldPath 指向 CloudWatch Insights 导出记录中的消息字段。
var DefaultFieldPath = []string{"@message", "log"}

// RecordResult is the outcome of extracting one record: a line, or the reason it was skipped.
// RecordResult 是单条记录的提取结果：提取到的行，或被跳过的原因。
type RecordResult struct {
	Line   string
	Kept   bool
	Reason string
}

// Warning describes a malformed record that was skipped.
// Warning 描述一条被跳过的格式错误记录。
type Warning struct {
	Index  int
	Reason string
	Record string
}

func (w Warning) String() string {
	return "Warning: Skipping malformed log entry: " + w.Record
}

// Err returns the warning as an error wrapping ErrMalformedRecord.
// Err 以包装 ErrMalformedRecord 的错误形式返回该警告。
func (w Warning) Err() error {
	return fmt.Errorf("%w: record %d: %s", tkerrors.ErrMalformedRecord, w.Index, w.Reason)
}

// Options controls extraction.
// Options 控制提取行为。
type Options struct {
	FieldPath []string
	Filter    *Filter
}

// Result holds the kept lines in input order plus the warnings for skipped records.
// Result 按输入顺序保存提取到的行，以及被跳过记录的警告。
type Result struct {
	Lines    []string
	Warnings []Warning
	Filtered int
}

// Text joins the lines with newlines, without a trailing separator.
// Text 用换行符连接各行，末尾不追加分隔符。
func (r *Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Parse parses raw as a JSON document.
// Parse 将 raw 解析为 JSON 文档。
func Parse(raw []byte, source string) (*fastjson.Value, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return nil, tkerrors.NewParseError("JSON", source, err)
	}
	return v, nil
}

// ExtractRecord reads the string at path inside record.
// ExtractRecord 读取 record 中 path 指向的字符串。
func ExtractRecord(record *fastjson.Value, path []string) RecordResult {
	cur := record
	for i, key := range path {
		if cur.Type() != fastjson.TypeObject {
			if i == 0 {
				return RecordResult{Reason: "record is not an object"}
			}
			return RecordResult{Reason: fmt.Sprintf("%q is not an object", path[i-1])}
		}
		next := cur.Get(key)
		if next == nil {
			return RecordResult{Reason: fmt.Sprintf("missing key %q", key)}
		}
		cur = next
	}

	if cur.Type() != fastjson.TypeString {
		return RecordResult{Reason: fmt.Sprintf("%q is not a string", path[len(path)-1])}
	}
	sb, _ := cur.StringBytes()
	return RecordResult{Line: string(sb), Kept: true}
}

// Extract parses raw and collects the message of every record of the top-level array.
// Malformed records become warnings; a document that is not a JSON array is an error.
// Extract 解析 raw 并收集顶层数组中每条记录的消息。
// 格式错误的记录转为警告；顶层不是 JSON 数组时返回错误。
func Extract(ctx context.Context, raw []byte, source string, opts Options) (*Result, error) {
	log := logger.Get(ctx)
	rec := metrics.FromContext(ctx)

	path := opts.FieldPath
	if len(path) == 0 {
		path = DefaultFieldPath
	}

	doc, err := Parse(raw, source)
	if err != nil {
		return nil, err
	}
	if doc.Type() != fastjson.TypeArray {
		return nil, tkerrors.NewParseError("JSON", source, fmt.Errorf("%w (got %s)", tkerrors.ErrNotArray, doc.Type()))
	}

	records, _ := doc.Array()
	res := &Result{Lines: make([]string, 0, len(records))}

	for i, record := range records {
		rr := ExtractRecord(record, path)
		if !rr.Kept {
			w := Warning{Index: i, Reason: rr.Reason, Record: record.String()}
			res.Warnings = append(res.Warnings, w)
			rec.Records.WithLabelValues("skipped").Inc()
			log.Debugf("[AWSLOG] %s: %v", source, w.Err())
			continue
		}

		if opts.Filter != nil {
			ok, err := opts.Filter.Match(envFor(record, rr.Line, i))
			if err != nil {
				res.Warnings = append(res.Warnings, Warning{Index: i, Reason: err.Error(), Record: record.String()})
				rec.Records.WithLabelValues("skipped").Inc()
				continue
			}
			if !ok {
				res.Filtered++
				rec.Records.WithLabelValues("filtered").Inc()
				continue
			}
		}

		res.Lines = append(res.Lines, rr.Line)
		rec.Records.WithLabelValues("kept").Inc()
	}

	log.Debugf("[AWSLOG] %s: %d records, %d kept, %d skipped, %d filtered",
		source, len(records), len(res.Lines), len(res.Warnings), res.Filtered)
	return res, nil
}

func envFor(record *fastjson.Value, line string, index int) FilterEnv {
	return FilterEnv{
		Line:   line,
		Stream: string(record.GetStringBytes("@logStream")),
		Group:  string(record.GetStringBytes("@log")),
		Index:  index,
	}
}
