// Package xmlfmt re-serializes XML documents in pretty or minimal form with an
// explicit UTF-8 declaration.
// Package xmlfmt 以美化或压缩形式重新序列化 XML 文档，并带有显式 UTF-8 声明。
package xmlfmt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/nicetoolkit/nicetoolkit/internal/metrics"
	"github.com/nicetoolkit/nicetoolkit/internal/utils/logger"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

// Mode selects the serialization style.
// Mode 选择序列化风格。
type Mode string

const (
	ModePretty  Mode = "pretty"
	ModeMinimal Mode = "minimal"
)

// Declaration is written at the top of every output document.
// Declaration 写在每个输出文档的开头。
const Declaration = `<?xml version="1.0" encoding="UTF-8"?>`

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Options controls a reshape run.
// Options 控制一次重排。
type Options struct {
	Mode   Mode   `validate:"oneof=pretty minimal"`
	Indent int    `validate:"gte=0,lte=8"`
	Source string // name used in parse errors, empty for streams
}

// Parse reads a document and drops insignificant whitespace-only text.
// The document must have exactly one root element and no text outside it.
// Parse 读取文档并丢弃无意义的纯空白文本。
// 文档必须只有一个根元素，且根元素之外没有文本。
func Parse(r io.Reader, source string) (*etree.Document, int64, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.PreserveCData = true

	n, err := doc.ReadFrom(r)
	if err != nil {
		return nil, n, tkerrors.NewParseError("XML", source, err)
	}

	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !isBlank(t.Data) {
				return nil, n, tkerrors.NewParseError("XML", source, errors.New("text outside the root element"))
			}
		}
	}
	switch {
	case roots == 0:
		return nil, n, tkerrors.NewParseError("XML", source, errors.New("no root element"))
	case roots > 1:
		return nil, n, tkerrors.NewParseError("XML", source, fmt.Errorf("%d root elements", roots))
	}

	if err := checkPrefixes(doc.Root(), map[string]bool{"xml": true}); err != nil {
		return nil, n, tkerrors.NewParseError("XML", source, err)
	}

	removeBlankText(doc.Root(), false)
	return doc, n, nil
}

// checkPrefixes rejects element and attribute prefixes that no enclosing
// xmlns:prefix declaration binds.
func checkPrefixes(e *etree.Element, scope map[string]bool) error {
	local, copied := scope, false
	for _, a := range e.Attr {
		if a.Space != "xmlns" {
			continue
		}
		if a.Value == "" {
			return fmt.Errorf("empty namespace for prefix %q", a.Key)
		}
		if !copied {
			local = make(map[string]bool, len(scope)+1)
			for k := range scope {
				local[k] = true
			}
			copied = true
		}
		local[a.Key] = true
	}

	if e.Space != "" && !local[e.Space] {
		return fmt.Errorf("undeclared namespace prefix %q on <%s:%s>", e.Space, e.Space, e.Tag)
	}
	for _, a := range e.Attr {
		if a.Space != "" && a.Space != "xmlns" && !local[a.Space] {
			return fmt.Errorf("undeclared namespace prefix %q on attribute %s:%s", a.Space, a.Space, a.Key)
		}
	}

	for _, c := range e.ChildElements() {
		if err := checkPrefixes(c, local); err != nil {
			return err
		}
	}
	return nil
}

// Reshape parses r and writes the reshaped document to w.
// Reshape 解析 r 并将重排后的文档写入 w。
func Reshape(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	log := logger.Get(ctx)
	rec := metrics.FromContext(ctx)

	doc, in, err := Parse(r, opts.Source)
	rec.XMLBytes.WithLabelValues("in").Add(float64(in))
	if err != nil {
		return err
	}

	switch opts.Mode {
	case ModeMinimal:
		minimize(doc.Root())
	default:
		indent(doc.Root(), 0, strings.Repeat(" ", opts.Indent), false)
	}
	normalizeProlog(doc, opts.Mode)

	out, err := doc.WriteTo(w)
	rec.XMLBytes.WithLabelValues("out").Add(float64(out))
	if err != nil {
		return tkerrors.NewIOError("write", "<output>", err)
	}

	log.Debugf("[XML] %s mode: %d bytes in, %d bytes out", opts.Mode, in, out)
	return nil
}

// removeBlankText drops whitespace-only text from elements whose content is made of
// child nodes. A lone whitespace text, mixed content and xml:space="preserve" are kept.
func removeBlankText(e *etree.Element, preserve bool) {
	preserve = spacePreserved(e, preserve)
	if !preserve && !hasMixedText(e) && hasChildNodes(e) {
		for i := len(e.Child) - 1; i >= 0; i-- {
			if cd, ok := e.Child[i].(*etree.CharData); ok && !cd.IsCData() && isBlank(cd.Data) {
				e.RemoveChildAt(i)
			}
		}
	}
	for _, c := range e.ChildElements() {
		removeBlankText(c, preserve)
	}
}

// minimize trims leading and trailing whitespace of every text run, xml:space
// included. Runs that become empty are removed.
func minimize(e *etree.Element) {
	trimRuns(e)
	for _, c := range e.ChildElements() {
		minimize(c)
	}
}

func trimRuns(e *etree.Element) {
	for i := 0; i < len(e.Child); {
		if _, ok := e.Child[i].(*etree.CharData); !ok {
			i++
			continue
		}
		j := i
		run := make([]*etree.CharData, 0, 1)
		for ; j < len(e.Child); j++ {
			cd, ok := e.Child[j].(*etree.CharData)
			if !ok {
				break
			}
			run = append(run, cd)
		}

		for _, cd := range run {
			if cd.IsCData() {
				break
			}
			cd.SetData(strings.TrimLeftFunc(cd.Data, unicode.IsSpace))
			if cd.Data != "" {
				break
			}
		}
		for k := len(run) - 1; k >= 0; k-- {
			cd := run[k]
			if cd.IsCData() {
				break
			}
			cd.SetData(strings.TrimRightFunc(cd.Data, unicode.IsSpace))
			if cd.Data != "" {
				break
			}
		}
		i = j
	}

	for i := len(e.Child) - 1; i >= 0; i-- {
		if cd, ok := e.Child[i].(*etree.CharData); ok && !cd.IsCData() && cd.Data == "" {
			e.RemoveChildAt(i)
		}
	}
}

// indent inserts newline and padding between the children of element-only content.
// Elements holding any text are left as they are, together with their subtree.
func indent(e *etree.Element, depth int, unit string, preserve bool) {
	preserve = spacePreserved(e, preserve)
	if preserve || len(e.Child) == 0 || hasText(e) {
		return
	}

	inner := "\n" + strings.Repeat(unit, depth+1)
	for i := len(e.Child) - 1; i >= 0; i-- {
		e.InsertChildAt(i, etree.NewText(inner))
	}
	e.AddChild(etree.NewText("\n" + strings.Repeat(unit, depth)))

	for _, c := range e.ChildElements() {
		indent(c, depth+1, unit, preserve)
	}
}

// normalizeProlog replaces any XML declaration with ours and puts every top-level
// node on its own line.
func normalizeProlog(doc *etree.Document, mode Mode) {
	kept := make([]etree.Token, 0, len(doc.Child))
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			continue
		case *etree.ProcInst:
			if t.Target == "xml" {
				continue
			}
		}
		kept = append(kept, tok)
	}
	for len(doc.Child) > 0 {
		doc.RemoveChildAt(len(doc.Child) - 1)
	}

	doc.AddChild(etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
	for _, tok := range kept {
		doc.AddChild(etree.NewText("\n"))
		doc.AddChild(tok)
	}
	if mode != ModeMinimal {
		doc.AddChild(etree.NewText("\n"))
	}
}

func spacePreserved(e *etree.Element, inherited bool) bool {
	for _, a := range e.Attr {
		if a.Key == "space" && (a.Space == "xml" || a.Space == xmlNamespace) {
			return a.Value == "preserve"
		}
	}
	return inherited
}

// hasMixedText reports text that carries content: non-blank data or a CDATA section.
func hasMixedText(e *etree.Element) bool {
	for _, tok := range e.Child {
		if cd, ok := tok.(*etree.CharData); ok && (cd.IsCData() || !isBlank(cd.Data)) {
			return true
		}
	}
	return false
}

func hasChildNodes(e *etree.Element) bool {
	for _, tok := range e.Child {
		if _, ok := tok.(*etree.CharData); !ok {
			return true
		}
	}
	return false
}

func hasText(e *etree.Element) bool {
	for _, tok := range e.Child {
		if _, ok := tok.(*etree.CharData); ok {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}
