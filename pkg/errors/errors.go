package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrInvalidVersion  = errors.New("invalid version format")
	ErrPatchOverflow   = errors.New("patch number overflow")
	ErrInvalidJSON     = errors.New("invalid JSON")
	ErrInvalidXML      = errors.New("invalid XML")
	ErrNotArray        = errors.New("top-level JSON value is not an array")
	ErrMalformedRecord = errors.New("malformed log record")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrFileNotFound    = errors.New("file not found")
	ErrIO              = errors.New("I/O error")
	ErrConfigInvalid   = errors.New("invalid configuration")
)

// FormatError reports a version string that does not match YYYY.MM.P.
// FormatError 表示版本字符串不符合 YYYY.MM.P 格式。
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidVersion, e.Value)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidVersion
}

// ParseError reports a JSON or XML document that is not well-formed.
// ParseError 表示 JSON 或 XML 文档格式不正确。
type ParseError struct {
	Format string // "JSON" or "XML"
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("invalid %s format in '%s': %v", e.Format, e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the document format.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrInvalidJSON:
		return e.Format == "JSON"
	case ErrInvalidXML:
		return e.Format == "XML"
	}
	return false
}

// IOError reports a file that could not be opened, read or written.
// IOError 表示无法打开、读取或写入的文件。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("%s: '%s'", ErrFileNotFound, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is matches ErrIO for every IOError and ErrFileNotFound when the cause is a missing file.
func (e *IOError) Is(target error) bool {
	switch target {
	case ErrIO:
		return true
	case ErrFileNotFound:
		return errors.Is(e.Err, fs.ErrNotExist)
	}
	return false
}

func NewFormatError(value string) error {
	return &FormatError{Value: value}
}

func NewParseError(format, source string, err error) error {
	return &ParseError{Format: format, Source: source, Err: err}
}

func NewIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

func NewPatchOverflowError(patch string) error {
	return fmt.Errorf("%w: %s", ErrPatchOverflow, patch)
}

func NewFilterError(expression string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, expression, err)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
