package commands

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicetoolkit/nicetoolkit/internal/xmlfmt"
	tkerrors "github.com/nicetoolkit/nicetoolkit/pkg/errors"
)

const sampleXML = "<catalog>\n   <book id=\"1\">\n      <title>  Go  </title>\n   </book>\n</catalog>\n"

// TestXMLFormatCommandPretty tests file to file pretty printing.
// TestXMLFormatCommandPretty 测试文件到文件的美化输出。
func TestXMLFormatCommandPretty(t *testing.T) {
	setupWorkdir(t)
	writeFile(t, "in.xml", sampleXML)

	output, err := executeCommand(NewRootCmd(), "xmlformat", "in.xml", "out.xml")
	require.NoError(t, err)
	assert.Equal(t, "XML successfully processed and saved to out.xml\n", output)

	want := xmlfmt.Declaration + "\n<catalog>\n  <book id=\"1\">\n    <title>  Go  </title>\n  </book>\n</catalog>\n"
	assert.Equal(t, want, readFile(t, "out.xml"))
}

// TestXMLFormatCommandMinimize tests -m.
// TestXMLFormatCommandMinimize 测试 -m。
func TestXMLFormatCommandMinimize(t *testing.T) {
	setupWorkdir(t)
	writeFile(t, "in.xml", sampleXML)

	_, err := executeCommand(NewRootCmd(), "xmlformat", "-m", "in.xml", "out.xml")
	require.NoError(t, err)
	want := xmlfmt.Declaration + "\n<catalog><book id=\"1\"><title>Go</title></book></catalog>"
	assert.Equal(t, want, readFile(t, "out.xml"))
}

// TestXMLFormatCommandStreams tests stdin to stdout, which prints no confirmation.
// TestXMLFormatCommandStreams 测试 stdin 到 stdout，不打印确认信息。
func TestXMLFormatCommandStreams(t *testing.T) {
	setupWorkdir(t)
	writeFile(t, "in.xml", sampleXML)

	_, err := executeCommand(NewRootCmd(), "xmlformat", "--minimize", "in.xml", "file.xml")
	require.NoError(t, err)

	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(sampleXML))
	output, err := executeCommand(cmd, "xmlformat", "--minimize", "-", "-")
	require.NoError(t, err)
	assert.Equal(t, readFile(t, "file.xml"), output)
}

// TestXMLFormatCommandConfigIndent tests the indent from the config file.
// TestXMLFormatCommandConfigIndent 测试从配置文件读取缩进。
func TestXMLFormatCommandConfigIndent(t *testing.T) {
	setupWorkdir(t)
	writeFile(t, ".nicetoolkit.yaml", "xmlformat:\n  indent: 4\n")

	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader("<a><b/></a>"))
	output, err := executeCommand(cmd, "xmlformat", "-", "-")
	require.NoError(t, err)
	assert.Equal(t, xmlfmt.Declaration+"\n<a>\n    <b/>\n</a>\n", output)
}

// TestXMLFormatCommandErrors tests failures leave no output file.
// TestXMLFormatCommandErrors 测试失败时不留下输出文件。
func TestXMLFormatCommandErrors(t *testing.T) {
	setupWorkdir(t)
	writeFile(t, "bad.xml", "<a><b></a>")

	_, err := executeCommand(NewRootCmd(), "xmlformat", "bad.xml", "out.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tkerrors.ErrInvalidXML))
	_, statErr := os.Stat("out.xml")
	assert.True(t, os.IsNotExist(statErr))

	_, err = executeCommand(NewRootCmd(), "xmlformat", "nope.xml", "out.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tkerrors.ErrFileNotFound))

	_, err = executeCommand(NewRootCmd(), "xmlformat", "only-one-arg.xml")
	assert.Error(t, err)
}
