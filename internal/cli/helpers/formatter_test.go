package helpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type synonymRow struct {
	From  string `header:"RECOVERED" json:"from" yaml:"from"`
	To    string `header:"LOOKUP" json:"to" yaml:"to"`
	Extra string `json:"-" yaml:"-"`
}

var rows = []synonymRow{
	{From: "tvm::tir::AddNode", To: "tvm::tir::BinaryOpNode<tvm::tir::AddNode>"},
	{From: "tvm::tir::SubNode", To: "tvm::tir::BinaryOpNode<tvm::tir::SubNode>"},
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []OutputFormat{FormatTable, FormatJSON, FormatYAML} {
		f, err := NewFormatter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter(OutputFormat("csv"))
	assert.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(rows, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RECOVERED"))
	assert.Contains(t, lines[0], "LOOKUP")
	assert.NotContains(t, lines[0], "Extra")
	assert.Contains(t, lines[1], "tvm::tir::BinaryOpNode<tvm::tir::AddNode>")

	buf.Reset()
	require.NoError(t, (&TableFormatter{}).Format([]synonymRow{}, &buf))
	assert.Empty(t, buf.String())

	assert.Error(t, (&TableFormatter{}).Format(rows[0], &buf))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(rows[:1], &buf))
	assert.JSONEq(t, `[{"from":"tvm::tir::AddNode","to":"tvm::tir::BinaryOpNode<tvm::tir::AddNode>"}]`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(rows[:1], &buf))
	assert.YAMLEq(t, "- from: tvm::tir::AddNode\n  to: tvm::tir::BinaryOpNode<tvm::tir::AddNode>\n", buf.String())
}

func TestTableFormatter_StringSlices(t *testing.T) {
	type fieldsRow struct {
		Type   string   `header:"TYPE"`
		Fields []string `header:"FIELDS"`
	}

	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format([]fieldsRow{
		{Type: "tvm::tir::LoadNode", Fields: []string{"buffer_var", "index"}},
	}, &buf))
	assert.Contains(t, buf.String(), "buffer_var, index")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", rows[:1]))
	assert.Contains(t, buf.String(), `"from": "tvm::tir::AddNode"`)

	assert.Error(t, Write(&buf, "xml", rows))
}
