package gdbmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{
			name: "prompt",
			line: "(gdb) ",
			want: Record{Kind: RecordPrompt},
		},
		{
			name: "console stream",
			line: `~"$1 = {void (tvm::runtime::Object *)} 0x7f <tvm::runtime::SimpleObjAllocator::Handler<tvm::tir::LoadNode>::Deleter_(tvm::runtime::Object*)>\n"`,
			want: Record{
				Kind: RecordConsole,
				Text: "$1 = {void (tvm::runtime::Object *)} 0x7f <tvm::runtime::SimpleObjAllocator::Handler<tvm::tir::LoadNode>::Deleter_(tvm::runtime::Object*)>\n",
			},
		},
		{
			name: "log stream",
			line: `&"print op\n"`,
			want: Record{Kind: RecordLog, Text: "print op\n"},
		},
		{
			name: "done with token",
			line: "12^done",
			want: Record{Kind: RecordResult, Token: "12", Class: "done"},
		},
		{
			name: "error with message",
			line: `7^error,msg="No symbol \"op\" in current context."`,
			want: Record{
				Kind:    RecordResult,
				Token:   "7",
				Class:   "error",
				Results: `msg="No symbol \"op\" in current context."`,
				Message: `No symbol "op" in current context.`,
			},
		},
		{
			name: "async notification",
			line: `=thread-group-added,id="i1"`,
			want: Record{Kind: RecordAsync, Class: "thread-group-added", Results: `id="i1"`},
		},
		{
			name: "garbage",
			line: "warning: no loadable sections",
			want: Record{Kind: RecordUnknown, Text: "warning: no loadable sections"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecord(tt.line))
		})
	}
}

func TestParseCString(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		consumed int
	}{
		{name: "plain", in: `"abc"`, want: "abc", consumed: 5},
		{name: "escapes", in: `"a\tb\n\"c\"\\"`, want: "a\tb\n\"c\"\\", consumed: 15},
		{name: "octal", in: `"\033[0m"`, want: "\x1b[0m", consumed: 9},
		{name: "gdb escape", in: `"\e"`, want: "\x1b", consumed: 4},
		{name: "trailing data", in: `"x",code="y"`, want: "x", consumed: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := parseCString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.consumed, n)
		})
	}

	_, _, err := parseCString(`"unterminated`)
	assert.ErrorIs(t, err, errUnterminatedString)
}

func TestQuoteCString(t *testing.T) {
	command := `print tvm::Dump(((tvm::tir::LoadNode*)op).index) // "x" \ y` + "\n"
	quoted := quoteCString(command)

	decoded, n, err := parseCString(quoted)
	require.NoError(t, err)
	assert.Equal(t, command, decoded)
	assert.Equal(t, len(quoted), n)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "boom", resultString(`code="undefined-command",msg="boom"`, "msg"))
	assert.Equal(t, "", resultString(`xmsg="nope"`, "msg"))
	assert.Equal(t, "", resultString(`id="i1"`, "msg"))
}

func TestStartConfig_Args(t *testing.T) {
	base := []string{"--interpreter=mi2", "--quiet", "--nx"}

	assert.Equal(t, base, StartConfig{}.Args())
	assert.Equal(t,
		append(append([]string{}, base...), "build/tvm_test", "--core=core.1234"),
		StartConfig{Binary: "build/tvm_test", Core: "core.1234", PID: 42}.Args())
	assert.Equal(t,
		append(append([]string{}, base...), "-p", "42"),
		StartConfig{PID: 42}.Args())
}
