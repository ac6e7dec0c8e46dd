package gdbmi

import (
	"errors"
	"strconv"
	"strings"
)

// RecordKind classifies one line of GDB/MI output.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordConsole            // ~"..." console stream
	RecordTarget             // @"..." target stream
	RecordLog                // &"..." gdb log stream
	RecordResult             // [token]^class[,results]
	RecordAsync              // [token]*, + or = async notifications
	RecordPrompt             // (gdb)
)

var errUnterminatedString = errors.New("unterminated c-string")

// Record is a parsed GDB/MI output line.
type Record struct {
	Kind  RecordKind
	Token string
	// Class is the result or async class, e.g. "done", "error", "stopped".
	Class string
	// Text holds the decoded payload of stream records.
	Text string
	// Results holds the raw ",name=value" tail of result and async records.
	Results string
	// Message is the decoded msg field of an ^error record.
	Message string
}

// ParseRecord parses a single line of GDB/MI output. Lines that do not follow
// the output grammar are returned as RecordUnknown with the raw line in Text.
func ParseRecord(line string) Record {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "(gdb)" {
		return Record{Kind: RecordPrompt}
	}
	if line == "" {
		return Record{Kind: RecordUnknown}
	}

	switch line[0] {
	case '~', '@', '&':
		text, _, err := parseCString(line[1:])
		if err != nil {
			text = line[1:]
		}
		kind := map[byte]RecordKind{'~': RecordConsole, '@': RecordTarget, '&': RecordLog}[line[0]]
		return Record{Kind: kind, Text: text}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i >= len(line) {
		return Record{Kind: RecordUnknown, Text: line}
	}
	token := line[:i]
	marker := line[i]
	rest := line[i+1:]

	class, results := rest, ""
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		class, results = rest[:comma], rest[comma+1:]
	}

	switch marker {
	case '^':
		rec := Record{Kind: RecordResult, Token: token, Class: class, Results: results}
		if class == "error" {
			rec.Message = resultString(results, "msg")
		}
		return rec
	case '*', '+', '=':
		return Record{Kind: RecordAsync, Token: token, Class: class, Results: results}
	}
	return Record{Kind: RecordUnknown, Text: line}
}

// resultString finds name="..." among top-level results and decodes it.
func resultString(results, name string) string {
	prefix := name + "=\""
	for start := 0; start < len(results); {
		idx := strings.Index(results[start:], prefix)
		if idx < 0 {
			return ""
		}
		idx += start
		if idx == 0 || results[idx-1] == ',' {
			value, _, err := parseCString(results[idx+len(name)+1:])
			if err != nil {
				return ""
			}
			return value
		}
		start = idx + len(prefix)
	}
	return ""
}

// parseCString decodes the C-style string literal at the start of s and
// returns the decoded value and the number of bytes consumed.
func parseCString(s string) (string, int, error) {
	if len(s) == 0 || s[0] != '"' {
		return "", 0, errUnterminatedString
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			i++
			if i >= len(s) {
				return "", 0, errUnterminatedString
			}
			switch e := s[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'v':
				b.WriteByte('\v')
			case 'a':
				b.WriteByte('\a')
			case 'e':
				b.WriteByte(0x1b)
			case '0', '1', '2', '3', '4', '5', '6', '7':
				j := i
				for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
					j++
				}
				v, _ := strconv.ParseUint(s[i:j], 8, 8)
				b.WriteByte(byte(v))
				i = j - 1
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errUnterminatedString
}

// quoteCString encodes s as a C-string suitable for an MI command argument.
func quoteCString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
