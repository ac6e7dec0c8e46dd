package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "", want: zerolog.WarnLevel},
		{name: "trace", want: zerolog.TraceLevel},
		{name: "debug", want: zerolog.DebugLevel},
		{name: " INFO ", want: zerolog.InfoLevel},
		{name: "warn", want: zerolog.WarnLevel},
		{name: "error", want: zerolog.ErrorLevel},
		{name: "off", want: zerolog.Disabled},
		{name: "verbose", want: zerolog.WarnLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown log level")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevels(t *testing.T) {
	levels := Levels()
	assert.Equal(t, "trace", levels[0])
	assert.Equal(t, "off", levels[len(levels)-1])
	for _, name := range levels {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
}

func TestNew_Filtering(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{level: "debug", visible: []string{"debug message", "warn message"}, hidden: []string{"trace message"}},
		{level: "warn", visible: []string{"warn message", "error message"}, hidden: []string{"debug message", "info message"}},
		{level: "bogus", visible: []string{"warn message"}, hidden: []string{"info message"}},
		{level: "off", hidden: []string{"trace message", "error message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")
			logger.Error().Msg("error message")

			for _, s := range tt.visible {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.hidden {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Pretty: true, Output: &buf})
	logger.Info().Str("expr", "op").Msg("evaluating")

	out := buf.String()
	assert.Contains(t, out, "evaluating")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "pretty output should not be JSON")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(New(Config{Level: "info", Output: &buf}), "gdbmi")
	logger.Info().Msg("started")

	assert.Contains(t, buf.String(), `"component":"gdbmi"`)
}
