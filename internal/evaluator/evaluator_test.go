package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "single expression",
			raw:  "op",
			want: []string{"op"},
		},
		{
			name: "multiple expressions",
			raw:  "op  stmt\tfunc",
			want: []string{"op", "stmt", "func"},
		},
		{
			name: "quoted expression keeps spaces",
			raw:  `"op->body" 'a + b'`,
			want: []string{"op->body", "a + b"},
		},
		{
			name: "empty input",
			raw:  "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	_, err := Tokenize(`"op`)
	assert.Error(t, err)
}

func TestErrorConstructors(t *testing.T) {
	err := EvaluationError("*op.deleter_", `No symbol "op" in current context.`)
	assert.True(t, errors.Is(err, ErrEvaluation))
	assert.Contains(t, err.Error(), "*op.deleter_")

	err = TypeLookupError("tvm::tir::Missing", nil)
	assert.True(t, errors.Is(err, ErrTypeLookup))
	assert.False(t, errors.Is(err, ErrEvaluation))

	err = TypeLookupError("tvm::tir::Missing", errors.New("no type named"))
	assert.Contains(t, err.Error(), "no type named")
}
