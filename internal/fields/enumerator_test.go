package fields

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tvmtools/tvmdbg/internal/normalize"
	"github.com/tvmtools/tvmdbg/internal/testutil"
	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

func newEnumerator(t *testing.T, eval *testutil.FakeEvaluator, synonyms *normalize.Table) *Enumerator {
	logger := testutil.NewTestLogger(t)
	return NewEnumerator(eval, typeoracle.NewDeleterOracle(eval, "", logger), synonyms, logger)
}

func TestFields_DeclarationOrder(t *testing.T) {
	eval := testutil.NewFakeEvaluator().
		WithObjectRef("op", "tvm::tir::LoadNode").
		WithFields("tvm::tir::LoadNode", "buffer_var", "index", "predicate")

	got := newEnumerator(t, eval, nil).Fields(context.Background(), "op")
	assert.Equal(t, []string{"buffer_var", "index", "predicate"}, got)
}

func TestFields_UsesNormalizedName(t *testing.T) {
	eval := testutil.NewFakeEvaluator().
		WithObjectRef("e", "tvm::tir::AddNode").
		WithFields("tvm::tir::AddNode").
		WithFields("tvm::tir::BinaryOpNode<tvm::tir::AddNode>", "a", "b")

	got := newEnumerator(t, eval, normalize.Default()).Fields(context.Background(), "e")
	assert.Equal(t, []string{"a", "b"}, got)

	calls := eval.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, testutil.Call{Method: testutil.MethodFields, Arg: "tvm::tir::BinaryOpNode<tvm::tir::AddNode>"}, last)
}

func TestFields_AccessExpression(t *testing.T) {
	access := "((tvm::tir::LoadNode*)op).index"
	eval := testutil.NewFakeEvaluator().
		WithObjectRef(access, "tvm::tir::VarNode").
		WithFields("tvm::tir::VarNode", "name_hint", "type_annotation")

	got := newEnumerator(t, eval, nil).Fields(context.Background(), access)
	assert.Equal(t, []string{"name_hint", "type_annotation"}, got)
}

func TestFields_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		eval *testutil.FakeEvaluator
	}{
		{
			name: "type recovery fails",
			eval: testutil.NewFakeEvaluator(),
		},
		{
			name: "type lookup fails",
			eval: testutil.NewFakeEvaluator().WithObjectRef("op", "tvm::tir::Unknown"),
		},
		{
			name: "type without fields",
			eval: testutil.NewFakeEvaluator().
				WithObjectRef("op", "tvm::tir::StringImmNode").
				WithFields("tvm::tir::StringImmNode"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newEnumerator(t, tt.eval, nil).Fields(context.Background(), "op")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}
