package normalize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ArithmeticNodes(t *testing.T) {
	table := Default()

	tests := []struct {
		in   string
		want string
	}{
		{"tvm::tir::AddNode", "tvm::tir::BinaryOpNode<tvm::tir::AddNode>"},
		{"tvm::tir::SubNode", "tvm::tir::BinaryOpNode<tvm::tir::SubNode>"},
		{"tvm::tir::MulNode", "tvm::tir::BinaryOpNode<tvm::tir::MulNode>"},
		{"tvm::tir::LoadNode", "tvm::tir::LoadNode"},
		{"tvm::runtime::Map<K,V>", "tvm::runtime::Map<K,V>"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := table.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, table.Normalize(got), "normalization must be idempotent")
		})
	}
	assert.Equal(t, 3, table.Len())
}

func TestRegister(t *testing.T) {
	table := New()

	require.NoError(t, table.Register("tvm::tir::DivNode", "tvm::tir::BinaryOpNode<tvm::tir::DivNode>"))
	require.NoError(t, table.Register("tvm::tir::DivNode", "tvm::tir::BinaryOpNode<tvm::tir::DivNode>"))
	require.NoError(t, table.Register("same", "same"))
	assert.Equal(t, 1, table.Len())

	assert.ErrorIs(t, table.Register("", "x"), ErrEmptyName)
	assert.ErrorIs(t, table.Register("x", ""), ErrEmptyName)
	assert.ErrorIs(t, table.Register("tvm::tir::DivNode", "other"), ErrConflictingSynonym)
	assert.ErrorIs(t, table.Register("alias", "tvm::tir::DivNode"), ErrChainedSynonym)
	assert.ErrorIs(t, table.Register("tvm::tir::BinaryOpNode<tvm::tir::DivNode>", "x"), ErrChainedSynonym)

	assert.Equal(t, []Entry{
		{From: "tvm::tir::DivNode", To: "tvm::tir::BinaryOpNode<tvm::tir::DivNode>"},
	}, table.Entries())
}

func TestBuilder(t *testing.T) {
	table, err := NewBuilder().
		Add("tvm::tir::ModNode", "tvm::tir::BinaryOpNode<tvm::tir::ModNode>").
		AddMap(map[string]string{
			"tvm::tir::MinNode": "tvm::tir::BinaryOpNode<tvm::tir::MinNode>",
			"tvm::tir::MaxNode": "tvm::tir::BinaryOpNode<tvm::tir::MaxNode>",
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 6, table.Len())
	assert.Equal(t, "tvm::tir::BinaryOpNode<tvm::tir::MaxNode>", table.Normalize("tvm::tir::MaxNode"))
	assert.Equal(t, "tvm::tir::BinaryOpNode<tvm::tir::AddNode>", table.Normalize("tvm::tir::AddNode"))
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, err := NewBuilder().
		Add("tvm::tir::AddNode", "somewhere-else").
		Add("", "x").
		Build()
	assert.ErrorIs(t, err, ErrConflictingSynonym)
}

func TestTable_Concurrent(t *testing.T) {
	table := Default()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = table.Register("tvm::tir::FloorDivNode", "tvm::tir::BinaryOpNode<tvm::tir::FloorDivNode>")
			_ = table.Normalize("tvm::tir::AddNode")
			_ = table.Entries()
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, table.Len())
}
