// Package normalize maps recovered type names to the names field lookup needs.
//
// Some leaf nodes declare no fields of their own: tvm::tir::AddNode only
// inherits a and b from BinaryOpNode<AddNode>. Looking up the leaf returns an
// incomplete field list, so such names are registered as synonyms of their
// template instantiation. The normalized name is only ever used for field
// lookup; casts keep the recovered name.
package normalize

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrEmptyName is returned when a synonym has an empty side.
	ErrEmptyName = errors.New("normalize: empty type name")
	// ErrConflictingSynonym is returned when a name is re-registered to a
	// different target.
	ErrConflictingSynonym = errors.New("normalize: conflicting synonym")
	// ErrChainedSynonym is returned when a registration would make
	// normalization non-idempotent.
	ErrChainedSynonym = errors.New("normalize: chained synonym")
)

// Entry is one registered synonym.
type Entry struct {
	From string
	To   string
}

// defaultSynonyms are the arithmetic nodes whose fields live on BinaryOpNode.
var defaultSynonyms = []Entry{
	{From: "tvm::tir::AddNode", To: "tvm::tir::BinaryOpNode<tvm::tir::AddNode>"},
	{From: "tvm::tir::SubNode", To: "tvm::tir::BinaryOpNode<tvm::tir::SubNode>"},
	{From: "tvm::tir::MulNode", To: "tvm::tir::BinaryOpNode<tvm::tir::MulNode>"},
}

// Table is a concurrency-safe synonym table.
type Table struct {
	mu sync.RWMutex
	m  map[string]string
}

// New returns an empty table.
func New() *Table {
	return &Table{m: make(map[string]string)}
}

// Default returns a table preloaded with the built-in synonyms.
func Default() *Table {
	t := New()
	for _, e := range defaultSynonyms {
		// Built-ins are consistent by construction.
		_ = t.Register(e.From, e.To)
	}
	return t
}

// Register maps from to to. Registering the same pair twice is a no-op.
func (t *Table) Register(from, to string) error {
	if from == "" || to == "" {
		return ErrEmptyName
	}
	if from == to {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.m[from]; ok {
		if old == to {
			return nil
		}
		return fmt.Errorf("%w: %s is already mapped to %s", ErrConflictingSynonym, from, old)
	}
	// Targets must be terminal and sources must not be targets, otherwise
	// Normalize(Normalize(x)) != Normalize(x).
	if _, ok := t.m[to]; ok {
		return fmt.Errorf("%w: %s is itself a synonym", ErrChainedSynonym, to)
	}
	for src, dst := range t.m {
		if dst == from {
			return fmt.Errorf("%w: %s is the target of %s", ErrChainedSynonym, from, src)
		}
	}

	t.m[from] = to
	return nil
}

// Normalize returns the registered synonym of name, or name itself.
func (t *Table) Normalize(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if to, ok := t.m[name]; ok {
		return to
	}
	return name
}

// Entries returns all synonyms sorted by source name.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]Entry, 0, len(t.m))
	for from, to := range t.m {
		entries = append(entries, Entry{From: from, To: to})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].From < entries[j].From })
	return entries
}

// Len returns the number of synonyms.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}

// Builder accumulates synonyms and reports the first registration error.
type Builder struct {
	table *Table
	err   error
}

// NewBuilder starts from the built-in synonyms.
func NewBuilder() *Builder {
	return &Builder{table: Default()}
}

// Add registers one synonym.
func (b *Builder) Add(from, to string) *Builder {
	if b.err == nil {
		b.err = b.table.Register(from, to)
	}
	return b
}

// AddMap registers every synonym in m in a stable order.
func (b *Builder) AddMap(m map[string]string) *Builder {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Add(k, m[k])
	}
	return b
}

// Build returns the table or the first registration error.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.table, nil
}
