// Package resolver turns a dotted attribute path such as "op.index.a" into a
// debugger expression that casts every intermediate handle to its recovered
// dynamic type:
//
//	((tvm::tir::VarNode*)((tvm::tir::LoadNode*)op).index).a
//
// Resolution is a left fold. Each hop recovers the type of the expression
// built so far, so a failure at any hop aborts the whole path.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

var (
	// ErrPathTooShort is returned when a chain has no attribute after the root.
	ErrPathTooShort = errors.New("path needs an object and at least one attribute")
	// ErrEmptyToken is returned for paths such as "op..index" or ".index".
	ErrEmptyToken = errors.New("path contains an empty name")
)

// Path is a root handle expression followed by attribute names.
type Path struct {
	Root  string
	Attrs []string
}

// ParsePath splits raw on '.', trimming whitespace around each token.
func ParsePath(raw string) (Path, error) {
	tokens := strings.Split(strings.TrimSpace(raw), ".")
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
		if tokens[i] == "" {
			return Path{}, fmt.Errorf("%w: %q", ErrEmptyToken, raw)
		}
	}
	return Path{Root: tokens[0], Attrs: tokens[1:]}, nil
}

// Len returns the number of tokens including the root.
func (p Path) Len() int {
	return 1 + len(p.Attrs)
}

// String joins the path back into dotted form.
func (p Path) String() string {
	return strings.Join(append([]string{p.Root}, p.Attrs...), ".")
}

// Parent returns the path without its last attribute.
func (p Path) Parent() Path {
	if len(p.Attrs) == 0 {
		return p
	}
	return Path{Root: p.Root, Attrs: p.Attrs[:len(p.Attrs)-1]}
}

// Hop is one step of a resolution.
type Hop struct {
	// Input is the expression whose type was recovered.
	Input string
	// Type is the recovered type used in the cast.
	Type string
	// Attr is the attribute projected from the cast.
	Attr string
}

// Access is a fully resolved attribute path.
type Access struct {
	Path Path
	Hops []Hop
	// Expr is the final access expression.
	Expr string
}

// Cast builds the expression projecting attr out of expr viewed as typeName.
func Cast(typeName, expr, attr string) string {
	return "((" + typeName + "*)" + expr + ")." + attr
}

// Resolve folds path into an access expression. It needs at least one
// attribute and returns no partial result when a hop fails.
func Resolve(ctx context.Context, oracle typeoracle.Oracle, path Path) (Access, error) {
	if len(path.Attrs) == 0 {
		return Access{}, ErrPathTooShort
	}

	current := path.Root
	hops := make([]Hop, 0, len(path.Attrs))
	for i, attr := range path.Attrs {
		// Recovered per hop: every hop denotes a different runtime value.
		typ, err := typeoracle.First(ctx, oracle, current)
		if err != nil {
			return Access{}, fmt.Errorf("hop %d (%s): %w", i+1, attr, err)
		}
		hops = append(hops, Hop{Input: current, Type: typ, Attr: attr})
		current = Cast(typ, current, attr)
	}

	return Access{Path: path, Hops: hops, Expr: current}, nil
}

// Expression resolves path when it has attributes and returns the bare root
// otherwise. It serves type and field queries, which accept a lone handle.
func Expression(ctx context.Context, oracle typeoracle.Oracle, path Path) (string, error) {
	if len(path.Attrs) == 0 {
		return path.Root, nil
	}
	access, err := Resolve(ctx, oracle, path)
	if err != nil {
		return "", err
	}
	return access.Expr, nil
}
