// Package evaluator defines the narrow contract tvmdbg uses to talk to the
// host debugger: expression evaluation, command execution, type field lookup
// and argument tokenization.
//
// Everything above this package (type recovery, path resolution, printing) is
// written against the Evaluator interface, so it can run against a live GDB
// session (see the gdbmi subpackage) or an in-memory fake in tests.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/shlex"
)

var (
	// ErrEvaluation is returned when the debugger cannot evaluate an
	// expression or command (bad syntax, null access, unknown symbol).
	ErrEvaluation = errors.New("evaluation failed")

	// ErrTypeLookup is returned when a type name cannot be resolved to
	// field metadata.
	ErrTypeLookup = errors.New("type lookup failed")
)

// Evaluator is the host debugger capability consumed by tvmdbg.
type Evaluator interface {
	// EvaluateToText evaluates expr in the current debuggee context and
	// returns its printed representation.
	EvaluateToText(ctx context.Context, expr string) (string, error)

	// Execute runs a debugger command for its side effects. Console output of
	// the command is written to the evaluator's output stream.
	Execute(ctx context.Context, command string) error

	// LookupFields returns the declared field names of typeName in
	// declaration order.
	LookupFields(ctx context.Context, typeName string) ([]string, error)

	// TokenizeArguments splits a raw argument string into shell-like tokens.
	TokenizeArguments(raw string) ([]string, error)
}

// EvaluationError builds an ErrEvaluation for expr carrying the debugger's message.
func EvaluationError(expr, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrEvaluation, expr, message)
}

// TypeLookupError builds an ErrTypeLookup for typeName.
func TypeLookupError(typeName string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrTypeLookup, typeName)
	}
	return fmt.Errorf("%w: %s: %v", ErrTypeLookup, typeName, cause)
}

// Tokenize splits raw the way the debugger's own argv splitter does: on
// whitespace, honoring single and double quotes and backslash escapes.
func Tokenize(raw string) ([]string, error) {
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize arguments %q: %w", raw, err)
	}
	return tokens, nil
}
