// Package fields lists the declared fields of the object an expression
// refers to. It is used for interactive suggestions, so every failure
// degrades to an empty list.
package fields

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
	"github.com/tvmtools/tvmdbg/internal/normalize"
	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

// Enumerator combines type recovery, normalization and field lookup.
type Enumerator struct {
	eval     evaluator.Evaluator
	oracle   typeoracle.Oracle
	synonyms *normalize.Table
	logger   zerolog.Logger
}

// NewEnumerator creates an enumerator. A nil synonyms table uses the defaults.
func NewEnumerator(eval evaluator.Evaluator, oracle typeoracle.Oracle, synonyms *normalize.Table, logger zerolog.Logger) *Enumerator {
	if synonyms == nil {
		synonyms = normalize.Default()
	}
	return &Enumerator{
		eval:     eval,
		oracle:   oracle,
		synonyms: synonyms,
		logger:   logger.With().Str("component", "fields").Logger(),
	}
}

// Fields returns the declared fields of the dynamic type of expr in
// declaration order. The result is empty, never nil, when anything fails.
func (e *Enumerator) Fields(ctx context.Context, expr string) []string {
	typ, err := typeoracle.First(ctx, e.oracle, expr)
	if err != nil {
		e.logger.Debug().Err(err).Str("expr", expr).Msg("No type for field lookup")
		return []string{}
	}

	lookup := e.synonyms.Normalize(typ)
	fields, err := e.eval.LookupFields(ctx, lookup)
	if err != nil {
		e.logger.Debug().Err(err).Str("type", lookup).Msg("Field lookup failed")
		return []string{}
	}
	if fields == nil {
		return []string{}
	}
	return fields
}
