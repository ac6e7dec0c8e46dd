// Package typeoracle recovers the dynamic type hidden behind a TVM
// ObjectRef or Object handle.
//
// TVM allocates every object through a type-specific allocator handler and
// stores a pointer to that handler's Deleter_ in the object header. Once the
// value has been erased into an ObjectRef the demangled name of that deleter,
// as printed by the debugger, is the only remaining trace of the static type:
//
//	$1 = {void (tvm::runtime::Object *)} 0x55d0 <tvm::runtime::SimpleObjAllocator::Handler<tvm::tir::LoadNode>::Deleter_(tvm::runtime::Object*)>
//
// DeleterOracle extracts "tvm::tir::LoadNode" from such text. It is pattern
// matching over debug-symbol output, not a supported API, which is why callers
// depend on the Oracle interface only.
package typeoracle

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
)

// DefaultNamespace is the runtime namespace of TVM's allocator handlers.
const DefaultNamespace = "tvm::runtime::"

// ErrTypeRecovery is returned when no type could be extracted.
var ErrTypeRecovery = errors.New("could not extract type")

// Oracle recovers the dynamic type names of an erased handle expression.
type Oracle interface {
	Recover(ctx context.Context, expr string) ([]string, error)
}

// DeleterOracle recovers types from allocator deleter signatures.
type DeleterOracle struct {
	eval    evaluator.Evaluator
	pattern *regexp.Regexp
	logger  zerolog.Logger
}

var _ Oracle = (*DeleterOracle)(nil)

// NewDeleterOracle creates an oracle matching handlers under namespace
// (DefaultNamespace when empty).
func NewDeleterOracle(eval evaluator.Evaluator, namespace string, logger zerolog.Logger) *DeleterOracle {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &DeleterOracle{
		eval:    eval,
		pattern: DeleterPattern(namespace),
		logger:  logger.With().Str("component", "type_oracle").Logger(),
	}
}

// DeleterPattern builds the expression matching
// "<namespace>...Handler<TYPE>::Deleter_". TYPE is captured greedily so
// nested template arguments survive intact.
func DeleterPattern(namespace string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(namespace) + `.*Handler<(.*)>::Deleter_`)
}

// Recover reads the deleter of expr, first as an ObjectRef and then as a raw
// Object, and extracts the embedded type names. The result is never cached
// because the inspected process may change between calls.
func (o *DeleterOracle) Recover(ctx context.Context, expr string) ([]string, error) {
	text, err := o.eval.EvaluateToText(ctx, "*"+expr+".get().deleter_")
	if err != nil {
		if !errors.Is(err, evaluator.ErrEvaluation) {
			return nil, fmt.Errorf("%w: %v", ErrTypeRecovery, err)
		}
		o.logger.Debug().Err(err).Str("expr", expr).Msg("Not an ObjectRef, trying Object deleter")

		text, err = o.eval.EvaluateToText(ctx, "*"+expr+".deleter_")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTypeRecovery, expr, err)
		}
	}

	types, err := Extract(o.pattern, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, expr)
	}
	o.logger.Debug().Str("expr", expr).Strs("types", types).Msg("Recovered type")
	return types, nil
}

// Extract applies pattern to deleter text and returns the captured type names.
func Extract(pattern *regexp.Regexp, text string) ([]string, error) {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil, ErrTypeRecovery
	}
	types := make([]string, 0, len(m)-1)
	for _, t := range m[1:] {
		if t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return nil, ErrTypeRecovery
	}
	return types, nil
}

// First recovers expr and returns the first type name.
func First(ctx context.Context, oracle Oracle, expr string) (string, error) {
	types, err := oracle.Recover(ctx, expr)
	if err != nil {
		return "", err
	}
	if len(types) == 0 {
		return "", fmt.Errorf("%w: %s", ErrTypeRecovery, expr)
	}
	return types[0], nil
}
