// Package commands implements the tvm_* inspection commands shared by the
// one-shot CLI and the interactive shell.
//
// Every command prints its results and diagnostics through the presenter and
// returns nothing: a malformed inspection request ends in a printed message,
// never in an error that would tear down the debugger session.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	tverrors "github.com/tvmtools/tvmdbg/internal/errors"
	"github.com/tvmtools/tvmdbg/internal/evaluator"
	"github.com/tvmtools/tvmdbg/internal/fields"
	"github.com/tvmtools/tvmdbg/internal/present"
	"github.com/tvmtools/tvmdbg/internal/resolver"
	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

// Command names.
const (
	Dump   = "tvm_dump"
	Type   = "tvm_type"
	Attr   = "tvm_attr"
	Fields = "tvm_fields"
)

// ErrUsage is printed for malformed command input.
var ErrUsage = errors.New("usage")

// Info describes one command for help output.
type Info struct {
	Name  string
	Usage string
	Short string
	Long  string
}

var infos = map[string]Info{
	Dump: {
		Name:  Dump,
		Usage: "tvm_dump <expr>...",
		Short: "Call tvm::Dump on each expression",
		Long:  `Call the dump function (tvm::Dump by default) on each argument for easy printing.`,
	},
	Type: {
		Name:  Type,
		Usage: "tvm_type <expr>...",
		Short: "Print the dynamic type stored behind each handle",
		Long: `Extract the original type of the object stored behind each argument.

The type is read from the allocator deleter, first as an ObjectRef
(<expr>.get().deleter_) and then as an Object (<expr>.deleter_).`,
	},
	Attr: {
		Name:  Attr,
		Usage: "tvm_attr <object>.<attr>[.<attr>...]",
		Short: "Access attributes through correctly cast handles",
		Long: `Access the attributes of an object by casting every intermediate handle to
its dynamic type, then dump the final value.

Example (op holds a LoadNode):
  tvm_attr op.index

  access string '((tvm::tir::LoadNode*)op).index'
  Type of final object: 'tvm::tir::AddNode'
  ((i*xsize) + k)`,
	},
	Fields: {
		Name:  Fields,
		Usage: "tvm_fields <object>[.<attr>...]...",
		Short: "List the fields of the object a path resolves to",
		Long:  `Print the declared fields of the object each path resolves to, in declaration order.`,
	},
}

// Describe returns help information for a command.
func Describe(name string) (Info, bool) {
	info, ok := infos[name]
	return info, ok
}

// Names returns the command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(infos))
	for name := range infos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set runs inspection commands against one debugger session.
type Set struct {
	eval   evaluator.Evaluator
	oracle typeoracle.Oracle
	fields *fields.Enumerator
	pres   *present.Presenter
	logger zerolog.Logger
}

// New creates a command set.
func New(eval evaluator.Evaluator, oracle typeoracle.Oracle, enum *fields.Enumerator, pres *present.Presenter, logger zerolog.Logger) *Set {
	return &Set{
		eval:   eval,
		oracle: oracle,
		fields: enum,
		pres:   pres,
		logger: logger.With().Str("component", "commands").Logger(),
	}
}

// Run dispatches name with its raw argument string. It reports whether name
// is a known command.
func (s *Set) Run(ctx context.Context, name, args string) bool {
	var run func(context.Context, string)
	switch name {
	case Dump:
		run = s.Dump
	case Type:
		run = s.Type
	case Attr:
		run = s.Attr
	case Fields:
		run = s.Fields
	default:
		return false
	}

	defer tverrors.DeferRecover(s.logger, s.pres.Writer(), name)
	s.logger.Debug().Str("command", name).Str("args", args).Msg("Running command")
	run(ctx, args)
	return true
}

// Dump calls the dump function on every argument.
func (s *Set) Dump(ctx context.Context, args string) {
	exprs, ok := s.tokenize(Dump, args)
	if !ok {
		return
	}
	for _, expr := range exprs {
		if err := s.pres.Dump(ctx, expr); err != nil {
			s.pres.Error(err)
		}
	}
}

// Type prints the recovered type names of every argument.
func (s *Set) Type(ctx context.Context, args string) {
	exprs, ok := s.tokenize(Type, args)
	if !ok {
		return
	}
	for _, expr := range exprs {
		types, err := s.oracle.Recover(ctx, expr)
		if err != nil {
			s.pres.Error(err)
			continue
		}
		for _, t := range types {
			s.pres.Text(t)
		}
	}
}

// Attr resolves a dotted path, prints the access expression and presents it.
func (s *Set) Attr(ctx context.Context, args string) {
	path, err := resolver.ParsePath(args)
	if err != nil || path.Len() < 2 {
		s.pres.Error(fmt.Errorf("%w: please pass an <object> and a list of attributes separated by '.', see 'help %s'", ErrUsage, Attr))
		return
	}

	access, err := resolver.Resolve(ctx, s.oracle, path)
	if err != nil {
		s.pres.Error(err)
		return
	}

	s.pres.Access(access.Expr)
	outcome := s.pres.Present(ctx, access.Expr)
	s.logger.Debug().Str("path", path.String()).Stringer("outcome", outcome).Msg("Attribute resolved")
}

// Fields prints the field list of every path argument.
func (s *Set) Fields(ctx context.Context, args string) {
	paths, ok := s.tokenize(Fields, args)
	if !ok {
		return
	}
	for _, raw := range paths {
		path, err := resolver.ParsePath(raw)
		if err != nil {
			s.pres.Error(fmt.Errorf("%w: %v", ErrUsage, err))
			continue
		}
		expr, err := resolver.Expression(ctx, s.oracle, path)
		if err != nil {
			s.pres.Error(err)
			continue
		}
		for _, f := range s.fields.Fields(ctx, expr) {
			s.pres.Text(f)
		}
	}
}

// Complete suggests attribute paths extending word, e.g. "op.in" ->
// "op.index". Words without a '.' get no suggestions.
func (s *Set) Complete(ctx context.Context, word string) []string {
	dot := strings.LastIndexByte(word, '.')
	if dot <= 0 {
		return nil
	}
	prefix, partial := word[:dot], word[dot+1:]

	path, err := resolver.ParsePath(prefix)
	if err != nil {
		return nil
	}
	expr, err := resolver.Expression(ctx, s.oracle, path)
	if err != nil {
		s.logger.Debug().Err(err).Str("word", word).Msg("No completion")
		return nil
	}

	var out []string
	for _, f := range s.fields.Fields(ctx, expr) {
		// Base class subobjects are listed as qualified type names.
		if strings.Contains(f, "::") || !strings.HasPrefix(f, partial) {
			continue
		}
		out = append(out, prefix+"."+f)
	}
	return out
}

func (s *Set) tokenize(name, args string) ([]string, bool) {
	tokens, err := s.eval.TokenizeArguments(args)
	if err != nil {
		s.pres.Error(fmt.Errorf("%w: %v", ErrUsage, err))
		return nil, false
	}
	if len(tokens) == 0 {
		info := infos[name]
		s.pres.Error(fmt.Errorf("%w: %s", ErrUsage, info.Usage))
		return nil, false
	}
	return tokens, true
}
