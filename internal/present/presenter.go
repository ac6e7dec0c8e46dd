// Package present prints resolved expressions: a best-effort type line, a
// rich dump through the configured dump function and a raw print fallback.
package present

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

// DefaultDumpFunction is TVM's debug printer.
const DefaultDumpFunction = "tvm::Dump"

// Outcome is the terminal state of Present.
type Outcome int

const (
	// OutcomeDumped means the dump function printed the value.
	OutcomeDumped Outcome = iota
	// OutcomeRawPrinted means the dump failed and a plain print succeeded.
	OutcomeRawPrinted
	// OutcomeFailed means both prints failed, or the dump failed for a reason
	// other than evaluation (timeout, closed session).
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDumped:
		return "dumped"
	case OutcomeRawPrinted:
		return "raw-printed"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Presenter writes human-readable results to an output stream.
type Presenter struct {
	eval     evaluator.Evaluator
	oracle   typeoracle.Oracle
	out      io.Writer
	dumpFunc string
	logger   zerolog.Logger

	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
	errorStyle lipgloss.Style
}

// New creates a presenter writing to out. Colors are only emitted when out
// is a terminal.
func New(eval evaluator.Evaluator, oracle typeoracle.Oracle, out io.Writer, dumpFunc string, logger zerolog.Logger) *Presenter {
	if dumpFunc == "" {
		dumpFunc = DefaultDumpFunction
	}
	r := lipgloss.NewRenderer(out)
	return &Presenter{
		eval:       eval,
		oracle:     oracle,
		out:        out,
		dumpFunc:   dumpFunc,
		logger:     logger.With().Str("component", "presenter").Logger(),
		labelStyle: r.NewStyle().Foreground(lipgloss.Color("241")),
		valueStyle: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		errorStyle: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// DumpCommand returns the debugger command dumping expr.
func (p *Presenter) DumpCommand(expr string) string {
	return "print " + p.dumpFunc + "(" + expr + ")"
}

// RawCommand returns the debugger command printing expr as is.
func (p *Presenter) RawCommand(expr string) string {
	return "print " + expr
}

// Dump invokes the dump function on expr.
func (p *Presenter) Dump(ctx context.Context, expr string) error {
	return p.eval.Execute(ctx, p.DumpCommand(expr))
}

// Present prints the type of expr, then dumps it, falling back to exactly one
// raw print when gdb fails to evaluate the dump.
func (p *Presenter) Present(ctx context.Context, expr string) Outcome {
	if typ, err := typeoracle.First(ctx, p.oracle, expr); err != nil {
		p.logger.Debug().Err(err).Str("expr", expr).Msg("Final type unavailable")
	} else {
		p.Line("Type of final object", typ)
	}

	dumpErr := p.Dump(ctx, expr)
	if dumpErr == nil {
		return OutcomeDumped
	}
	// Only a dump gdb rejected is retried. After a timeout gdb is still busy
	// with the dump and a second print would queue behind it.
	if !errors.Is(dumpErr, evaluator.ErrEvaluation) {
		p.Error(dumpErr)
		return OutcomeFailed
	}
	p.logger.Debug().Err(dumpErr).Str("expr", expr).Msg("Dump failed, printing raw value")

	if err := p.eval.Execute(ctx, p.RawCommand(expr)); err != nil {
		p.Error(err)
		return OutcomeFailed
	}
	return OutcomeRawPrinted
}

// Line prints "<label>: '<value>'".
func (p *Presenter) Line(label, value string) {
	p.printf("%s %s\n", p.labelStyle.Render(label+":"), p.valueStyle.Render("'"+value+"'"))
}

// Access prints the resolved access expression.
func (p *Presenter) Access(expr string) {
	p.printf("%s %s\n", p.labelStyle.Render("access string"), p.valueStyle.Render("'"+expr+"'"))
}

// Writer returns the output stream.
func (p *Presenter) Writer() io.Writer {
	return p.out
}

// Text prints a plain line.
func (p *Presenter) Text(s string) {
	p.printf("%s\n", s)
}

// Error prints err as a diagnostic line.
func (p *Presenter) Error(err error) {
	p.printf("%s %v\n", p.errorStyle.Render("Error:"), err)
}

func (p *Presenter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to write output")
	}
}
