package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/commands"
	"github.com/tvmtools/tvmdbg/internal/config"
)

const shellPrompt = "tvm> "

// Shell built-ins besides the tvm_* commands.
const (
	builtinGDB  = "gdb"
	builtinHelp = "help"
	builtinExit = "exit"
	builtinQuit = "quit"
)

func newShellCmd(flags *helpers.SessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive inspection shell",
		Long: `Opens an interactive shell bound to one gdb session.

The shell accepts the tvm_* commands, with tab completion of attribute names
after a '.', plus:

  gdb <command>  - Run a raw gdb command (e.g. 'gdb frame 2', 'gdb bt')
  help [command] - Show help
  exit, quit     - Exit shell (or Ctrl+D)

Example:
  tvmdbg --binary build/tvm_test --core core.1234 --ex 'frame 3' shell
  tvm> tvm_type op
  tvm> tvm_attr op.index.a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			return runShell(cmd.Context(), e, cmd.OutOrStdout(), config.NewLoader().HistoryPath())
		},
	}
}

// shell dispatches input lines against an engine.
type shell struct {
	engine *engine
	out    io.Writer
}

// runShell runs the REPL until EOF or an exit command.
func runShell(ctx context.Context, e *engine, out io.Writer, historyFile string) error {
	sh := &shell{engine: e, out: out}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    &completer{ctx: ctx, shell: sh},
		InterruptPrompt: "^C",
		EOFPrompt:       builtinExit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	sh.printf("tvmdbg interactive shell. Type 'help' for commands, 'exit' to quit.\n\n")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				sh.printf("\n")
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		if !sh.handle(ctx, line) {
			return nil
		}
	}
}

// handle runs one input line and reports whether the shell should continue.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	name, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch name {
	case builtinExit, builtinQuit:
		return false
	case builtinHelp:
		s.help(args)
	case builtinGDB:
		if args == "" {
			s.printf("Error: usage: gdb <command>\n")
			return true
		}
		if err := s.engine.eval.Execute(ctx, args); err != nil {
			s.printf("Error: %v\n", err)
		}
	default:
		if !s.engine.set.Run(ctx, name, args) {
			s.printf("Error: unknown command %q (try 'help')\n", name)
		}
	}
	return true
}

func (s *shell) help(topic string) {
	if topic != "" {
		info, ok := commands.Describe(topic)
		if !ok {
			s.printf("Error: no help for %q\n", topic)
			return
		}
		s.printf("Usage: %s\n\n%s\n", info.Usage, info.Long)
		return
	}

	s.printf("Commands:\n")
	for _, name := range commands.Names() {
		info, _ := commands.Describe(name)
		s.printf("  %-38s - %s\n", info.Usage, info.Short)
	}
	s.printf("  %-38s - %s\n", "gdb <command>", "Run a raw gdb command")
	s.printf("  %-38s - %s\n", "help [command]", "Show help")
	s.printf("  %-38s - %s\n", "exit, quit", "Exit shell")
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// shellWords lists everything that can start a shell line.
func shellWords() []string {
	words := append(commands.Names(), builtinGDB, builtinHelp, builtinExit, builtinQuit)
	sort.Strings(words)
	return words
}

// completer implements readline.AutoCompleter. It completes command names at
// the start of the line and attribute paths after a '.' for tvm_attr and
// tvm_fields.
type completer struct {
	ctx   context.Context
	shell *shell
}

var _ readline.AutoCompleter = (*completer)(nil)

// Do returns suffixes to append to the word under the cursor and the length
// of that word.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	word := text
	if i := strings.LastIndexAny(text, " \t"); i >= 0 {
		word = text[i+1:]
	}

	var candidates []string
	switch fields := strings.Fields(text); {
	case len(fields) == 0 || (len(fields) == 1 && word != ""):
		for _, w := range shellWords() {
			if strings.HasPrefix(w, word) {
				candidates = append(candidates, w+" ")
			}
		}
	case fields[0] == commands.Attr || fields[0] == commands.Fields:
		candidates = c.shell.engine.set.Complete(c.ctx, word)
	case fields[0] == builtinHelp:
		for _, name := range commands.Names() {
			if strings.HasPrefix(name, word) {
				candidates = append(candidates, name)
			}
		}
	}

	n := len([]rune(word))
	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, []rune(cand)[n:])
	}
	return out, n
}
