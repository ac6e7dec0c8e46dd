package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/commands"
)

// newInspectCmds creates one-shot commands for every tvm_* command.
func newInspectCmds(flags *helpers.SessionFlags) []*cobra.Command {
	var cmds []*cobra.Command
	for _, name := range commands.Names() {
		info, _ := commands.Describe(name)
		cmds = append(cmds, newInspectCmd(info, flags))
	}
	return cmds
}

func newInspectCmd(info commands.Info, flags *helpers.SessionFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     info.Usage,
		Aliases: []string{strings.TrimPrefix(info.Name, "tvm_")},
		Short:   info.Short,
		Long:    info.Long,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			e.set.Run(cmd.Context(), info.Name, joinArgs(info.Name, args))
			return nil
		},
	}

	if info.Name == commands.Attr || info.Name == commands.Fields {
		cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			directive := cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
			if !strings.Contains(toComplete, ".") {
				return nil, directive
			}
			e, err := openEngine(cmd.Context(), cmd, flags)
			if err != nil {
				cobra.CompDebugln(err.Error(), true)
				return nil, cobra.ShellCompDirectiveError
			}
			defer e.Close()
			return e.set.Complete(cmd.Context(), toComplete), directive
		}
	}
	return cmd
}

// joinArgs turns shell-split arguments back into the raw argument string the
// command set expects. Attribute paths are concatenated as typed; expressions
// are re-quoted so the tokenizer splits them the same way.
func joinArgs(name string, args []string) string {
	if name == commands.Attr {
		return strings.Join(args, "")
	}
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\#") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(arg) + `"`
}
