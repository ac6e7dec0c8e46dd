package cli

import (
	"context"

	"github.com/spf13/cobra"

	cliconfig "github.com/tvmtools/tvmdbg/internal/cli/config"
	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/config"
	"github.com/tvmtools/tvmdbg/pkg/version"
)

// NewRootCmd builds the tvmdbg command tree.
func NewRootCmd() *cobra.Command {
	flags := &helpers.SessionFlags{}

	root := &cobra.Command{
		Use:   "tvmdbg",
		Short: "Inspect TVM objects in a live process or core dump through gdb",
		Long: `tvmdbg recovers the dynamic type of TVM ObjectRef and Object handles,
dumps them with tvm::Dump and walks attribute chains such as op.index.a,
casting every intermediate handle to its real type.

It drives gdb over its machine interface. Point it at a program and either
a core dump (--core) or a running process (--pid), select a frame with
--ex 'frame N', then run one command or open the interactive shell.

Configuration Priority:
  1. Command-line flags (highest)
  2. TVMDBG_* environment variables
  3. Config file (~/.tvmdbg/config.yaml, directory overridable with TVMDBG_CONFIG)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.Bind(root.PersistentFlags())
	flags.RegisterCompletions(root)

	for _, cmd := range newInspectCmds(flags) {
		root.AddCommand(cmd)
	}
	root.AddCommand(newShellCmd(flags))
	root.AddCommand(newSynonymsCmd(flags))
	root.AddCommand(cliconfig.NewConfigCmd(func(cmd *cobra.Command) (*config.Config, error) {
		return loadConfig(cmd, flags)
	}))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
