// Package config implements the 'tvmdbg config' command family.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/config"
)

// LoadFunc resolves the effective configuration for a command, flags included.
type LoadFunc func(cmd *cobra.Command) (*config.Config, error)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(load LoadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tvmdbg configuration",
		Long: `Manage tvmdbg configuration.

Configuration Priority:
  1. Command-line flags (highest)
  2. TVMDBG_* environment variables
  3. Config file (~/.tvmdbg/config.yaml)

Environment Variables:
  TVMDBG_CONFIG  Override config directory (default: ~/.tvmdbg)`,
	}

	cmd.AddCommand(newViewCmd(load))
	cmd.AddCommand(newValidateCmd(load))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newPathCmd())

	return cmd
}

// newViewCmd creates the 'config view' command.
func newViewCmd(load LoadFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show merged configuration",
		Long: `Display the effective configuration after defaults, the config file,
environment variables and flags are merged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, viewFormats); err != nil {
				return err
			}
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runView(cmd.OutOrStdout(), cfg, format)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatYAML, viewFormats)

	return cmd
}

var viewFormats = []helpers.OutputFormat{helpers.FormatYAML, helpers.FormatJSON}

func runView(w io.Writer, cfg *config.Config, format string) error {
	return helpers.Write(w, format, cfg)
}

// newValidateCmd creates the 'config validate' command.
func newValidateCmd(load LoadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validate the merged configuration and report any errors.

Checks for:
- A non-empty gdb path and dump function
- A core dump and a pid given together
- Non-positive evaluation timeouts
- Synonyms with an empty side`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// load validates before returning.
			if _, err := load(cmd); err != nil {
				return err
			}
			cmd.Println("✓ Configuration is valid")
			return nil
		},
	}
}

// newInitCmd creates the 'config init' command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), config.NewLoader(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(w io.Writer, loader *config.Loader, force bool) error {
	path := loader.Path()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := loader.Save(config.Default()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "✓ Wrote %s\n", path)
	return nil
}

// newPathCmd creates the 'config path' command.
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(config.NewLoader().Path())
		},
	}
}
