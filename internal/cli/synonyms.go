package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/normalize"
)

var synonymFormats = []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON, helpers.FormatYAML}

// synonymRow is one line of 'tvmdbg synonyms' output.
type synonymRow struct {
	Type   string `header:"TYPE" json:"type" yaml:"type"`
	Lookup string `header:"LOOKUP" json:"lookup" yaml:"lookup"`
}

func newSynonymsCmd(flags *helpers.SessionFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "synonyms",
		Short: "List type names substituted before field lookup",
		Long: `List the type synonyms applied before field lookup.

Some node types keep their fields on a shared template base, e.g. AddNode
on BinaryOpNode<AddNode>. The built-in table covers the arithmetic nodes;
more can be added under runtime.synonyms in the config file or with
TVMDBG_SYNONYMS='from=to;from=to'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, synonymFormats); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			table, err := normalize.NewBuilder().AddMap(cfg.Runtime.Synonyms).Build()
			if err != nil {
				return fmt.Errorf("invalid synonyms: %w", err)
			}
			return writeSynonyms(cmd.OutOrStdout(), table, format)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, synonymFormats)

	return cmd
}

func writeSynonyms(w io.Writer, table *normalize.Table, format string) error {
	entries := table.Entries()
	rows := make([]synonymRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, synonymRow{Type: e.From, Lookup: e.To})
	}
	return helpers.Write(w, format, rows)
}
