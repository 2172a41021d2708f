package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/boardconfig"
	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
)

func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the keys board.txt accepts",
		Long: `List every recognised key with its value kind and, for arrays, how many
values it takes. Optional groups follow --features.`,
		Example: `  boardcfg keys
  boardcfg keys --features all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := lpcconfig.ParseFeatures(features)
			if err != nil {
				return err
			}

			cfg := lpcconfig.Defaults()
			tables := []*boardconfig.Table{lpcconfig.BoardTable(cfg), lpcconfig.Table(cfg, f)}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tKIND\tVALUES\tDEFAULT")
			for _, table := range tables {
				for _, e := range table.Entries() {
					values := "1"
					if e.IsArray() {
						values = fmt.Sprintf("up to %d", e.Capacity)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Kind, values, defaultValue(&e))
				}
			}
			return tw.Flush()
		},
	}

	return cmd
}

func defaultValue(e *boardconfig.Entry) string {
	return strings.Join(e.Values(), " ")
}
