package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/boards"
)

func newResolveCommand() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "resolve TOKEN...",
		Short: "Resolve pin names for a board",
		Long: `Resolve pin names the way board.txt values are resolved: board aliases
first, then numeric literals such as 1.23, 1_23 or P1.23.`,
		Example: `  boardcfg resolve --board rearm d8 t0 P1.23`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			b, ok := reg.Lookup(board)
			if !ok {
				return fmt.Errorf("unknown board %q (see boardcfg boards)", board)
			}

			unresolved := 0
			for _, tok := range args {
				pin, ok := b.Resolve(tok)
				if !ok {
					unresolved++
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tNoPin\tnot found\n", tok)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tok, pin)
			}
			if unresolved > 0 {
				return fmt.Errorf("%d of %d token(s) not resolved on %s", unresolved, len(args), b.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&board, "board", "b", boards.GenericName, "board whose aliases are used")

	return cmd
}
