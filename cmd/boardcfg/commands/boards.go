package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/pins"
)

func newBoardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards [NAME]",
		Short: "List supported boards or show one board's pins",
		Example: `  boardcfg boards
  boardcfg boards biquskr_1.4
  boardcfg boards --boards-file ./myboards.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, b := range reg.Boards() {
					fmt.Fprintf(tw, "%s\t%s\n", b.Name, b.Description)
				}
				return tw.Flush()
			}

			b, ok := reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown board %q", args[0])
			}
			return writeBoard(out, b)
		},
	}

	return cmd
}

func writeBoard(w io.Writer, b *boards.Board) error {
	fmt.Fprintf(w, "%s: %s\n\n", b.Name, b.Description)

	d := b.Defaults
	fmt.Fprintf(w, "stepper.enablePins    = %s\n", pinList(d.EnablePins[:]))
	fmt.Fprintf(w, "stepper.stepPins      = %s\n", pinList(d.StepPins[:]))
	fmt.Fprintf(w, "stepper.directionPins = %s\n", pinList(d.DirectionPins[:]))
	fmt.Fprintf(w, "stepper.digipotFactor = %.2f\n\n", d.DigipotFactor)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PIN\tCAPABILITY\tNAMES")
	for _, e := range b.Pins.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Pin, e.Capability, strings.Join(e.Names, ", "))
	}
	return tw.Flush()
}

func pinList(ps []pins.Pin) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = p.String()
	}
	return "{ " + strings.Join(s, " ") + " }"
}
