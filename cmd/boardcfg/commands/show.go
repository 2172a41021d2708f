package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
)

func newShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Load a board file and print the resulting settings",
		Long: `Load a board file and print every setting after both passes, followed by
the values derived from them. Issues are written to stderr.`,
		Example: `  # Print settings from ./board.txt
  boardcfg show

  # Machine-readable output
  boardcfg show --format json /media/sd/sys/board.txt

  # Read from a controller over SFTP
  boardcfg show --remote pi@printer:/sd/sys/board.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			loader, err := newLoader()
			if err != nil {
				return err
			}

			res, err := loader.Load(cmd.Context(), src)
			if herr := recordHistory(cmd.Context(), res); herr != nil {
				return herr
			}
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func writeResult(out, errOut io.Writer, res *lpcconfig.Result, format string) error {
	switch format {
	case "text":
		if err := res.Diagnostics(out); err != nil {
			return err
		}
		for _, issue := range res.Issues() {
			fmt.Fprintf(errOut, "%s: %s\n", res.Source, issue.Message)
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Summary())
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(res.Summary()); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format: %s (must be text, json or yaml)", format)
}
