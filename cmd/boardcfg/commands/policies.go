package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/policy"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

func newPoliciesCommand() *cobra.Command {
	var paths []string

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List lint policies",
		Example: `  boardcfg policies
  boardcfg policies --policy ./policies`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newPolicyEngine(cmd.Context(), paths, nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSEVERITY\tSOURCE\tDESCRIPTION")
			for _, p := range eng.ListPolicies() {
				src := p.Source
				if p.Builtin {
					src = "builtin"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Severity, src, p.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&paths, "policy", nil, "Rego policy file or directory")

	return cmd
}

// newPolicyEngine builds an engine with the built-in policies, the policies
// under paths, and the skipped ones disabled.
func newPolicyEngine(ctx context.Context, paths, skip []string) (*policy.Engine, error) {
	logger := telemetry.FromContext(ctx).NewComponentLogger("lint").Zerolog()

	eng, err := policy.NewEngine(logger)
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		if err := eng.LoadPolicies(ctx, paths); err != nil {
			return nil, err
		}
	}
	for _, name := range skip {
		if err := eng.DisablePolicy(name); err != nil {
			return nil, err
		}
	}
	return eng, nil
}
