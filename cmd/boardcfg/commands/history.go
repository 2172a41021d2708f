package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit  int
		src    string
		status string
		prune  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history [LOAD_ID]",
		Short: "List recorded loads or show one load's issues",
		Long: `List loads recorded with --history, newest first. With a load ID, print
that load's issues.

--prune deletes loads older than the given age before listing.`,
		Example: `  boardcfg --history ~/.boardcfg.db check sys/board.txt
  boardcfg --history ~/.boardcfg.db history
  boardcfg --history ~/.boardcfg.db history --status degraded
  boardcfg --history ~/.boardcfg.db history --prune 720h`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				load, err := store.GetLoad(ctx, args[0])
				if err != nil {
					return err
				}
				issues, err := store.ListIssues(ctx, load.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s board %s, %s\n", load.CreatedAt.Format(time.RFC3339), load.Source, load.Board, load.Status)
				if load.Error != nil {
					fmt.Fprintf(out, "error: %s\n", *load.Error)
				}
				for _, issue := range issues {
					fmt.Fprintf(out, "%s\t%s\n", issue.Phase, issue.Message)
				}
				return nil
			}

			if prune > 0 {
				n, err := store.PruneLoads(ctx, time.Now().Add(-prune))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "pruned %d load(s)\n", n)
			}

			loads, err := store.ListLoads(ctx, stores.ListOptions{Source: src, Status: status, Limit: limit})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tSOURCE\tBOARD\tSTATUS\tISSUES")
			for _, l := range loads {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					l.ID, l.CreatedAt.Format(time.RFC3339), l.Source, l.Board, l.Status, l.IssueCount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of loads to list (0 for all)")
	cmd.Flags().StringVar(&src, "source", "", "only loads from this source")
	cmd.Flags().StringVar(&status, "status", "", "only loads with this status (ok, degraded, failed)")
	cmd.Flags().DurationVar(&prune, "prune", 0, "delete loads older than this age first")

	return cmd
}
