package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
	"github.com/openfroyo/boardcfg/pkg/policy"
	"github.com/openfroyo/boardcfg/pkg/source"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

// errRejected is returned by check --strict when lines were rejected.
var errRejected = errors.New("board file has rejected lines")

// errPolicy is returned by check --strict when a lint policy reports an
// error.
var errPolicy = errors.New("board file fails lint policies")

func newCheckCommand() *cobra.Command {
	var (
		strict   bool
		watch    bool
		lint     bool
		policies []string
		skip     []string
	)

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "List every issue in a board file",
		Long: `Load a board file and list every rejected or ignored line with its line
number and reason.

Unknown keys and unknown board names are reported but do not fail the check.
With --strict, any rejected line or token makes the command exit non-zero.

--lint also runs the built-in lint policies over the loaded settings, such
as pins assigned to two keys. --policy adds Rego policies from files or
directories and implies --lint. Under --strict an error-severity violation
fails the check too.`,
		Example: `  # Lint ./board.txt
  boardcfg check

  # Fail CI on rejected lines
  boardcfg check --strict sys/board.txt

  # Re-check on every save
  boardcfg check --watch sys/board.txt

  # Lint with the built-in and site policies
  boardcfg check --lint --policy ./policies sys/board.txt`,
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
			var eng *policy.Engine
			if lint || len(policies) > 0 {
				eng, err = newPolicyEngine(cmd.Context(), policies, skip)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			run := func() error {
				res, err := loader.Load(cmd.Context(), src)
				if herr := recordHistory(cmd.Context(), res); herr != nil {
					return herr
				}
				if err != nil {
					return err
				}
				writeCheck(out, res)
				if strict && res.HasRejections() {
					return errRejected
				}
				if eng == nil {
					return nil
				}
				lintResult, err := eng.Evaluate(cmd.Context(), res.Summary())
				if err != nil {
					return err
				}
				writeLint(out, res.Source, lintResult)
				if strict && lintResult.Failed() {
					return errPolicy
				}
				return nil
			}

			if !watch {
				return run()
			}

			file, ok := src.(*source.FileOpener)
			if !ok {
				return fmt.Errorf("--watch needs a local file")
			}
			logger := telemetry.FromContext(cmd.Context())
			report := func() {
				if err := run(); err != nil {
					fmt.Fprintf(out, "%s: %v\n", src, err)
				}
			}
			report()
			return source.Watch(cmd.Context(), file.Path, source.DefaultDebounce, logger.Zerolog(), report)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any line or token is rejected")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check whenever the file changes")
	cmd.Flags().BoolVar(&lint, "lint", false, "run the built-in lint policies")
	cmd.Flags().StringSliceVar(&policies, "policy", nil, "Rego policy file or directory (implies --lint)")
	cmd.Flags().StringSliceVar(&skip, "skip-policy", nil, "policy names to skip")

	return cmd
}

func writeCheck(w io.Writer, res *lpcconfig.Result) {
	issues := res.Issues()
	for _, issue := range issues {
		fmt.Fprintf(w, "%s: %s\n", res.Source, issue.Message)
	}
	if res.Fallback {
		fmt.Fprintf(w, "%s: unknown board, using %s\n", res.Source, res.Config.Board)
	}
	fmt.Fprintf(w, "%s: board %s, %d issue(s), %s\n", res.Source, res.Config.Board, len(issues), res.Status())
}

func writeLint(w io.Writer, src string, result *policy.Result) {
	for _, v := range result.Violations {
		if v.Key != "" {
			fmt.Fprintf(w, "%s: [%s] %s: %s: %s\n", src, v.Severity, v.Policy, v.Key, v.Message)
			continue
		}
		fmt.Fprintf(w, "%s: [%s] %s: %s\n", src, v.Severity, v.Policy, v.Message)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "%s: %s\n", src, e)
	}
	fmt.Fprintf(w, "%s: %d policy violation(s), %d error(s)\n", src, len(result.Violations), result.Count(policy.SeverityError))
}
