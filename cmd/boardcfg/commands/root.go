package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
	"github.com/openfroyo/boardcfg/pkg/source"
	"github.com/openfroyo/boardcfg/pkg/stores"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

// DefaultBoardFile is read when no file argument is given.
const DefaultBoardFile = "board.txt"

// passwordEnv holds the SSH password for --remote, if key auth is not used.
const passwordEnv = "BOARDCFG_SSH_PASSWORD"

// historyEnv sets the default --history database.
const historyEnv = "BOARDCFG_HISTORY"

var (
	// Global flags
	boardsFile      string
	remote          string
	identity        string
	knownHosts      string
	insecureHostKey bool
	features        []string
	logLevel        string
	logFormat       string
	metricsFile     string
	traceExporter   string
	traceEndpoint   string
	historyFile     string

	tel *telemetry.Telemetry
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boardcfg",
		Short: "Inspect and lint LPC board.txt configuration files",
		Long: `boardcfg loads a board.txt file the way LPC17xx controller firmware does at
startup and reports what it ends up with.

The file is read twice: first for lpc.board, which selects the pin alias
table, then for every other key. Malformed lines never stop the load; they
are listed with their line numbers.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := telemetry.DefaultConfig()
			cfg.ServiceVersion = version
			cfg.Logging.Level = logLevel
			cfg.Logging.Format = logFormat
			cfg.Tracing.Exporter = traceExporter
			cfg.Tracing.Endpoint = traceEndpoint
			cfg.Metrics.TextfilePath = metricsFile

			t, err := telemetry.NewTelemetry(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}
			tel = t
			cmd.SetContext(tel.WithContext(cmd.Context()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if tel == nil {
				return nil
			}
			return tel.Shutdown(context.Background())
		},
	}

	rootCmd.PersistentFlags().StringVar(&boardsFile, "boards-file", "", "YAML file with additional board definitions")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "read board.txt over SFTP from user@host[:port]:/path")
	rootCmd.PersistentFlags().StringVar(&identity, "identity", "", "SSH private key for --remote")
	rootCmd.PersistentFlags().StringVar(&knownHosts, "known-hosts", "", "known_hosts file for --remote")
	rootCmd.PersistentFlags().BoolVar(&insecureHostKey, "insecure-host-key", false, "accept any host key for --remote")
	rootCmd.PersistentFlags().StringSliceVar(&features, "features", []string{"lcd", "aux"}, "optional key groups: lcd, wifi, sbc, aux, aux2, all")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace-exporter", "none", "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint for --trace-exporter otlp")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history", os.Getenv(historyEnv), "SQLite database recording every load")

	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newBoardsCommand())
	rootCmd.AddCommand(newKeysCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newPoliciesCommand())

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// registry returns the built-in boards plus any from --boards-file.
func registry() (*boards.Registry, error) {
	reg := boards.Builtin()
	if boardsFile != "" {
		if err := reg.RegisterFile(boardsFile); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// newLoader builds a loader from the global flags.
func newLoader() (*lpcconfig.Loader, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}
	f, err := lpcconfig.ParseFeatures(features)
	if err != nil {
		return nil, err
	}
	return lpcconfig.NewLoader(
		lpcconfig.WithRegistry(reg),
		lpcconfig.WithFeatures(f),
		lpcconfig.WithTelemetry(tel),
	), nil
}

// openSource picks the configuration source: --remote, stdin for "-", or a
// local file.
func openSource(args []string, stdin io.Reader) (source.Opener, error) {
	if remote != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("a file argument cannot be combined with --remote")
		}
		cfg, err := source.ParseRemote(remote)
		if err != nil {
			return nil, err
		}
		if identity != "" {
			cfg.PrivateKeyPath = identity
		}
		if knownHosts != "" {
			cfg.KnownHostsPath = knownHosts
		}
		if insecureHostKey {
			cfg.StrictHostKeyChecking = false
		}
		if pw := os.Getenv(passwordEnv); pw != "" && identity == "" {
			cfg.AuthMethod = source.AuthMethodPassword
			cfg.Password = pw
		}
		return source.NewSFTPOpener(cfg)
	}

	path := DefaultBoardFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "-" {
		return source.Stdin(stdin)
	}
	return source.File(path), nil
}

// openHistory opens the --history database.
func openHistory(ctx context.Context) (*stores.SQLiteStore, error) {
	if historyFile == "" {
		return nil, fmt.Errorf("no history database (set --history or %s)", historyEnv)
	}
	return stores.Open(ctx, historyFile)
}

// recordHistory stores res when --history is set.
func recordHistory(ctx context.Context, res *lpcconfig.Result) error {
	if historyFile == "" || res == nil {
		return nil
	}
	store, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	load, issues, err := stores.FromResult(res)
	if err != nil {
		return err
	}
	if err := store.CreateLoad(ctx, load, issues); err != nil {
		return err
	}
	telemetry.FromContext(ctx).WithLoadID(load.ID).Debugf("Recorded load in %s", historyFile)
	return nil
}
