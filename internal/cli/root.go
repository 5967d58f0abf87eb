// Package cli implements the opds-catalog command tree on top of the SQLite catalog engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opdskit/opds-catalog-go/catalog/collation"
	"github.com/opdskit/opds-catalog-go/catalog/oteladapters"
	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine"
	"github.com/opdskit/opds-catalog-go/internal/config"
	"github.com/opdskit/opds-catalog-go/internal/telemetry"
)

// Version is reported in telemetry resources and by --version.
var Version = "dev"

// app carries the state shared by the commands of one run.
type app struct {
	viper      *viper.Viper
	configFile string
	stderr     io.Writer
	logger     *slog.Logger
	catalog    *sqliteengine.Catalog
	providers  *telemetry.Providers
}

// NewRootCommand builds the command tree writing results to stdout and logs and telemetry to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root, _ := newRoot(stdout, stderr)
	return root
}

func newRoot(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{viper: config.New(), stderr: stderr}

	root := &cobra.Command{
		Use:               "opds-catalog",
		Short:             "Query a bibliographic catalog stored in SQLite",
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("database", "", "path of the SQLite catalog file")
	flags.String("locale", config.DefaultLocale, "collation language as BCP 47 tag")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "text or json")
	flags.Bool("telemetry", false, "export spans and metrics to stderr")

	root.AddCommand(
		newCheckCommand(a),
		newGenresCommand(a),
		newAuthorsCommand(a),
		newSeriesCommand(a),
		newBooksCommand(a),
	)

	return root, a
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.viper, a.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	a.logger = newLogger(a.stderr, cfg)

	tag, err := cfg.LanguageTag()
	if err != nil {
		return err
	}

	options := []sqliteengine.Option{
		sqliteengine.WithLogger(a.logger),
		sqliteengine.WithCollation(collation.New(tag)),
	}

	if cfg.Telemetry {
		a.providers, err = telemetry.New(cmd.Context(), a.stderr, Version)
		if err != nil {
			return fmt.Errorf("failed to set up telemetry: %w", err)
		}

		options = append(options,
			sqliteengine.WithMetrics(oteladapters.NewMetricsCollector(a.providers.Meter())),
			sqliteengine.WithTracing(oteladapters.NewTracingCollector(a.providers.Tracer())),
		)
	}

	a.catalog, err = sqliteengine.Open(cmd.Context(), cfg.Database, options...)
	if err != nil {
		a.logger.Error("failed to open catalog", "database", cfg.Database, "error", err.Error())
		return errors.Join(err, a.close())
	}

	return nil
}

func (a *app) close() error {
	var errs []error

	if a.catalog != nil {
		errs = append(errs, a.catalog.Close())
		a.catalog = nil
	}

	if a.providers != nil {
		errs = append(errs, a.providers.Shutdown())
		a.providers = nil
	}

	return errors.Join(errs...)
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.LogLevel))

	options := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, options))
	}

	return slog.New(slog.NewTextHandler(w, options))
}

// Execute runs the command tree with ctx and releases the catalog also when a command fails.
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root, a := newRoot(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	return errors.Join(err, a.close())
}
