package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/agentic-research/musicstore/api"
	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/config"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/logger"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// flags holds command-line values; only flags the user set override config.
type flags struct {
	db       string
	logLevel string
	top      int
	sample   int
	verbose  bool
	limit    int
	keying   string
	selector string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "musicstore",
		Short:         "Reports over a music-store SQLite dataset, by object graph and by raw SQL",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, f)
		},
	}
	root.PersistentFlags().StringVarP(&f.db, "db", "d", "", "Path to the SQLite dataset")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Diagnostic log level (trace, debug, info, warn, error, disabled)")
	addReportFlags(root, f)

	root.AddCommand(newReportCmd(f), newSchemaCmd(f), newVerifyCmd(f))
	return root
}

// loadConfig merges environment configuration with the flags the user set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("db") {
		cfg.Database = f.db
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("top") {
		cfg.TopN = f.top
	}
	if changed("sample") {
		cfg.Sample = f.sample
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("limit") {
		cfg.Limit = f.limit
	}
	if changed("keying") {
		cfg.Keying = f.keying
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an open store with its discovered catalog.
type session struct {
	log     zerolog.Logger
	store   *store.Store
	catalog *api.Catalog
}

func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	log := logger.New(cfg.LogLevel)

	s, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Discover(ctx, s)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Debug().Str("path", cfg.Database).Int("tables", len(cat.Tables)).Msg("catalog discovered")
	return &session{log: log, store: s, catalog: cat}, nil
}

// load binds the catalog and hydrates the object graph.
func (s *session) load(ctx context.Context) (*catalog.Binding, *graph.Graph, error) {
	b, err := catalog.Bind(s.catalog)
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.Load(ctx, s.store, s.catalog, b)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().
		Int("artists", len(g.Artists)).
		Int("albums", len(g.Albums)).
		Int("tracks", len(g.Tracks)).
		Int("invoice_lines", len(g.InvoiceLines)).
		Msg("dataset loaded")
	return b, g, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn().Err(err).Msg("close store")
	}
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
