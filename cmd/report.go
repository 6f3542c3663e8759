package cmd

import (
	"fmt"

	"github.com/agentic-research/musicstore/internal/address"
	"github.com/agentic-research/musicstore/internal/report"
	"github.com/spf13/cobra"
)

func addReportFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().IntVarP(&f.top, "top", "n", 5, "Length of the top-N rankings")
	cmd.Flags().IntVar(&f.sample, "sample", 5, "Entries printed for the artist/track map and playlists")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Dump mapped rows while counting")
	cmd.Flags().IntVar(&f.limit, "limit", 2, "Rows dumped per table with --verbose")
	cmd.Flags().StringVar(&f.keying, "keying", "name", "Identity key for states and localities (name, lineage)")
}

func newReportCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every report section (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, f)
		},
	}
	addReportFlags(cmd, f)
	return cmd
}

func runReport(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	keying, ok := address.ParseKeying(cfg.Keying)
	if !ok {
		return fmt.Errorf("unknown keying %q", cfg.Keying)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, g, err := sess.load(ctx)
	if err != nil {
		return err
	}

	r := &report.Runner{
		Out:     cmd.OutOrStdout(),
		Log:     sess.log,
		Store:   sess.store,
		Binding: b,
		Graph:   g,
		Options: report.Options{
			TopN:    cfg.TopN,
			Sample:  cfg.Sample,
			Verbose: cfg.Verbose,
			Limit:   cfg.Limit,
			Keying:  keying,
		},
	}
	_, err = r.Run(ctx)
	return err
}
