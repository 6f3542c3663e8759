package cmd

import (
	"fmt"

	"github.com/agentic-research/musicstore/internal/report"
	"github.com/spf13/cobra"
)

func newVerifyCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that mapped object counts match raw row counts for every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := openSession(ctx, cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			_, g, err := sess.load(ctx)
			if err != nil {
				return err
			}
			checks, err := report.CheckCounts(ctx, g, sess.store)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range checks {
				mark := "ok"
				if !c.Match() {
					mark = "MISMATCH"
				}
				_, _ = fmt.Fprintf(out, "%-20s mapped=%-8d raw=%-8d %s\n", c.Table, c.Mapped, c.Raw, mark)
			}
			return report.VerifyCounts(checks)
		},
	}
}
