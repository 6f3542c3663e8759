package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
)

var ErrCountMismatch = errors.New("row counts disagree")

// CountCheck pairs the mapping layer's object count for a table with the
// raw COUNT(*) of the same table.
type CountCheck struct {
	Table  string
	Mapped int
	Raw    int
}

func (c CountCheck) Match() bool { return c.Mapped == c.Raw }

// CheckCounts counts every mapped table both ways.
func CheckCounts(ctx context.Context, g *graph.Graph, s *store.Store) ([]CountCheck, error) {
	checks := make([]CountCheck, 0, len(g.Tables()))
	for _, table := range g.Tables() {
		mapped, err := g.Count(table)
		if err != nil {
			return nil, fmt.Errorf("count mapped %s: %w", table, err)
		}
		raw, err := s.CountRows(ctx, table)
		if err != nil {
			return nil, err
		}
		checks = append(checks, CountCheck{Table: table, Mapped: mapped, Raw: raw})
	}
	return checks, nil
}

// VerifyCounts returns ErrCountMismatch naming every table whose counts differ.
func VerifyCounts(checks []CountCheck) error {
	var errs []error
	for _, c := range checks {
		if !c.Match() {
			errs = append(errs, fmt.Errorf("%s: mapped %d, raw %d: %w", c.Table, c.Mapped, c.Raw, ErrCountMismatch))
		}
	}
	return errors.Join(errs...)
}
