package report

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/shopspring/decimal"
)

// AlbumSales is one row of the sales ranking.
type AlbumSales struct {
	Album string
	Sales decimal.Decimal
}

// Amount formats the sales total with two decimals.
func (a AlbumSales) Amount() string {
	return a.Sales.StringFixed(2)
}

// AlbumSalesAll sums the unit price of every invoice line on every track of
// each album, in album retrieval order.
func AlbumSalesAll(g *graph.Graph) []AlbumSales {
	out := make([]AlbumSales, 0, len(g.Albums))
	for _, al := range g.Albums {
		sales := decimal.Zero
		for _, t := range al.Tracks {
			for _, line := range t.InvoiceLines {
				sales = sales.Add(line.UnitPrice)
			}
		}
		out = append(out, AlbumSales{Album: al.Title, Sales: sales})
	}
	return out
}

// TopAlbumsBySales ranks albums by sales through the object graph.
func TopAlbumsBySales(g *graph.Graph, n int) []AlbumSales {
	ranked := AlbumSalesAll(g)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sales.GreaterThan(ranked[j].Sales)
	})
	return truncate(ranked, n)
}

// TopAlbumsBySalesSQL computes the same ranking in one query. Prices are
// summed as integer cents so equal totals compare equal in ORDER BY.
func TopAlbumsBySalesSQL(ctx context.Context, s *store.Store, b *catalog.Binding, n int) ([]AlbumSales, error) {
	q := fmt.Sprintf(`
		SELECT al.%[4]s, COALESCE(SUM(CAST(ROUND(il.%[8]s * 100) AS INTEGER)), 0) AS cents
		FROM %[1]s al
		LEFT JOIN %[2]s t ON t.%[7]s = al.%[5]s
		LEFT JOIN %[3]s il ON il.%[9]s = t.%[6]s
		GROUP BY al.%[5]s
		ORDER BY cents DESC, al.%[5]s ASC
		LIMIT ?`,
		store.QuoteIdent(b.Album.Table),
		store.QuoteIdent(b.Track.Table),
		store.QuoteIdent(b.InvoiceLine.Table),
		store.QuoteIdent(b.Album.Title),
		store.QuoteIdent(b.Album.ID),
		store.QuoteIdent(b.Track.ID),
		store.QuoteIdent(b.Track.Album),
		store.QuoteIdent(b.InvoiceLine.UnitPrice),
		store.QuoteIdent(b.InvoiceLine.Track),
	)

	rows, err := s.DB().QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("query top albums: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	out := []AlbumSales{}
	for rows.Next() {
		var (
			title sql.NullString
			cents int64
		)
		if err := rows.Scan(&title, &cents); err != nil {
			return nil, fmt.Errorf("scan top albums: %w", err)
		}
		out = append(out, AlbumSales{Album: title.String, Sales: decimal.New(cents, -2)})
	}
	return out, rows.Err()
}
