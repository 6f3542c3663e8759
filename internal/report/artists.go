package report

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
)

// ArtistAlbums is one row of the album-count ranking.
type ArtistAlbums struct {
	Artist string
	Albums int
}

// TopArtistsByAlbums ranks artists by album count through the object graph.
// The sort is stable over retrieval order, so equal counts keep key order.
// Fewer than n artists yields a shorter list.
func TopArtistsByAlbums(g *graph.Graph, n int) []ArtistAlbums {
	ranked := make([]ArtistAlbums, 0, len(g.Artists))
	for _, a := range g.Artists {
		ranked = append(ranked, ArtistAlbums{Artist: a.Name, Albums: len(a.Albums)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Albums > ranked[j].Albums
	})
	return truncate(ranked, n)
}

// TopArtistsByAlbumsSQL computes the same ranking in one query.
func TopArtistsByAlbumsSQL(ctx context.Context, s *store.Store, b *catalog.Binding, n int) ([]ArtistAlbums, error) {
	q := fmt.Sprintf(`
		SELECT ar.%[3]s, COUNT(al.%[5]s)
		FROM %[1]s ar
		LEFT JOIN %[2]s al ON al.%[6]s = ar.%[4]s
		GROUP BY ar.%[4]s
		ORDER BY COUNT(al.%[5]s) DESC, ar.%[4]s ASC
		LIMIT ?`,
		store.QuoteIdent(b.Artist.Table),
		store.QuoteIdent(b.Album.Table),
		store.QuoteIdent(b.Artist.Name),
		store.QuoteIdent(b.Artist.ID),
		store.QuoteIdent(b.Album.ID),
		store.QuoteIdent(b.Album.Artist),
	)

	rows, err := s.DB().QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("query top artists: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	out := []ArtistAlbums{}
	for rows.Next() {
		var (
			name  sql.NullString
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan top artists: %w", err)
		}
		out = append(out, ArtistAlbums{Artist: name.String, Albums: count})
	}
	return out, rows.Err()
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
