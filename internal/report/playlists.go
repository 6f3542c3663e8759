package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
)

// PlaylistCount is the size of one playlist's track collection.
type PlaylistCount struct {
	Playlist string
	Tracks   int
}

// PlaylistTrackCounts reads each playlist's relationship collection.
func PlaylistTrackCounts(g *graph.Graph) []PlaylistCount {
	out := make([]PlaylistCount, 0, len(g.Playlists))
	for _, p := range g.Playlists {
		out = append(out, PlaylistCount{Playlist: p.Name, Tracks: p.TrackCount()})
	}
	return out
}

// PlaylistTrackCountsSQL counts association rows per playlist; playlists
// without rows count 0.
func PlaylistTrackCountsSQL(ctx context.Context, s *store.Store, b *catalog.Binding) ([]PlaylistCount, error) {
	q := fmt.Sprintf(`
		SELECT p.%[3]s, COUNT(pt.%[6]s)
		FROM %[1]s p
		LEFT JOIN %[2]s pt ON pt.%[5]s = p.%[4]s
		GROUP BY p.%[4]s
		ORDER BY p.%[4]s ASC`,
		store.QuoteIdent(b.Playlist.Table),
		store.QuoteIdent(b.PlaylistTrack.Table),
		store.QuoteIdent(b.Playlist.Name),
		store.QuoteIdent(b.Playlist.ID),
		store.QuoteIdent(b.PlaylistTrack.Playlist),
		store.QuoteIdent(b.PlaylistTrack.Track),
	)

	rows, err := s.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query playlist counts: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	out := []PlaylistCount{}
	for rows.Next() {
		var (
			name  sql.NullString
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan playlist counts: %w", err)
		}
		out = append(out, PlaylistCount{Playlist: name.String, Tracks: count})
	}
	return out, rows.Err()
}
