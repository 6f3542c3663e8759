package graph_test

import (
	"context"
	"testing"

	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/fixture"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) *graph.Graph {
	t.Helper()
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	cat, err := catalog.Discover(ctx, s)
	require.NoError(t, err)
	b, err := catalog.Bind(cat)
	require.NoError(t, err)
	g, err := graph.Load(ctx, s, cat, b)
	require.NoError(t, err)
	return g
}

func TestLoad_MappedTablesAndCounts(t *testing.T) {
	for _, style := range []fixture.Style{fixture.Singular, fixture.Plural} {
		g := load(t, fixture.Build(t, style))

		assert.Len(t, g.Tables(), 10, "association table is not mapped")
		assert.NotContains(t, g.Tables(), fixture.Table(style, "playlisttrack"))

		for logical, want := range fixture.Counts {
			name := fixture.Table(style, logical)
			n, err := g.Count(name)
			if logical == "playlisttrack" {
				assert.ErrorIs(t, err, graph.ErrNotMapped)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, want, n, name)
		}
	}
}

func TestLoad_Relationships(t *testing.T) {
	g := load(t, fixture.Build(t, fixture.Singular))

	require.Len(t, g.Artists, 7)
	acdc := g.Artists[0]
	assert.Equal(t, "AC/DC", acdc.Name)
	require.Len(t, acdc.Albums, 2)
	assert.Equal(t, "For Those About To Rock We Salute You", acdc.Albums[0].Title)
	assert.Equal(t, "Let There Be Rock", acdc.Albums[1].Title)
	assert.Same(t, acdc, acdc.Albums[0].Artist)

	assert.Empty(t, g.Artists[6].Albums, "Quiet Riot has no albums")

	first := acdc.Albums[0]
	require.Len(t, first.Tracks, 2)
	assert.Len(t, first.Tracks[0].InvoiceLines, 3)
	assert.Equal(t, "0.99", first.Tracks[0].InvoiceLines[0].UnitPrice.String())
	assert.Same(t, first.Tracks[0], first.Tracks[0].InvoiceLines[0].Track)

	stray, ok := g.Track(12)
	require.True(t, ok)
	assert.Nil(t, stray.Album)
	assert.Len(t, stray.InvoiceLines, 2)
}

func TestLoad_Addresses(t *testing.T) {
	g := load(t, fixture.Build(t, fixture.Plural))

	require.Len(t, g.Customers, 5)
	oslo := g.Customers[3]
	assert.Equal(t, "Oslo", oslo.City.String)
	assert.False(t, oslo.State.Valid)
	assert.True(t, oslo.PostalCode.Valid)

	require.Len(t, g.Invoices, 6)
	assert.Same(t, oslo, g.Invoices[1].Customer)
	assert.False(t, g.Invoices[3].PostalCode.Valid)
	assert.Len(t, g.Invoices[0].Lines, 5)
}

func TestLoad_PlaylistCollections(t *testing.T) {
	g := load(t, fixture.Build(t, fixture.Singular))

	require.Len(t, g.Playlists, 6)
	for _, p := range g.Playlists {
		assert.Equal(t, fixture.PlaylistTrackCounts[p.Name], p.TrackCount(), p.Name)
		assert.Len(t, p.Tracks(), p.TrackCount())
	}

	grunge := g.Playlists[2]
	var names []string
	for _, tr := range grunge.Tracks() {
		names = append(names, tr.Name)
	}
	assert.Equal(t, []string{"Cochise", "Cochise", "Revelations"}, names)
}

func TestLoad_EmptyDataset(t *testing.T) {
	g := load(t, fixture.BuildEmpty(t, fixture.Plural))

	assert.Empty(t, g.Artists)
	assert.Empty(t, g.Playlists)
	n, err := g.Count("artists")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecords(t *testing.T) {
	g := load(t, fixture.Build(t, fixture.Singular))

	recs, err := g.Records("Genre")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Rock", recs[0]["Name"])
	assert.Equal(t, []string{"GenreId", "Name"}, g.Columns("Genre"))

	_, err = g.Records("PlaylistTrack")
	assert.ErrorIs(t, err, graph.ErrNotMapped)
}
