package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/agentic-research/musicstore/internal/fixture"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := store.Open(filepath.Join(t.TempDir(), "nope.db"))
		require.ErrorIs(t, err, store.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := store.Open(t.TempDir())
		require.Error(t, err)
	})

	t.Run("read only", func(t *testing.T) {
		s, err := store.Open(fixture.Build(t, fixture.Singular))
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		_, err = s.DB().Exec(`INSERT INTO "Genre" VALUES (99, 'Polka')`)
		require.Error(t, err)
	})
}

func TestCountRows(t *testing.T) {
	for _, style := range []fixture.Style{fixture.Singular, fixture.Plural} {
		s, err := store.Open(fixture.Build(t, style))
		require.NoError(t, err)

		for logical, want := range fixture.Counts {
			n, err := s.CountRows(context.Background(), fixture.Table(style, logical))
			require.NoError(t, err)
			assert.Equal(t, want, n, logical)
		}
		_ = s.Close()
	}
}

func TestCountRows_UnknownTable(t *testing.T) {
	s, err := store.Open(fixture.Build(t, fixture.Singular))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.CountRows(context.Background(), "Nope")
	require.Error(t, err)
}

func TestScanTable(t *testing.T) {
	s, err := store.Open(fixture.Build(t, fixture.Singular))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rows, err := s.ScanTable(context.Background(), "Artist", []string{"ArtistId"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ArtistId", "Name"}, rows.Columns)
	require.Len(t, rows.Values, 7)
	assert.Equal(t, int64(1), rows.Values[0][0])
	assert.Equal(t, "AC/DC", rows.Values[0][1])
	assert.Equal(t, "Quiet Riot", rows.Values[6][1])

	rows, err = s.ScanTable(context.Background(), "Track", []string{"TrackId"})
	require.NoError(t, err)
	assert.Nil(t, rows.Values[11][2], "stray track has NULL AlbumId")
}

func TestScanTable_Empty(t *testing.T) {
	s, err := store.Open(fixture.BuildEmpty(t, fixture.Plural))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rows, err := s.ScanTable(context.Background(), "artists", nil)
	require.NoError(t, err)
	assert.Empty(t, rows.Values)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Artist"`, store.QuoteIdent("Artist"))
	assert.Equal(t, `"we""ird"`, store.QuoteIdent(`we"ird`))
}
