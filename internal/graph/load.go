package graph

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/agentic-research/musicstore/api"
	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/store"
)

// Load hydrates every mapped table of cat into records, then links the
// music-store entities named by b. Rows are read in primary key order,
// which is the retrieval order the reports rely on for tie-breaking.
func Load(ctx context.Context, s *store.Store, cat *api.Catalog, b *catalog.Binding) (*Graph, error) {
	g := &Graph{
		records:   make(map[string][]Record),
		columns:   make(map[string][]string),
		trackByID: make(map[int64]*Track),
	}

	for i := range cat.Tables {
		t := &cat.Tables[i]
		if !t.Mapped() {
			continue
		}
		rows, err := s.ScanTable(ctx, t.Name, t.PrimaryKey())
		if err != nil {
			return nil, err
		}
		g.tables = append(g.tables, t.Name)
		g.columns[t.Name] = rows.Columns
		g.records[t.Name] = toRecords(rows)
	}

	steps := []func(*catalog.Binding) error{
		g.linkArtists,
		g.linkAlbums,
		g.linkTracks,
		g.linkCustomers,
		g.linkInvoices,
		g.linkInvoiceLines,
		g.linkPlaylists,
	}
	for _, step := range steps {
		if err := step(b); err != nil {
			return nil, err
		}
	}
	if err := g.linkPlaylistTracks(ctx, s, b); err != nil {
		return nil, err
	}
	return g, nil
}

func toRecords(rows *store.Rows) []Record {
	recs := make([]Record, len(rows.Values))
	for i, vals := range rows.Values {
		rec := make(Record, len(rows.Columns))
		for j, col := range rows.Columns {
			rec[col] = vals[j]
		}
		recs[i] = rec
	}
	return recs
}

func (g *Graph) mapped(table string) ([]Record, error) {
	recs, ok := g.records[table]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", table, ErrNotMapped)
	}
	return recs, nil
}

func (g *Graph) linkArtists(b *catalog.Binding) error {
	recs, err := g.mapped(b.Artist.Table)
	if err != nil {
		return err
	}
	for _, r := range recs {
		id, err := r.id(b.Artist.Table, b.Artist.ID)
		if err != nil {
			return err
		}
		g.Artists = append(g.Artists, &Artist{ID: id, Name: r.str(b.Artist.Name)})
	}
	return nil
}

func (g *Graph) linkAlbums(b *catalog.Binding) error {
	recs, err := g.mapped(b.Album.Table)
	if err != nil {
		return err
	}
	artists := make(map[int64]*Artist, len(g.Artists))
	for _, a := range g.Artists {
		artists[a.ID] = a
	}
	for _, r := range recs {
		id, err := r.id(b.Album.Table, b.Album.ID)
		if err != nil {
			return err
		}
		album := &Album{ID: id, Title: r.str(b.Album.Title)}
		if artistID, ok := asInt64(r[b.Album.Artist]); ok {
			if artist, ok := artists[artistID]; ok {
				album.Artist = artist
				artist.Albums = append(artist.Albums, album)
			}
		}
		g.Albums = append(g.Albums, album)
	}
	return nil
}

func (g *Graph) linkTracks(b *catalog.Binding) error {
	recs, err := g.mapped(b.Track.Table)
	if err != nil {
		return err
	}
	albums := make(map[int64]*Album, len(g.Albums))
	for _, a := range g.Albums {
		albums[a.ID] = a
	}
	for _, r := range recs {
		id, err := r.id(b.Track.Table, b.Track.ID)
		if err != nil {
			return err
		}
		track := &Track{ID: id, Name: r.str(b.Track.Name)}
		if albumID, ok := asInt64(r[b.Track.Album]); ok {
			if album, ok := albums[albumID]; ok {
				track.Album = album
				album.Tracks = append(album.Tracks, track)
			}
		}
		g.Tracks = append(g.Tracks, track)
		g.trackByID[id] = track
	}
	return nil
}

func (g *Graph) linkCustomers(b *catalog.Binding) error {
	recs, err := g.mapped(b.Customer.Table)
	if err != nil {
		return err
	}
	for _, r := range recs {
		id, err := r.id(b.Customer.Table, b.Customer.ID)
		if err != nil {
			return err
		}
		g.Customers = append(g.Customers, &Customer{
			ID:         id,
			Street:     asNullString(r[b.Customer.Street]),
			City:       asNullString(r[b.Customer.City]),
			State:      asNullString(r[b.Customer.State]),
			Country:    asNullString(r[b.Customer.Country]),
			PostalCode: asNullString(r[b.Customer.PostalCode]),
		})
	}
	return nil
}

func (g *Graph) linkInvoices(b *catalog.Binding) error {
	recs, err := g.mapped(b.Invoice.Table)
	if err != nil {
		return err
	}
	customers := make(map[int64]*Customer, len(g.Customers))
	for _, c := range g.Customers {
		customers[c.ID] = c
	}
	for _, r := range recs {
		id, err := r.id(b.Invoice.Table, b.Invoice.ID)
		if err != nil {
			return err
		}
		inv := &Invoice{
			ID:         id,
			Street:     asNullString(r[b.Invoice.Street]),
			City:       asNullString(r[b.Invoice.City]),
			State:      asNullString(r[b.Invoice.State]),
			Country:    asNullString(r[b.Invoice.Country]),
			PostalCode: asNullString(r[b.Invoice.PostalCode]),
		}
		if customerID, ok := asInt64(r[b.Invoice.Customer]); ok {
			inv.Customer = customers[customerID]
		}
		g.Invoices = append(g.Invoices, inv)
	}
	return nil
}

func (g *Graph) linkInvoiceLines(b *catalog.Binding) error {
	recs, err := g.mapped(b.InvoiceLine.Table)
	if err != nil {
		return err
	}
	invoices := make(map[int64]*Invoice, len(g.Invoices))
	for _, inv := range g.Invoices {
		invoices[inv.ID] = inv
	}
	for _, r := range recs {
		id, err := r.id(b.InvoiceLine.Table, b.InvoiceLine.ID)
		if err != nil {
			return err
		}
		price, err := asDecimal(r[b.InvoiceLine.UnitPrice])
		if err != nil {
			return fmt.Errorf("%s %d: %w", b.InvoiceLine.Table, id, err)
		}
		line := &InvoiceLine{ID: id, UnitPrice: price}
		if trackID, ok := asInt64(r[b.InvoiceLine.Track]); ok {
			if track, ok := g.trackByID[trackID]; ok {
				line.Track = track
				track.InvoiceLines = append(track.InvoiceLines, line)
			}
		}
		if invoiceID, ok := asInt64(r[b.InvoiceLine.Invoice]); ok {
			if inv, ok := invoices[invoiceID]; ok {
				line.Invoice = inv
				inv.Lines = append(inv.Lines, line)
			}
		}
		g.InvoiceLines = append(g.InvoiceLines, line)
	}
	return nil
}

func (g *Graph) linkPlaylists(b *catalog.Binding) error {
	recs, err := g.mapped(b.Playlist.Table)
	if err != nil {
		return err
	}
	for _, r := range recs {
		id, err := r.id(b.Playlist.Table, b.Playlist.ID)
		if err != nil {
			return err
		}
		g.Playlists = append(g.Playlists, &Playlist{
			ID:     id,
			Name:   r.str(b.Playlist.Name),
			tracks: roaring64.New(),
			graph:  g,
		})
	}
	return nil
}

// linkPlaylistTracks reads the association rows straight from the store.
// They only populate playlist collections and are never exposed as objects.
func (g *Graph) linkPlaylistTracks(ctx context.Context, s *store.Store, b *catalog.Binding) error {
	rows, err := s.ScanTable(ctx, b.PlaylistTrack.Table, nil)
	if err != nil {
		return err
	}
	playlists := make(map[int64]*Playlist, len(g.Playlists))
	for _, p := range g.Playlists {
		playlists[p.ID] = p
	}
	pi, ti := -1, -1
	for i, c := range rows.Columns {
		switch c {
		case b.PlaylistTrack.Playlist:
			pi = i
		case b.PlaylistTrack.Track:
			ti = i
		}
	}
	if pi < 0 || ti < 0 {
		return fmt.Errorf("link %s: missing key columns", b.PlaylistTrack.Table)
	}
	for _, vals := range rows.Values {
		playlistID, ok1 := asInt64(vals[pi])
		trackID, ok2 := asInt64(vals[ti])
		if !ok1 || !ok2 {
			continue
		}
		if trackID < 0 {
			return fmt.Errorf("link %s: negative track id %d", b.PlaylistTrack.Table, trackID)
		}
		if p, ok := playlists[playlistID]; ok {
			p.tracks.Add(uint64(trackID))
		}
	}
	return nil
}
