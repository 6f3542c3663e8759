package graph

import (
	"database/sql"
	"errors"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/shopspring/decimal"
)

var ErrNotMapped = errors.New("table not mapped")

// Record is one mapped row of a table without a dedicated type,
// keyed by column name.
type Record map[string]any

// Artist owns its albums in retrieval order.
type Artist struct {
	ID     int64
	Name   string
	Albums []*Album
}

type Album struct {
	ID     int64
	Title  string
	Artist *Artist
	Tracks []*Track
}

// Track may have no album. InvoiceLines holds every line referencing it.
type Track struct {
	ID           int64
	Name         string
	Album        *Album
	InvoiceLines []*InvoiceLine
}

type InvoiceLine struct {
	ID        int64
	UnitPrice decimal.Decimal
	Track     *Track
	Invoice   *Invoice
}

// Customer carries the postal address columns as read; NULLs stay NULL.
type Customer struct {
	ID         int64
	Street     sql.NullString
	City       sql.NullString
	State      sql.NullString
	Country    sql.NullString
	PostalCode sql.NullString
}

// Invoice carries the billing address columns as read.
type Invoice struct {
	ID         int64
	Customer   *Customer
	Street     sql.NullString
	City       sql.NullString
	State      sql.NullString
	Country    sql.NullString
	PostalCode sql.NullString
	Lines      []*InvoiceLine
}

// Playlist reaches its tracks only through the association table, which has
// no object type of its own. Membership is held as a set of track ids.
type Playlist struct {
	ID   int64
	Name string

	tracks *roaring64.Bitmap
	graph  *Graph
}

// TrackCount is the size of the playlist's track collection.
func (p *Playlist) TrackCount() int {
	return int(p.tracks.GetCardinality())
}

// Tracks resolves the collection in track id order.
func (p *Playlist) Tracks() []*Track {
	out := make([]*Track, 0, p.tracks.GetCardinality())
	it := p.tracks.Iterator()
	for it.HasNext() {
		if t, ok := p.graph.trackByID[int64(it.Next())]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Graph is the hydrated dataset: typed objects linked by their relationships,
// plus generic records for every other mapped table.
type Graph struct {
	Artists      []*Artist
	Albums       []*Album
	Tracks       []*Track
	InvoiceLines []*InvoiceLine
	Invoices     []*Invoice
	Customers    []*Customer
	Playlists    []*Playlist

	// tables lists mapped table names in catalog order.
	tables  []string
	records map[string][]Record
	columns map[string][]string

	trackByID map[int64]*Track
}

// Tables returns the names of all mapped tables.
func (g *Graph) Tables() []string {
	return g.tables
}

// Count returns the number of objects the mapping layer holds for table.
func (g *Graph) Count(table string) (int, error) {
	recs, ok := g.records[table]
	if !ok {
		return 0, ErrNotMapped
	}
	return len(recs), nil
}

// Records returns the mapped rows of table in primary key order.
func (g *Graph) Records(table string) ([]Record, error) {
	recs, ok := g.records[table]
	if !ok {
		return nil, ErrNotMapped
	}
	return recs, nil
}

// Columns returns the column names of a mapped table in declaration order.
func (g *Graph) Columns(table string) []string {
	return g.columns[table]
}

// Track returns the track with the given id.
func (g *Graph) Track(id int64) (*Track, bool) {
	t, ok := g.trackByID[id]
	return t, ok
}
