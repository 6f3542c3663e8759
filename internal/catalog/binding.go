package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/musicstore/api"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
)

// Entity names a logical table of the music-store dataset.
type Entity string

const (
	Artist        Entity = "artist"
	Album         Entity = "album"
	Track         Entity = "track"
	Invoice       Entity = "invoice"
	InvoiceLine   Entity = "invoice_line"
	Customer      Entity = "customer"
	Playlist      Entity = "playlist"
	PlaylistTrack Entity = "playlist_track"
)

// tableAliases lists accepted physical names, compared after normalize().
// Both the singular CamelCase and the plural snake_case distributions of
// the dataset are covered.
var tableAliases = map[Entity][]string{
	Artist:        {"artist", "artists"},
	Album:         {"album", "albums"},
	Track:         {"track", "tracks"},
	Invoice:       {"invoice", "invoices"},
	InvoiceLine:   {"invoiceline", "invoicelines", "invoiceitem", "invoiceitems"},
	Customer:      {"customer", "customers"},
	Playlist:      {"playlist", "playlists"},
	PlaylistTrack: {"playlisttrack", "playlisttracks"},
}

// TableRef is a bound table: its physical name and primary key column.
type TableRef struct {
	Table string
	ID    string
}

// Binding maps every logical entity and column the reports need to what
// was found in the store.
type Binding struct {
	Artist struct {
		TableRef
		Name string
	}
	Album struct {
		TableRef
		Title  string
		Artist string // FK to Artist
	}
	Track struct {
		TableRef
		Name  string
		Album string // FK to Album, nullable
	}
	InvoiceLine struct {
		TableRef
		UnitPrice string
		Track     string // FK to Track
		Invoice   string // FK to Invoice
	}
	Invoice struct {
		TableRef
		Customer   string
		Street     string
		City       string
		State      string
		Country    string
		PostalCode string
	}
	Customer struct {
		TableRef
		Street     string
		City       string
		State      string
		Country    string
		PostalCode string
	}
	Playlist struct {
		TableRef
		Name string
	}
	PlaylistTrack struct {
		Table    string
		Playlist string // FK to Playlist
		Track    string // FK to Track
	}
}

// Bind resolves the logical schema against cat.
func Bind(cat *api.Catalog) (*Binding, error) {
	b := &Binding{}
	r := &resolver{cat: cat}

	artist := r.table(Artist)
	album := r.table(Album)
	track := r.table(Track)
	line := r.table(InvoiceLine)
	invoice := r.table(Invoice)
	customer := r.table(Customer)
	playlist := r.table(Playlist)
	pt := r.table(PlaylistTrack)
	if r.err != nil {
		return nil, r.err
	}

	b.Artist.TableRef = r.ref(artist)
	b.Artist.Name = r.column(artist, "Name")

	b.Album.TableRef = r.ref(album)
	b.Album.Title = r.column(album, "Title")
	b.Album.Artist = r.foreignKey(album, artist)

	b.Track.TableRef = r.ref(track)
	b.Track.Name = r.column(track, "Name")
	b.Track.Album = r.foreignKey(track, album)

	b.InvoiceLine.TableRef = r.ref(line)
	b.InvoiceLine.UnitPrice = r.column(line, "UnitPrice")
	b.InvoiceLine.Track = r.foreignKey(line, track)
	b.InvoiceLine.Invoice = r.foreignKey(line, invoice)

	b.Invoice.TableRef = r.ref(invoice)
	b.Invoice.Customer = r.foreignKey(invoice, customer)
	b.Invoice.Street = r.column(invoice, "BillingAddress")
	b.Invoice.City = r.column(invoice, "BillingCity")
	b.Invoice.State = r.column(invoice, "BillingState")
	b.Invoice.Country = r.column(invoice, "BillingCountry")
	b.Invoice.PostalCode = r.column(invoice, "BillingPostalCode")

	b.Customer.TableRef = r.ref(customer)
	b.Customer.Street = r.column(customer, "Address")
	b.Customer.City = r.column(customer, "City")
	b.Customer.State = r.column(customer, "State")
	b.Customer.Country = r.column(customer, "Country")
	b.Customer.PostalCode = r.column(customer, "PostalCode")

	b.Playlist.TableRef = r.ref(playlist)
	b.Playlist.Name = r.column(playlist, "Name")

	b.PlaylistTrack.Table = pt.Name
	b.PlaylistTrack.Playlist = r.foreignKey(pt, playlist)
	b.PlaylistTrack.Track = r.foreignKey(pt, track)

	if r.err != nil {
		return nil, r.err
	}
	return b, nil
}

// resolver keeps the first error so Bind reads as a flat list of lookups.
type resolver struct {
	cat *api.Catalog
	err error
}

func (r *resolver) table(e Entity) *api.Table {
	if r.err != nil {
		return nil
	}
	for _, alias := range tableAliases[e] {
		for i := range r.cat.Tables {
			if normalize(r.cat.Tables[i].Name) == alias {
				return &r.cat.Tables[i]
			}
		}
	}
	r.err = fmt.Errorf("bind %s: %w", e, ErrTableNotFound)
	return nil
}

func (r *resolver) ref(t *api.Table) TableRef {
	if r.err != nil {
		return TableRef{}
	}
	pk := t.PrimaryKey()
	if len(pk) != 1 {
		r.err = fmt.Errorf("bind %s: want single-column primary key, have %d", t.Name, len(pk))
		return TableRef{}
	}
	return TableRef{Table: t.Name, ID: pk[0]}
}

func (r *resolver) column(t *api.Table, want string) string {
	if r.err != nil {
		return ""
	}
	if name, ok := findColumn(t, want); ok {
		return name
	}
	r.err = fmt.Errorf("bind %s.%s: %w", t.Name, want, ErrColumnNotFound)
	return ""
}

// foreignKey finds the column of child that references parent. Declared
// foreign keys win; otherwise a column named like parent's primary key is used.
func (r *resolver) foreignKey(child, parent *api.Table) string {
	if r.err != nil {
		return ""
	}
	for _, fk := range child.ForeignKeys {
		if strings.EqualFold(fk.RefTable, parent.Name) {
			return fk.Column
		}
	}
	if pk := parent.PrimaryKey(); len(pk) == 1 {
		if name, ok := findColumn(child, pk[0]); ok {
			return name
		}
	}
	r.err = fmt.Errorf("bind %s -> %s: %w", child.Name, parent.Name, ErrColumnNotFound)
	return ""
}

func findColumn(t *api.Table, want string) (string, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, want) {
			return c.Name, true
		}
	}
	return "", false
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
