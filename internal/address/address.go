// Package address folds flat postal fields into a deduplicated
// Country → State → Locality → Address graph.
//
// Countries are keyed by name. States and localities are keyed by name
// alone by default, so two same-named states in different countries
// collapse into one record and the shared instance is rebound to the
// most recent parent seen. KeyByLineage keys them by their full parent
// chain instead.
package address

import (
	"database/sql"
	"strings"
	"sync"
)

type Country struct {
	Name string
}

type State struct {
	Name    string
	Country *Country
}

type Locality struct {
	Name    string
	ZipCode string
	State   *State
}

// Address is never deduplicated: every source row yields a new one.
type Address struct {
	Street   string
	Locality *Locality
}

// Fields are the five raw address columns of a source row.
type Fields struct {
	Street     sql.NullString
	City       sql.NullString
	PostalCode sql.NullString
	Region     sql.NullString
	Country    sql.NullString
}

// Incomplete reports whether any of the five fields is NULL.
func (f Fields) Incomplete() bool {
	return !f.Street.Valid || !f.City.Valid || !f.PostalCode.Valid ||
		!f.Region.Valid || !f.Country.Valid
}

// Keying selects the identity key for states and localities.
type Keying int

const (
	// KeyByName keys every level by its own name only.
	KeyByName Keying = iota
	// KeyByLineage keys a state by country+name and a locality by
	// country+state+name.
	KeyByLineage
)

// ParseKeying maps a configuration value to a Keying.
func ParseKeying(s string) (Keying, bool) {
	switch s {
	case "", "name":
		return KeyByName, true
	case "lineage":
		return KeyByLineage, true
	}
	return KeyByName, false
}

func (k Keying) String() string {
	if k == KeyByLineage {
		return "lineage"
	}
	return "name"
}

// Registry holds the canonical instance for each key at each level.
// Entries are never removed.
type Registry struct {
	mu         sync.Mutex
	keying     Keying
	countries  map[string]*Country
	states     map[string]*State
	localities map[string]*Locality
}

func NewRegistry(keying Keying) *Registry {
	return &Registry{
		keying:     keying,
		countries:  make(map[string]*Country),
		states:     make(map[string]*State),
		localities: make(map[string]*Locality),
	}
}

// Sizes returns the number of distinct countries, states and localities.
func (r *Registry) Sizes() (countries, states, localities int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.countries), len(r.states), len(r.localities)
}

// Country returns the registered country with that key, if any.
func (r *Registry) Country(name string) (*Country, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.countries[name]
	return c, ok
}

// Normalize returns a new Address for f, creating or reusing its Country,
// State and Locality. NULL fields become empty names. It never fails.
func (r *Registry) Normalize(f Fields) *Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	country := r.country(f.Country.String)
	state := r.state(f.Region.String, country)
	locality := r.locality(f.City.String, f.PostalCode.String, state)
	return &Address{Street: f.Street.String, Locality: locality}
}

func (r *Registry) country(name string) *Country {
	if c, ok := r.countries[name]; ok {
		return c
	}
	c := &Country{Name: name}
	r.countries[name] = c
	return c
}

func (r *Registry) state(name string, country *Country) *State {
	key := name
	if r.keying == KeyByLineage {
		key = lineage(country.Name, name)
	}
	if s, ok := r.states[key]; ok {
		s.Country = country
		return s
	}
	s := &State{Name: name, Country: country}
	r.states[key] = s
	return s
}

func (r *Registry) locality(name, zip string, state *State) *Locality {
	key := name
	if r.keying == KeyByLineage {
		key = lineage(state.Country.Name, state.Name, name)
	}
	if l, ok := r.localities[key]; ok {
		l.ZipCode = zip
		l.State = state
		return l
	}
	l := &Locality{Name: name, ZipCode: zip, State: state}
	r.localities[key] = l
	return l
}

// lineage joins names with NUL, which postal text does not contain.
func lineage(names ...string) string {
	return strings.Join(names, "\x00")
}

// Book collects normalized addresses and remembers which came from rows
// with missing fields.
type Book struct {
	All        []*Address
	Incomplete []*Address

	registry *Registry
}

func NewBook(r *Registry) *Book {
	return &Book{registry: r}
}

// Add normalizes f and records the result. Incompleteness is decided here,
// from the raw fields, and never recomputed.
func (b *Book) Add(f Fields) *Address {
	addr := b.registry.Normalize(f)
	b.All = append(b.All, addr)
	if f.Incomplete() {
		b.Incomplete = append(b.Incomplete, addr)
	}
	return addr
}

// Registry returns the registry backing the book.
func (b *Book) Registry() *Registry {
	return b.registry
}
