package address

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func fields(street, city, zip, region, country string) Fields {
	return Fields{
		Street:     str(street),
		City:       str(city),
		PostalCode: str(zip),
		Region:     str(region),
		Country:    str(country),
	}
}

func TestNormalize_SharedStateDistinctLocality(t *testing.T) {
	r := NewRegistry(KeyByName)

	portland := r.Normalize(fields("1 Washington Ave", "Portland", "04102", "Maine", "USA"))
	waterville := r.Normalize(fields("400 Mayflower Drive", "Waterville", "04901", "Maine", "USA"))

	require.NotSame(t, portland, waterville)
	assert.NotSame(t, portland.Locality, waterville.Locality)
	assert.Same(t, portland.Locality.State, waterville.Locality.State)
	assert.Same(t, portland.Locality.State.Country, waterville.Locality.State.Country)

	assert.Equal(t, "1 Washington Ave", portland.Street)
	assert.Equal(t, "Portland", portland.Locality.Name)
	assert.Equal(t, "04102", portland.Locality.ZipCode)
	assert.Equal(t, "Maine", portland.Locality.State.Name)
	assert.Equal(t, "USA", portland.Locality.State.Country.Name)

	countries, states, localities := r.Sizes()
	assert.Equal(t, 1, countries)
	assert.Equal(t, 1, states)
	assert.Equal(t, 2, localities)
}

func TestNormalize_AddressesNeverDeduplicated(t *testing.T) {
	r := NewRegistry(KeyByName)
	f := fields("1 Washington Ave", "Portland", "04102", "Maine", "USA")

	a := r.Normalize(f)
	b := r.Normalize(f)

	assert.NotSame(t, a, b)
	assert.Same(t, a.Locality, b.Locality)
}

func TestNormalize_ExactStringIdentity(t *testing.T) {
	r := NewRegistry(KeyByName)

	a := r.Normalize(fields("", "Portland", "", "Maine", "USA"))
	b := r.Normalize(fields("", "Austin", "", "Texas", "usa"))
	c := r.Normalize(fields("", "Boston", "", "Massachusetts", " USA"))
	d := r.Normalize(fields("", "Reno", "", "Nevada", "USA"))

	assert.NotSame(t, a.Locality.State.Country, b.Locality.State.Country)
	assert.NotSame(t, a.Locality.State.Country, c.Locality.State.Country)
	assert.Same(t, a.Locality.State.Country, d.Locality.State.Country)
}

func TestNormalize_NameKeyingCollapsesAndRebinds(t *testing.T) {
	r := NewRegistry(KeyByName)

	us := r.Normalize(fields("1 Main St", "Springfield", "62701", "Georgia", "USA"))
	ge := r.Normalize(fields("5 Rustaveli Ave", "Tbilisi", "0108", "Georgia", "Georgia"))

	// Same-named states collapse; the shared state now points at the last country seen.
	require.Same(t, us.Locality.State, ge.Locality.State)
	assert.Equal(t, "Georgia", us.Locality.State.Country.Name)

	_, states, _ := r.Sizes()
	assert.Equal(t, 1, states)
}

func TestNormalize_LocalityRebindsZip(t *testing.T) {
	r := NewRegistry(KeyByName)

	first := r.Normalize(fields("1 A St", "Portland", "04102", "Maine", "USA"))
	second := r.Normalize(fields("2 B St", "Portland", "97201", "Oregon", "USA"))

	require.Same(t, first.Locality, second.Locality)
	assert.Equal(t, "97201", first.Locality.ZipCode)
	assert.Equal(t, "Oregon", first.Locality.State.Name)
}

func TestNormalize_LineageKeyingSeparatesSameNames(t *testing.T) {
	r := NewRegistry(KeyByLineage)

	us := r.Normalize(fields("1 Main St", "Springfield", "62701", "Georgia", "USA"))
	ge := r.Normalize(fields("5 Rustaveli Ave", "Tbilisi", "0108", "Georgia", "Georgia"))
	me := r.Normalize(fields("1 A St", "Portland", "04102", "Maine", "USA"))
	or := r.Normalize(fields("2 B St", "Portland", "97201", "Oregon", "USA"))

	assert.NotSame(t, us.Locality.State, ge.Locality.State)
	assert.Equal(t, "USA", us.Locality.State.Country.Name)
	assert.NotSame(t, me.Locality, or.Locality)
	assert.Equal(t, "04102", me.Locality.ZipCode)
	assert.Same(t, us.Locality.State.Country, me.Locality.State.Country)

	countries, states, localities := r.Sizes()
	assert.Equal(t, 2, countries)
	assert.Equal(t, 4, states)
	assert.Equal(t, 4, localities)
}

func TestNormalize_NullFieldsBecomeEmptyNames(t *testing.T) {
	r := NewRegistry(KeyByName)

	addr := r.Normalize(Fields{City: str("Oslo"), Country: str("Norway")})

	assert.Equal(t, "", addr.Street)
	assert.Equal(t, "Oslo", addr.Locality.Name)
	assert.Equal(t, "", addr.Locality.ZipCode)
	assert.Equal(t, "", addr.Locality.State.Name)
	assert.Equal(t, "Norway", addr.Locality.State.Country.Name)

	c, ok := r.Country("Norway")
	require.True(t, ok)
	assert.Same(t, c, addr.Locality.State.Country)
}

func TestBook_TracksIncomplete(t *testing.T) {
	book := NewBook(NewRegistry(KeyByName))

	complete := book.Add(fields("1 Washington Ave", "Portland", "04102", "Maine", "USA"))
	missingZip := fields("3 Chatham Street", "Dublin", "", "Dublin", "Ireland")
	missingZip.PostalCode = sql.NullString{}
	incomplete := book.Add(missingZip)

	// An empty but present field is not missing.
	emptyStreet := book.Add(fields("", "Portland", "04102", "Maine", "USA"))

	assert.Len(t, book.All, 3)
	require.Len(t, book.Incomplete, 1)
	assert.Same(t, incomplete, book.Incomplete[0])
	assert.NotContains(t, book.Incomplete, complete)
	assert.NotContains(t, book.Incomplete, emptyStreet)
}

func TestParseKeying(t *testing.T) {
	tests := []struct {
		in   string
		want Keying
		ok   bool
	}{
		{"", KeyByName, true},
		{"name", KeyByName, true},
		{"lineage", KeyByLineage, true},
		{"zip", KeyByName, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKeying(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
