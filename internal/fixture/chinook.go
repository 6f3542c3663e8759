// Package fixture builds a small music-store SQLite database for tests.
//
// The data is hand-picked so the reports have known answers:
//
//	top artists by album count: Audioslave 3, AC/DC 2, Accept 2, Aerosmith 1, Alanis Morissette 1
//	top albums by sales:        Jagged Little Pill 3.98, For Those About To Rock We Salute You 3.96,
//	                            Big Ones 3.96, Balls to the Wall 1.98, Let There Be Rock 0.99
//	addresses:                  11 total, 4 incomplete
package fixture

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Style selects the table naming of the generated database.
type Style int

const (
	// Singular CamelCase tables: Artist, InvoiceLine, PlaylistTrack.
	Singular Style = iota
	// Plural snake_case tables: artists, invoice_items, playlist_track.
	Plural
)

var tableNames = map[string][2]string{
	"artist":        {"Artist", "artists"},
	"album":         {"Album", "albums"},
	"track":         {"Track", "tracks"},
	"invoice":       {"Invoice", "invoices"},
	"invoiceline":   {"InvoiceLine", "invoice_items"},
	"customer":      {"Customer", "customers"},
	"employee":      {"Employee", "employees"},
	"genre":         {"Genre", "genres"},
	"mediatype":     {"MediaType", "media_types"},
	"playlist":      {"Playlist", "playlists"},
	"playlisttrack": {"PlaylistTrack", "playlist_track"},
}

// Table returns the physical name of a logical table in the given style.
func Table(style Style, logical string) string {
	return tableNames[logical][style]
}

// Counts is the number of rows per logical table in the full dataset.
var Counts = map[string]int{
	"artist":        7,
	"album":         10,
	"track":         12,
	"invoice":       6,
	"invoiceline":   17,
	"customer":      5,
	"employee":      2,
	"genre":         2,
	"mediatype":     1,
	"playlist":      6,
	"playlisttrack": 12,
}

const schemaTmpl = `
CREATE TABLE {{artist}} (
	ArtistId INTEGER PRIMARY KEY NOT NULL,
	Name NVARCHAR(120)
);
CREATE TABLE {{album}} (
	AlbumId INTEGER PRIMARY KEY NOT NULL,
	Title NVARCHAR(160) NOT NULL,
	ArtistId INTEGER NOT NULL,
	FOREIGN KEY (ArtistId) REFERENCES {{artist}} (ArtistId)
);
CREATE TABLE {{mediatype}} (
	MediaTypeId INTEGER PRIMARY KEY NOT NULL,
	Name NVARCHAR(120)
);
CREATE TABLE {{genre}} (
	GenreId INTEGER PRIMARY KEY NOT NULL,
	Name NVARCHAR(120)
);
CREATE TABLE {{track}} (
	TrackId INTEGER PRIMARY KEY NOT NULL,
	Name NVARCHAR(200) NOT NULL,
	AlbumId INTEGER,
	MediaTypeId INTEGER NOT NULL,
	GenreId INTEGER,
	UnitPrice NUMERIC(10,2) NOT NULL,
	FOREIGN KEY (AlbumId) REFERENCES {{album}} (AlbumId),
	FOREIGN KEY (GenreId) REFERENCES {{genre}} (GenreId),
	FOREIGN KEY (MediaTypeId) REFERENCES {{mediatype}} (MediaTypeId)
);
CREATE TABLE {{employee}} (
	EmployeeId INTEGER PRIMARY KEY NOT NULL,
	LastName NVARCHAR(20) NOT NULL,
	FirstName NVARCHAR(20) NOT NULL
);
CREATE TABLE {{customer}} (
	CustomerId INTEGER PRIMARY KEY NOT NULL,
	FirstName NVARCHAR(40) NOT NULL,
	LastName NVARCHAR(20) NOT NULL,
	Address NVARCHAR(70),
	City NVARCHAR(40),
	State NVARCHAR(40),
	Country NVARCHAR(40),
	PostalCode NVARCHAR(10),
	SupportRepId INTEGER,
	FOREIGN KEY (SupportRepId) REFERENCES {{employee}} (EmployeeId)
);
CREATE TABLE {{invoice}} (
	InvoiceId INTEGER PRIMARY KEY NOT NULL,
	CustomerId INTEGER NOT NULL,
	InvoiceDate DATETIME NOT NULL,
	BillingAddress NVARCHAR(70),
	BillingCity NVARCHAR(40),
	BillingState NVARCHAR(40),
	BillingCountry NVARCHAR(40),
	BillingPostalCode NVARCHAR(10),
	Total NUMERIC(10,2) NOT NULL,
	FOREIGN KEY (CustomerId) REFERENCES {{customer}} (CustomerId)
);
CREATE TABLE {{invoiceline}} (
	InvoiceLineId INTEGER PRIMARY KEY NOT NULL,
	InvoiceId INTEGER NOT NULL,
	TrackId INTEGER NOT NULL,
	UnitPrice NUMERIC(10,2) NOT NULL,
	Quantity INTEGER NOT NULL,
	FOREIGN KEY (InvoiceId) REFERENCES {{invoice}} (InvoiceId),
	FOREIGN KEY (TrackId) REFERENCES {{track}} (TrackId)
);
CREATE TABLE {{playlist}} (
	PlaylistId INTEGER PRIMARY KEY NOT NULL,
	Name NVARCHAR(120)
);
CREATE TABLE {{playlisttrack}} (
	PlaylistId INTEGER NOT NULL,
	TrackId INTEGER NOT NULL,
	CONSTRAINT PK_PlaylistTrack PRIMARY KEY (PlaylistId, TrackId),
	FOREIGN KEY (PlaylistId) REFERENCES {{playlist}} (PlaylistId),
	FOREIGN KEY (TrackId) REFERENCES {{track}} (TrackId)
);
`

const dataTmpl = `
INSERT INTO {{artist}} VALUES
	(1, 'AC/DC'), (2, 'Accept'), (3, 'Aerosmith'), (4, 'Alanis Morissette'),
	(5, 'Apocalyptica'), (6, 'Audioslave'), (7, 'Quiet Riot');
INSERT INTO {{album}} VALUES
	(1, 'For Those About To Rock We Salute You', 1),
	(2, 'Balls to the Wall', 2),
	(3, 'Restless and Wild', 2),
	(4, 'Let There Be Rock', 1),
	(5, 'Big Ones', 3),
	(6, 'Jagged Little Pill', 4),
	(7, 'Plays Metallica By Four Cellos', 5),
	(8, 'Audioslave', 6),
	(9, 'Out Of Exile', 6),
	(10, 'Revelations', 6);
INSERT INTO {{mediatype}} VALUES (1, 'MPEG audio file');
INSERT INTO {{genre}} VALUES (1, 'Rock'), (2, 'Metal');
INSERT INTO {{track}} VALUES
	(1, 'For Those About To Rock (We Salute You)', 1, 1, 1, 0.99),
	(2, 'Put The Finger On You', 1, 1, 1, 0.99),
	(3, 'Balls to the Wall', 2, 1, 1, 0.99),
	(4, 'Fast As a Shark', 3, 1, 1, 0.99),
	(5, 'Go Down', 4, 1, 1, 0.99),
	(6, 'Walk On Water', 5, 1, 1, 0.99),
	(7, 'All I Really Want', 6, 1, 1, 1.99),
	(8, 'Enter Sandman', 7, 1, 2, 0.99),
	(9, 'Cochise', 8, 1, 1, 0.99),
	(10, 'Cochise', 9, 1, 1, 0.99),
	(11, 'Revelations', 10, 1, 1, 0.99),
	(12, 'Stray Track', NULL, 1, NULL, 0.99);
INSERT INTO {{employee}} VALUES (1, 'Adams', 'Andrew'), (2, 'Edwards', 'Nancy');
INSERT INTO {{customer}} VALUES
	(1, 'Ann', 'Ames', '1 Washington Ave', 'Portland', 'Maine', 'USA', '04102', 1),
	(2, 'Bo', 'Berg', '400 Mayflower Drive', 'Waterville', 'Maine', 'USA', '04901', 1),
	(3, 'Luís', 'Gonçalves', 'Rua Dr. Falcão Filho, 155', 'São Paulo', 'SP', 'Brazil', '01007-010', 2),
	(4, 'Bjørn', 'Hansen', 'Ullevålsveien 14', 'Oslo', NULL, 'Norway', '0171', 2),
	(5, 'Hugh', 'O''Reilly', '3 Chatham Street', 'Dublin', 'Dublin', 'Ireland', NULL, 2);
INSERT INTO {{invoice}} VALUES
	(1, 1, '2009-01-01', '1 Washington Ave', 'Portland', 'Maine', 'USA', '04102', 4.95),
	(2, 4, '2009-01-02', 'Ullevålsveien 14', 'Oslo', NULL, 'Norway', '0171', 2.97),
	(3, 3, '2009-01-03', 'Rua Dr. Falcão Filho, 155', 'São Paulo', 'SP', 'Brazil', '01007-010', 3.96),
	(4, 5, '2009-01-04', '3 Chatham Street', 'Dublin', 'Dublin', 'Ireland', NULL, 3.98),
	(5, 2, '2009-01-05', '400 Mayflower Drive', 'Waterville', 'Maine', 'USA', '04901', 1.98),
	(6, 1, '2009-01-06', '1 Washington Ave', 'Portland', 'Maine', 'USA', '04102', 0.99);
INSERT INTO {{invoiceline}} VALUES
	(1, 1, 1, 0.99, 1), (2, 1, 1, 0.99, 1), (3, 2, 1, 0.99, 1),
	(4, 1, 2, 0.99, 1),
	(5, 2, 3, 0.99, 1), (6, 3, 3, 0.99, 1),
	(7, 1, 5, 0.99, 1),
	(8, 3, 6, 0.99, 1), (9, 3, 6, 0.99, 1), (10, 3, 6, 0.99, 1), (11, 1, 6, 0.99, 1),
	(12, 4, 7, 1.99, 1), (13, 4, 7, 1.99, 1),
	(14, 6, 9, 0.99, 1),
	(15, 2, 11, 0.99, 1),
	(16, 5, 12, 0.99, 1), (17, 5, 12, 0.99, 1);
INSERT INTO {{playlist}} VALUES
	(1, 'Music'), (2, 'Movies'), (3, 'Grunge'), (4, 'Classical'), (5, 'Heavy Metal Classic'), (6, 'Audiobooks');
INSERT INTO {{playlisttrack}} VALUES
	(1, 1), (1, 2), (1, 3), (1, 5), (1, 6), (1, 7),
	(3, 9), (3, 10), (3, 11),
	(4, 8),
	(5, 3), (5, 4);
`

// PlaylistTrackCounts is the expected track count per playlist name.
var PlaylistTrackCounts = map[string]int{
	"Music":               6,
	"Movies":              0,
	"Grunge":              3,
	"Classical":           1,
	"Heavy Metal Classic": 2,
	"Audiobooks":          0,
}

// Build writes the full dataset to a new database file and returns its path.
func Build(t testing.TB, style Style) string {
	t.Helper()
	return BuildWith(t, style, dataTmpl)
}

// BuildEmpty writes the schema with no rows.
func BuildEmpty(t testing.TB, style Style) string {
	t.Helper()
	return BuildWith(t, style, "")
}

// BuildWith writes the schema followed by data, a SQL script in which
// {{logical}} placeholders are replaced by the style's table names.
func BuildWith(t testing.TB, style Style, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chinook.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(expand(schemaTmpl, style))
	require.NoError(t, err, "create schema")
	if data != "" {
		_, err = db.Exec(expand(data, style))
		require.NoError(t, err, "insert data")
	}
	return path
}

func expand(script string, style Style) string {
	pairs := make([]string, 0, 2*len(tableNames))
	for logical, names := range tableNames {
		pairs = append(pairs, "{{"+logical+"}}", fmt.Sprintf("%q", names[style]))
	}
	return strings.NewReplacer(pairs...).Replace(script)
}
