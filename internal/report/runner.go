// Package report runs the music-store report sections against a hydrated
// object graph and, where a section has one, its raw SQL counterpart.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/agentic-research/musicstore/internal/address"
	"github.com/agentic-research/musicstore/internal/catalog"
	"github.com/agentic-research/musicstore/internal/graph"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/rs/zerolog"
)

// Options tune what the sections print.
type Options struct {
	TopN    int            // length of the rankings in TASK 3 and TASK 6
	Sample  int            // entries printed in TASK 7 and TASK 8
	Verbose bool           // dump rows in TASK 1
	Limit   int            // rows dumped per table when Verbose
	Keying  address.Keying // identity key for states and localities
}

// Runner writes the report sections to Out.
type Runner struct {
	Out     io.Writer
	Log     zerolog.Logger
	Store   *store.Store
	Binding *catalog.Binding
	Graph   *graph.Graph
	Options Options
}

// Result is what a run computed, for callers that want more than the text.
type Result struct {
	Counts       []CountCheck
	TopArtists   []ArtistAlbums
	TopAlbums    []AlbumSales
	Addresses    *address.Book
	ArtistTracks *ArtistTrackSales
	Playlists    []PlaylistCount
	Disagreed    []string // sections whose two methods differ
}

// Run prints TASK 1 through TASK 8 followed by the closing remarks.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	steps := []struct {
		title string
		fn    func(context.Context, *Result) error
	}{
		{"TASK 1", r.mappedCounts},
		{"TASK 2", r.rawCounts},
		{"TASK 3", r.topArtists},
		{"TASK 4", r.addresses},
		{"TASK 5", r.incompleteAddresses},
		{"TASK 6", r.topAlbums},
		{"TASK 7", r.artistTracks},
		{"TASK 8", r.playlists},
		{"THANKS", r.remarks},
	}
	for _, step := range steps {
		r.banner(step.title)
		if err := step.fn(ctx, res); err != nil {
			return res, fmt.Errorf("%s: %w", step.title, err)
		}
	}
	return res, nil
}

func (r *Runner) banner(title string) {
	r.printf("\n\t###########\n\t# %-7s #\n\t###########\n\n", title)
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) agreement(res *Result, section string, agree bool) {
	if agree {
		r.printf("> Both methods agree\n")
		return
	}
	r.printf("> Methods DISAGREE\n")
	res.Disagreed = append(res.Disagreed, section)
	r.Log.Warn().Str("section", section).Msg("mapping layer and SQL results differ")
}

func (r *Runner) mappedCounts(_ context.Context, _ *Result) error {
	for _, table := range r.Graph.Tables() {
		n, err := r.Graph.Count(table)
		if err != nil {
			return err
		}
		r.printf("> Queried %d rows from %s\n", n, table)
		if r.Options.Verbose {
			if err := r.dumpRows(table); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) dumpRows(table string) error {
	recs, err := r.Graph.Records(table)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if r.Options.Limit >= 0 && i >= r.Options.Limit {
			break
		}
		r.printf(">>> Row %d %s\n", i+1, oj.JSON(map[string]any(rec), &ojg.Options{Sort: true}))
	}
	return nil
}

func (r *Runner) rawCounts(ctx context.Context, res *Result) error {
	checks, err := CheckCounts(ctx, r.Graph, r.Store)
	if err != nil {
		return err
	}
	res.Counts = checks
	for _, c := range checks {
		r.printf("> Counted %d rows in %s\n", c.Raw, c.Table)
	}
	if err := VerifyCounts(checks); err != nil {
		r.printf("> Count mismatch: %v\n", err)
		r.Log.Warn().Err(err).Msg("row count verification failed")
		res.Disagreed = append(res.Disagreed, "TASK 2")
		return nil
	}
	r.printf("> Mapping layer and raw counts agree for all %d tables\n", len(checks))
	return nil
}

func (r *Runner) topArtists(ctx context.Context, res *Result) error {
	n := r.Options.TopN
	sqlTop, err := TopArtistsByAlbumsSQL(ctx, r.Store, r.Binding, n)
	if err != nil {
		return err
	}
	r.printf("> Top %d artists with most albums (SQL)\n", n)
	for _, a := range sqlTop {
		r.printf("(%q, %d)\n", a.Artist, a.Albums)
	}

	top := TopArtistsByAlbums(r.Graph, n)
	res.TopArtists = top
	r.printf("> Top %d artists with most albums (mapping layer)\n", n)
	for _, a := range top {
		r.printf("(%q, %d)\n", a.Artist, a.Albums)
	}
	if len(top) < n {
		r.printf("> Only %d artists available\n", len(top))
	}
	r.agreement(res, "TASK 3", Agree(sqlTop, top, sameArtistAlbums))
	return nil
}

func (r *Runner) addresses(_ context.Context, res *Result) error {
	book := address.NewBook(address.NewRegistry(r.Options.Keying))
	ExtractAddresses(r.Graph, book)
	res.Addresses = book

	countries, states, localities := book.Registry().Sizes()
	r.printf("> Extracted %d addresses from customers and invoices\n", len(book.All))
	r.printf("> Distinct countries: %d, states: %d, localities: %d (keyed by %s)\n",
		countries, states, localities, r.Options.Keying)
	r.Log.Debug().
		Int("addresses", len(book.All)).
		Int("countries", countries).
		Int("states", states).
		Int("localities", localities).
		Msg("addresses normalized")
	return nil
}

func (r *Runner) incompleteAddresses(_ context.Context, res *Result) error {
	if res.Addresses == nil {
		return fmt.Errorf("addresses not extracted")
	}
	r.printf("> %d addresses have missing components\n", len(res.Addresses.Incomplete))
	return nil
}

func (r *Runner) topAlbums(ctx context.Context, res *Result) error {
	n := r.Options.TopN
	sqlTop, err := TopAlbumsBySalesSQL(ctx, r.Store, r.Binding, n)
	if err != nil {
		return err
	}
	r.printf("> Top %d albums with most sales (SQL)\n", n)
	for _, a := range sqlTop {
		r.printf("%s %s\n", a.Album, a.Amount())
	}

	top := TopAlbumsBySales(r.Graph, n)
	res.TopAlbums = top
	r.printf("> Top %d albums with most sales (mapping layer)\n", n)
	for _, a := range top {
		r.printf("%s %s\n", a.Album, a.Amount())
	}
	if len(top) < n {
		r.printf("> Only %d albums available\n", len(top))
	}
	r.agreement(res, "TASK 6", Agree(sqlTop, top, sameAlbumSales))
	return nil
}

func (r *Runner) artistTracks(_ context.Context, res *Result) error {
	ats := BuildArtistTrackSales(r.Graph)
	res.ArtistTracks = ats

	r.printf("> %d artists in the artist/track sales map\n", ats.Len())
	shown := truncate(ats.Artists(), r.Options.Sample)
	r.printf("> The first %d:\n", len(shown))
	for _, a := range shown {
		r.printf("%s\n", a.Artist)
		for _, t := range a.Tracks {
			r.printf("    %q: %d\n", t.Track, t.Sales)
		}
		r.printf("\n")
	}
	return nil
}

func (r *Runner) playlists(ctx context.Context, res *Result) error {
	counts := PlaylistTrackCounts(r.Graph)
	res.Playlists = counts

	shown := truncate(counts, r.Options.Sample)
	r.printf("> The first %d playlists and their track counts\n", len(shown))
	for _, p := range shown {
		r.printf("playlist %s has %d tracks\n", p.Playlist, p.Tracks)
	}

	sqlCounts, err := PlaylistTrackCountsSQL(ctx, r.Store, r.Binding)
	if err != nil {
		return err
	}
	r.agreement(res, "TASK 8", Agree(sqlCounts, counts, samePlaylistCount))
	return nil
}

func (r *Runner) remarks(_ context.Context, res *Result) error {
	r.printf("Schema was discovered from the store catalog; no table or column\n")
	r.printf("names beyond the logical music-store entities are assumed.\n")
	r.printf("States and localities are keyed by %s.\n", r.Options.Keying)
	if r.Options.Keying == address.KeyByName {
		r.printf("Same-named states in different countries share one record.\n")
	}
	if len(res.Disagreed) > 0 {
		r.printf("Sections with disagreeing results: %v\n", res.Disagreed)
	}
	return nil
}
