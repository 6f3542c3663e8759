package report

import "github.com/agentic-research/musicstore/internal/graph"

// TrackSales is the number of invoice lines referencing a track.
type TrackSales struct {
	Track string
	Sales int
}

// ArtistSales lists an artist's tracks in first-seen order.
type ArtistSales struct {
	Artist string
	Tracks []TrackSales

	index map[string]int
}

func (a *ArtistSales) set(track string, sales int) {
	if i, ok := a.index[track]; ok {
		a.Tracks[i].Sales = sales
		return
	}
	a.index[track] = len(a.Tracks)
	a.Tracks = append(a.Tracks, TrackSales{Track: track, Sales: sales})
}

// ArtistTrackSales maps artist name → track name → sales count, keeping
// first-insertion order at both levels. Keys are names, so a later artist
// or track with the same name overwrites the earlier entry in place.
type ArtistTrackSales struct {
	artists []*ArtistSales
	index   map[string]int
}

// BuildArtistTrackSales walks artist → album → track and counts the invoice
// lines of each track.
func BuildArtistTrackSales(g *graph.Graph) *ArtistTrackSales {
	ats := &ArtistTrackSales{index: make(map[string]int)}
	for _, artist := range g.Artists {
		entry := ats.reset(artist.Name)
		for _, album := range artist.Albums {
			for _, track := range album.Tracks {
				entry.set(track.Name, len(track.InvoiceLines))
			}
		}
	}
	return ats
}

func (s *ArtistTrackSales) reset(artist string) *ArtistSales {
	entry := &ArtistSales{Artist: artist, index: make(map[string]int)}
	if i, ok := s.index[artist]; ok {
		s.artists[i] = entry
		return entry
	}
	s.index[artist] = len(s.artists)
	s.artists = append(s.artists, entry)
	return entry
}

// Len is the number of distinct artist names.
func (s *ArtistTrackSales) Len() int { return len(s.artists) }

// Artists returns the entries in insertion order.
func (s *ArtistTrackSales) Artists() []*ArtistSales { return s.artists }

// Sales looks up the count for one artist and track.
func (s *ArtistTrackSales) Sales(artist, track string) (int, bool) {
	i, ok := s.index[artist]
	if !ok {
		return 0, false
	}
	entry := s.artists[i]
	j, ok := entry.index[track]
	if !ok {
		return 0, false
	}
	return entry.Tracks[j].Sales, true
}
