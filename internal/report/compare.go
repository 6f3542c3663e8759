package report

// Agree reports whether two rankings list the same entries in the same order.
func Agree[T any](a, b []T, equal func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameArtistAlbums(x, y ArtistAlbums) bool { return x == y }

// sameAlbumSales compares at cent precision, which is what both methods print.
func sameAlbumSales(x, y AlbumSales) bool {
	return x.Album == y.Album && x.Sales.Round(2).Equal(y.Sales.Round(2))
}

func samePlaylistCount(x, y PlaylistCount) bool { return x == y }
