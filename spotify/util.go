package spotify

import (
	"sort"
	"strings"

	spot "github.com/zmb3/spotify/v2"
	"golang.org/x/exp/maps"
)

// GetFirstArtist returns the first artist
func GetFirstArtist(artists []spot.SimpleArtist) string {
	if len(artists) == 0 {
		return "Various Artists"
	}

	return artists[0].Name
}

// ConcatArtists returns a comma-separated list of artist names
func ConcatArtists(artists []spot.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// ExtractID pulls the bare id out of a spotify URI like
// "spotify:track:4iV5W9uYEdYUVa79Axb7Rh". Bare ids pass through unchanged.
func ExtractID(uri spot.URI) spot.ID {
	parts := strings.Split(string(uri), ":")
	return spot.ID(parts[len(parts)-1])
}

// GetThumb returns the 300x300 album image, if there is one.
func GetThumb(a spot.SimpleAlbum) *string {
	for _, img := range a.Images {
		if img.Height == 300 && img.Width == 300 {
			o := img.URL
			return &o
		}
	}

	return nil
}

// RankGenres returns the genres of the given artists ranked by number of
// occurrences, most common first.
func RankGenres(artists []*spot.FullArtist) []string {
	counts := make(map[string]int)
	for _, artist := range artists {
		if artist == nil {
			continue
		}
		for _, genre := range artist.Genres {
			counts[genre]++
		}
	}

	sorted := maps.Keys(counts)
	sort.Slice(sorted, func(i, j int) bool {
		if counts[sorted[i]] != counts[sorted[j]] {
			return counts[sorted[i]] > counts[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}
