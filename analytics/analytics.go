// Package analytics folds recently-played events into descriptive stats.
package analytics

import (
	"context"
	"sort"

	"github.com/mager/moodboard/moodboard"
	"golang.org/x/exp/maps"
)

// Report is the analytics payload for one batch of play events.
// TopGenres and GenreCounts are parallel sequences ranked by count
// descending, ties broken alphabetically.
type Report struct {
	Plays         int            `json:"plays"`
	HourHistogram [24]float64    `json:"hour_histogram"`
	TopGenres     []string       `json:"top_genres"`
	GenreCounts   []int          `json:"genre_counts"`
	Genres        map[string]int `json:"genres"`
}

// Empty reports whether the batch had no events.
func (r *Report) Empty() bool { return r.Plays == 0 }

// GenreFunc resolves artist ids to their metadata, fetching each distinct
// id at most once.
type GenreFunc func(ctx context.Context, ids []string) (map[string]moodboard.ArtistMetadata, error)

// Aggregate builds the hour-of-day histogram and genre frequency table for
// a batch of events. Hours are bucketed in UTC so results do not depend on
// the server's ambient timezone. Each genre on an artist counts once per
// event that references the artist. Zero events is a valid input and
// yields an all-zero report, not an error.
func Aggregate(ctx context.Context, events []moodboard.PlayEvent, genres GenreFunc) (*Report, error) {
	report := &Report{
		Plays:       len(events),
		TopGenres:   []string{},
		GenreCounts: []int{},
		Genres:      map[string]int{},
	}
	if len(events) == 0 {
		return report, nil
	}

	artistIDs := make([]string, 0, len(events))
	for _, e := range events {
		report.HourHistogram[e.PlayedAt.UTC().Hour()] += float64(e.DurationMS) / 60000
		artistIDs = append(artistIDs, e.ArtistIDs...)
	}

	byArtist, err := genres(ctx, artistIDs)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		for _, id := range e.ArtistIDs {
			for _, g := range byArtist[id].Genres {
				report.Genres[g]++
			}
		}
	}

	report.TopGenres = maps.Keys(report.Genres)
	sort.Slice(report.TopGenres, func(i, j int) bool {
		gi, gj := report.TopGenres[i], report.TopGenres[j]
		if report.Genres[gi] != report.Genres[gj] {
			return report.Genres[gi] > report.Genres[gj]
		}
		return gi < gj
	})
	report.GenreCounts = make([]int, len(report.TopGenres))
	for i, g := range report.TopGenres {
		report.GenreCounts[i] = report.Genres[g]
	}

	return report, nil
}
