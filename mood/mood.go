// Package mood buckets tracks by their audio features.
package mood

import "github.com/mager/moodboard/moodboard"

// Classify maps a feature vector to exactly one bucket. The rules are an
// ordered decision list: first match wins, and the comparisons are strict.
// Reordering the rules or relaxing an operator moves boundary values
// (valence 0.6, energy 0.5) into a different bucket.
func Classify(f moodboard.AudioFeatureVector) moodboard.Mood {
	switch {
	case f.Valence > 0.6 && f.Energy > 0.6:
		return moodboard.MoodEnergetic
	case f.Valence < 0.4 && f.Energy < 0.5:
		return moodboard.MoodLowEnergy
	default:
		return moodboard.MoodMellow
	}
}

// Names holds the playlist name for each bucket.
type Names struct {
	Energetic string `json:"energetic_name"`
	Mellow    string `json:"mellow_name"`
	LowEnergy string `json:"low_energy_name"`
}

// DefaultNames returns the playlist names used when the caller supplies none.
func DefaultNames() Names {
	return Names{
		Energetic: "Energetic Vibes",
		Mellow:    "Mellow Tunes",
		LowEnergy: "Chill Vibes",
	}
}

// For returns the configured name for m, falling back to the default when
// the caller left it blank.
func (n Names) For(m moodboard.Mood) string {
	d := DefaultNames()
	switch m {
	case moodboard.MoodEnergetic:
		if n.Energetic != "" {
			return n.Energetic
		}
		return d.Energetic
	case moodboard.MoodLowEnergy:
		if n.LowEnergy != "" {
			return n.LowEnergy
		}
		return d.LowEnergy
	default:
		if n.Mellow != "" {
			return n.Mellow
		}
		return d.Mellow
	}
}

// Description returns the fixed description for a bucket's playlist.
func Description(m moodboard.Mood) string {
	switch m {
	case moodboard.MoodEnergetic:
		return "Energetic playlist created from your liked songs"
	case moodboard.MoodLowEnergy:
		return "Low energy playlist created from your liked songs"
	default:
		return "Mellow playlist created from your liked songs"
	}
}

// Buckets lists the moods in the order playlists are materialized.
func Buckets() []moodboard.Mood {
	return []moodboard.Mood{moodboard.MoodEnergetic, moodboard.MoodMellow, moodboard.MoodLowEnergy}
}
