package moodboard

import "time"

// Track is one entry in the user's library, flattened down to what the
// aggregation and playlist flows actually need.
type Track struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Name string `json:"name"`
	// DurationMS is the duration of the track in milliseconds.
	// Example: 237040
	DurationMS int      `json:"duration_ms"`
	ArtistIDs  []string `json:"artist_ids"`
	AlbumID    string   `json:"album_id"`
}

// PlayEvent is one item from the recently-played feed. Events are immutable
// and scoped to the request that fetched them.
type PlayEvent struct {
	TrackID    string    `json:"track_id"`
	PlayedAt   time.Time `json:"played_at"`
	DurationMS int       `json:"duration_ms"`
	ArtistIDs  []string  `json:"artist_ids"`
	AlbumID    string    `json:"album_id"`
}

// ArtistMetadata carries the genre tags for one artist. Fetched at most once
// per distinct artist id within a request.
type ArtistMetadata struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// AudioFeatureVector holds the two features the mood classifier reads.
type AudioFeatureVector struct {
	TrackID string `json:"track_id"`
	// Valence is a measure from 0.0 to 1.0 describing the musical
	// positiveness conveyed by a track.
	Valence float64 `json:"valence"`
	// Energy is a measure from 0.0 to 1.0 representing perceived intensity
	// and activity.
	Energy float64 `json:"energy"`
}

// Mood is one of three mutually exclusive buckets a track classifies into.
type Mood int

const (
	MoodEnergetic Mood = iota
	MoodMellow
	MoodLowEnergy
)

func (m Mood) String() string {
	switch m {
	case MoodEnergetic:
		return "energetic"
	case MoodMellow:
		return "mellow"
	case MoodLowEnergy:
		return "low_energy"
	}
	return "unknown"
}

// PlaylistSpec is an in-memory description of a playlist to be created.
// Built by the orchestrator, consumed once by the materializer.
type PlaylistSpec struct {
	Bucket      Mood     `json:"bucket"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TrackURIs   []string `json:"track_uris"`
}

// User is the profile row persisted on login.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}
