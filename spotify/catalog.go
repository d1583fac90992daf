package spotify

import (
	"context"
	"fmt"

	"github.com/mager/moodboard/moodboard"
	spot "github.com/zmb3/spotify/v2"
)

// Catalog adapts a per-user Spotify client to the pipeline's catalog
// interface. It holds no state beyond the client; one Catalog is built per
// request.
type Catalog struct {
	c *spot.Client
}

// NewCatalog wraps a per-user client.
func NewCatalog(c *spot.Client) *Catalog {
	return &Catalog{c: c}
}

// SavedTracks returns one page of the user's library plus the total count
// reported by the catalog.
func (cat *Catalog) SavedTracks(ctx context.Context, limit, offset int) ([]moodboard.Track, int, error) {
	page, err := cat.c.CurrentUsersTracks(ctx, spot.Limit(limit), spot.Offset(offset))
	if err != nil {
		return nil, 0, err
	}

	tracks := make([]moodboard.Track, 0, len(page.Tracks))
	for _, st := range page.Tracks {
		tracks = append(tracks, moodboard.Track{
			ID:         string(st.ID),
			URI:        string(st.URI),
			Name:       st.Name,
			DurationMS: int(st.Duration),
			ArtistIDs:  artistIDs(st.Artists),
			AlbumID:    string(st.Album.ID),
		})
	}
	return tracks, int(page.Total), nil
}

// RecentlyPlayed returns up to limit items from the recently-played feed.
func (cat *Catalog) RecentlyPlayed(ctx context.Context, limit int) ([]moodboard.PlayEvent, error) {
	items, err := cat.c.PlayerRecentlyPlayedOpt(ctx, &spot.RecentlyPlayedOptions{Limit: spot.Numeric(limit)})
	if err != nil {
		return nil, err
	}

	events := make([]moodboard.PlayEvent, 0, len(items))
	for _, it := range items {
		events = append(events, moodboard.PlayEvent{
			TrackID:    string(it.Track.ID),
			PlayedAt:   it.PlayedAt,
			DurationMS: int(it.Track.Duration),
			ArtistIDs:  artistIDs(it.Track.Artists),
			AlbumID:    string(it.Track.Album.ID),
		})
	}
	return events, nil
}

// Artist fetches one artist's genre tags.
func (cat *Catalog) Artist(ctx context.Context, id string) (moodboard.ArtistMetadata, error) {
	a, err := cat.c.GetArtist(ctx, spot.ID(id))
	if err != nil {
		return moodboard.ArtistMetadata{}, err
	}
	return moodboard.ArtistMetadata{
		ID:     id,
		Name:   a.Name,
		Genres: a.Genres,
	}, nil
}

// AudioFeatures fetches the feature vector for one track.
func (cat *Catalog) AudioFeatures(ctx context.Context, trackID string) (moodboard.AudioFeatureVector, error) {
	feats, err := cat.c.GetAudioFeatures(ctx, spot.ID(trackID))
	if err != nil {
		return moodboard.AudioFeatureVector{}, err
	}
	if len(feats) == 0 || feats[0] == nil {
		return moodboard.AudioFeatureVector{}, fmt.Errorf("no audio features for track %s", trackID)
	}
	return moodboard.AudioFeatureVector{
		TrackID: trackID,
		Valence: float64(feats[0].Valence),
		Energy:  float64(feats[0].Energy),
	}, nil
}

// CreatePlaylist creates a private playlist and returns its id.
func (cat *Catalog) CreatePlaylist(ctx context.Context, ownerID, name, description string) (string, error) {
	pl, err := cat.c.CreatePlaylistForUser(ctx, ownerID, name, description, false, false)
	if err != nil {
		return "", err
	}
	return string(pl.ID), nil
}

// AddTracks appends the given track URIs, in order, to a playlist.
func (cat *Catalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	ids := make([]spot.ID, 0, len(uris))
	for _, uri := range uris {
		ids = append(ids, ExtractID(spot.URI(uri)))
	}
	_, err := cat.c.AddTracksToPlaylist(ctx, spot.ID(playlistID), ids...)
	return err
}

func artistIDs(artists []spot.SimpleArtist) []string {
	ids := make([]string, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, string(a.ID))
	}
	return ids
}
