// Package top serves the user's long-term top tracks, artists and albums.
package top

import (
	"encoding/json"
	"net/http"

	spot "github.com/zmb3/spotify/v2"

	"github.com/mager/moodboard/spotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ClientProvider resolves a request to an authenticated Spotify client.
type ClientProvider interface {
	Client(r *http.Request) (*spot.Client, string, error)
}

const topLimit = 50

type Track struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	Image      *string `json:"image"`
	Popularity int     `json:"popularity"`
}

func mapTrack(t spot.FullTrack) Track {
	return Track{
		ID:         string(t.ID),
		Name:       t.Name,
		Artist:     spotify.ConcatArtists(t.Artists),
		Album:      t.Album.Name,
		Image:      spotify.GetThumb(t.Album),
		Popularity: int(t.Popularity),
	}
}

// --- Top tracks ---

// TopTracksHandler serves the user's most played tracks of all time.
type TopTracksHandler struct {
	log      *zap.SugaredLogger
	sessions ClientProvider
}

func (*TopTracksHandler) Pattern() string {
	return "/top/tracks"
}

// NewTopTracksHandler builds a new TopTracksHandler.
func NewTopTracksHandler(log *zap.SugaredLogger, sessions ClientProvider) *TopTracksHandler {
	return &TopTracksHandler{log: log, sessions: sessions}
}

type TopTracksResponse struct {
	Tracks []Track `json:"tracks"`
}

// Get top tracks
// @Summary Get top tracks
// @Description The user's top 50 tracks over the long term
// @Produce json
// @Success 200 {object} TopTracksResponse
// @Router /top/tracks [get]
func (h *TopTracksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client, _, err := h.sessions.Client(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	page, err := client.CurrentUsersTopTracks(r.Context(), spot.Limit(topLimit), spot.Timerange(spot.LongTermRange))
	if err != nil {
		h.log.Errorw("Error fetching top tracks", "error", err)
		http.Error(w, `{"error":"error fetching top tracks"}`, http.StatusBadGateway)
		return
	}

	resp := TopTracksResponse{Tracks: make([]Track, 0, len(page.Tracks))}
	for _, t := range page.Tracks {
		resp.Tracks = append(resp.Tracks, mapTrack(t))
	}

	json.NewEncoder(w).Encode(resp)
}

// --- Top artists ---

// TopArtistsHandler serves the user's top artists, each with the artist's
// most listened track.
type TopArtistsHandler struct {
	log      *zap.SugaredLogger
	sessions ClientProvider
}

func (*TopArtistsHandler) Pattern() string {
	return "/top/artists"
}

// NewTopArtistsHandler builds a new TopArtistsHandler.
func NewTopArtistsHandler(log *zap.SugaredLogger, sessions ClientProvider) *TopArtistsHandler {
	return &TopArtistsHandler{log: log, sessions: sessions}
}

type Artist struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Genres            []string `json:"genres"`
	Popularity        int      `json:"popularity"`
	MostListenedTrack *Track   `json:"most_listened_track,omitempty"`
}

type TopArtistsResponse struct {
	Artists []Artist `json:"artists"`
}

// Get top artists
// @Summary Get top artists
// @Description The user's top 50 artists over the long term, each with its top track
// @Produce json
// @Success 200 {object} TopArtistsResponse
// @Router /top/artists [get]
func (h *TopArtistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client, _, err := h.sessions.Client(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	page, err := client.CurrentUsersTopArtists(r.Context(), spot.Limit(topLimit), spot.Timerange(spot.LongTermRange))
	if err != nil {
		h.log.Errorw("Error fetching top artists", "error", err)
		http.Error(w, `{"error":"error fetching top artists"}`, http.StatusBadGateway)
		return
	}

	artists := make([]Artist, len(page.Artists))
	g, gctx := errgroup.WithContext(r.Context())
	g.SetLimit(10)
	for i, a := range page.Artists {
		i, a := i, a
		g.Go(func() error {
			artists[i] = Artist{
				ID:         string(a.ID),
				Name:       a.Name,
				Genres:     a.Genres,
				Popularity: int(a.Popularity),
			}
			top, err := client.GetArtistsTopTracks(gctx, a.ID, "US")
			if err != nil {
				return err
			}
			if len(top) > 0 {
				t := mapTrack(top[0])
				artists[i].MostListenedTrack = &t
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.log.Errorw("Error fetching artist top tracks", "error", err)
		http.Error(w, `{"error":"error fetching top artists"}`, http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(TopArtistsResponse{Artists: artists})
}

// --- Top albums ---

// TopAlbumsHandler groups the user's top tracks by album.
type TopAlbumsHandler struct {
	log      *zap.SugaredLogger
	sessions ClientProvider
}

func (*TopAlbumsHandler) Pattern() string {
	return "/top/albums"
}

// NewTopAlbumsHandler builds a new TopAlbumsHandler.
func NewTopAlbumsHandler(log *zap.SugaredLogger, sessions ClientProvider) *TopAlbumsHandler {
	return &TopAlbumsHandler{log: log, sessions: sessions}
}

type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	Image  *string `json:"image"`
	Tracks []Track `json:"tracks"`
}

type TopAlbumsResponse struct {
	Albums []Album `json:"albums"`
}

// Get top albums
// @Summary Get top albums
// @Description The user's top tracks grouped by album
// @Produce json
// @Success 200 {object} TopAlbumsResponse
// @Router /top/albums [get]
func (h *TopAlbumsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client, _, err := h.sessions.Client(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	page, err := client.CurrentUsersTopTracks(r.Context(), spot.Limit(topLimit), spot.Timerange(spot.LongTermRange))
	if err != nil {
		h.log.Errorw("Error fetching top tracks", "error", err)
		http.Error(w, `{"error":"error fetching top albums"}`, http.StatusBadGateway)
		return
	}

	// Group by album, keeping first-seen order.
	index := make(map[string]int)
	albums := make([]Album, 0)
	for _, t := range page.Tracks {
		id := string(t.Album.ID)
		i, ok := index[id]
		if !ok {
			i = len(albums)
			index[id] = i
			albums = append(albums, Album{
				ID:     id,
				Name:   t.Album.Name,
				Artist: spotify.GetFirstArtist(t.Album.Artists),
				Image:  spotify.GetThumb(t.Album),
			})
		}
		albums[i].Tracks = append(albums[i].Tracks, mapTrack(t))
	}

	json.NewEncoder(w).Encode(TopAlbumsResponse{Albums: albums})
}
