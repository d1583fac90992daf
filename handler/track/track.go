// Package track serves a single-track detail view enriched with
// MusicBrainz metadata.
package track

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	mb "github.com/mager/musicbrainz-go/musicbrainz"
	spot "github.com/zmb3/spotify/v2"

	"github.com/mager/moodboard/musicbrainz"
	"github.com/mager/moodboard/spotify"
	"go.uber.org/zap"
)

// ClientProvider resolves a request to an authenticated Spotify client.
type ClientProvider interface {
	Client(r *http.Request) (*spot.Client, string, error)
}

// GetTrackHandler serves one track with artist genres and MusicBrainz
// recording metadata.
type GetTrackHandler struct {
	log               *zap.SugaredLogger
	sessions          ClientProvider
	musicbrainzClient *musicbrainz.MusicbrainzClient
}

func (*GetTrackHandler) Pattern() string {
	return "/track/{id}"
}

// NewGetTrackHandler builds a new GetTrackHandler.
func NewGetTrackHandler(
	log *zap.SugaredLogger,
	sessions ClientProvider,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
) *GetTrackHandler {
	return &GetTrackHandler{
		log:               log,
		sessions:          sessions,
		musicbrainzClient: musicbrainzClient,
	}
}

type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	Album       string   `json:"album"`
	Image       *string  `json:"image"`
	DurationMS  int      `json:"duration_ms"`
	Popularity  int      `json:"popularity"`
	ISRC        string   `json:"isrc,omitempty"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
	MBID        string   `json:"mbid,omitempty"`
}

type GetTrackResponse struct {
	Track Track `json:"track"`
}

// Get track
// @Summary Get track
// @Description Get one track with artist genres and MusicBrainz metadata
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} GetTrackResponse
// @Router /track/{id} [get]
func (h *GetTrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()
	l := h.log

	client, _, err := h.sessions.Client(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	full, err := client.GetTrack(ctx, spot.ID(id))
	if err != nil {
		l.Errorw("error fetching track", "error", err, "id", id)
		http.Error(w, `{"error":"track not found"}`, http.StatusNotFound)
		return
	}

	track := Track{
		ID:          string(full.ID),
		Name:        full.Name,
		Artist:      spotify.ConcatArtists(full.Artists),
		Album:       full.Album.Name,
		Image:       spotify.GetThumb(full.Album),
		DurationMS:  int(full.Duration),
		Popularity:  int(full.Popularity),
		ReleaseDate: full.Album.ReleaseDate,
	}
	if isrc, ok := full.ExternalIDs["isrc"]; ok {
		track.ISRC = isrc
	}

	artistIDs := make([]spot.ID, 0, len(full.Artists))
	for _, artist := range full.Artists {
		artistIDs = append(artistIDs, artist.ID)
	}
	artists, err := client.GetArtists(ctx, artistIDs...)
	if err != nil {
		l.Errorw("error fetching artists", "error", err, "id", id)
	} else {
		track.Genres = spotify.RankGenres(artists)
	}

	if track.ISRC != "" {
		h.enrichFromMusicbrainz(&track)
	}

	json.NewEncoder(w).Encode(GetTrackResponse{Track: track})
}

// enrichFromMusicbrainz fills the MBID and tops up genres from the
// MusicBrainz recording. Lookup failures are logged and ignored; the
// Spotify data alone is a complete answer.
func (h *GetTrackHandler) enrichFromMusicbrainz(track *Track) {
	recs, err := h.musicbrainzClient.Client.SearchRecordingsByISRC(mb.SearchRecordingsByISRCRequest{
		ISRC: track.ISRC,
	})
	if err != nil {
		h.log.Errorw("error fetching recordings", "error", err, "isrc", track.ISRC)
		return
	}
	if recs.Count < 1 {
		return
	}

	track.MBID = recs.Recordings[0].ID

	recording, err := h.musicbrainzClient.Client.GetRecording(mb.GetRecordingRequest{
		ID:       track.MBID,
		Includes: []mb.Include{"genres"},
	})
	if err != nil {
		h.log.Errorw("error fetching recording", "error", err, "mbid", track.MBID)
		return
	}

	if len(track.Genres) == 0 {
		track.Genres = genresForRecording(recording.Recording)
	}
}

func genresForRecording(rec mb.Recording) []string {
	maxGenres := 10
	genres := make([]string, 0, maxGenres)

	if rec.Genres != nil && len(*rec.Genres) > 0 {
		genresSlice := *rec.Genres
		sort.Slice(genresSlice, func(i, j int) bool {
			return genresSlice[i].Count > genresSlice[j].Count
		})
		for i := 0; i < maxGenres && i < len(genresSlice); i++ {
			genres = append(genres, genresSlice[i].Name)
		}
	}

	return genres
}
