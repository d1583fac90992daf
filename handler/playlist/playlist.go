package playlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/moodboard/mood"
	"github.com/mager/moodboard/moodboard"
	"github.com/mager/moodboard/pipeline"
	"go.uber.org/zap"
)

// CatalogProvider resolves a request to an authenticated catalog.
type CatalogProvider interface {
	Catalog(r *http.Request) (pipeline.Catalog, string, error)
}

// CreateMoodPlaylistsHandler classifies the user's whole library into mood
// buckets and creates one playlist per non-empty bucket.
type CreateMoodPlaylistsHandler struct {
	log      *zap.SugaredLogger
	sessions CatalogProvider
	orch     *pipeline.Orchestrator
}

func (*CreateMoodPlaylistsHandler) Pattern() string {
	return "/playlists/mood"
}

// NewCreateMoodPlaylistsHandler builds a new CreateMoodPlaylistsHandler.
func NewCreateMoodPlaylistsHandler(log *zap.SugaredLogger, sessions CatalogProvider, orch *pipeline.Orchestrator) *CreateMoodPlaylistsHandler {
	return &CreateMoodPlaylistsHandler{
		log:      log,
		sessions: sessions,
		orch:     orch,
	}
}

type Request struct {
	EnergeticName string `json:"energetic_name"`
	MellowName    string `json:"mellow_name"`
	LowEnergyName string `json:"low_energy_name"`
}

type Response struct {
	Status             string         `json:"status"`
	Tracks             int            `json:"tracks"`
	Buckets            map[string]int `json:"buckets"`
	CreatedPlaylistIDs []string       `json:"created_playlist_ids"`
}

// Create mood playlists
// @Summary Create mood playlists
// @Description Bucket every saved track by mood and create a playlist per non-empty bucket
// @Accept json
// @Produce json
// @Param request body Request false "Playlist names"
// @Success 200 {object} Response
// @Router /playlists/mood [post]
func (h *CreateMoodPlaylistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	cat, userID, err := h.sessions.Catalog(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var req Request
	if r.Body != nil {
		// An empty body means default names.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	names := mood.Names{
		Energetic: req.EnergeticName,
		Mellow:    req.MellowName,
		LowEnergy: req.LowEnergyName,
	}

	result, err := h.orch.BuildMoodPlaylists(r.Context(), cat, userID, names)
	if err != nil {
		h.log.Errorw("Error creating playlists", "error", err, "user_id", userID)
		var pm *moodboard.PartialMaterializeError
		if errors.As(err, &pm) {
			h.log.Warnw("Empty playlist left behind", "playlist_id", pm.PlaylistID, "name", pm.Name)
		}
		http.Error(w, `{"error":"error creating playlists"}`, http.StatusBadGateway)
		return
	}

	resp := Response{
		Status:             "created",
		Tracks:             result.Tracks,
		Buckets:            result.Buckets,
		CreatedPlaylistIDs: result.CreatedPlaylistIDs,
	}
	if len(result.CreatedPlaylistIDs) == 0 {
		resp.Status = "empty"
	}

	json.NewEncoder(w).Encode(resp)
}
