package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/moodboard/pipeline"
	"github.com/mager/moodboard/spotify"
	"go.uber.org/zap"
)

// CatalogProvider resolves a request to an authenticated catalog.
type CatalogProvider interface {
	Catalog(r *http.Request) (pipeline.Catalog, string, error)
}

// DashboardHandler serves the listening analytics for the request's user.
type DashboardHandler struct {
	log      *zap.SugaredLogger
	sessions CatalogProvider
	orch     *pipeline.Orchestrator
}

func (*DashboardHandler) Pattern() string {
	return "/dashboard"
}

// NewDashboardHandler builds a new DashboardHandler.
func NewDashboardHandler(log *zap.SugaredLogger, sessions CatalogProvider, orch *pipeline.Orchestrator) *DashboardHandler {
	return &DashboardHandler{
		log:      log,
		sessions: sessions,
		orch:     orch,
	}
}

type Response struct {
	Plays         int         `json:"plays"`
	HourHistogram [24]float64 `json:"hour_histogram"`
	TopGenres     []string    `json:"top_genres"`
	GenreCounts   []int       `json:"genre_counts"`
	Message       string      `json:"message,omitempty"`
}

// Get listening analytics
// @Summary Get listening analytics
// @Description Hour-of-day listening histogram and genre frequency for the user's recent plays
// @Produce json
// @Success 200 {object} Response
// @Router /dashboard [get]
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	cat, userID, err := h.sessions.Catalog(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	report, err := h.orch.Dashboard(r.Context(), cat)
	if err != nil {
		h.log.Errorw("Error fetching dashboard data", "error", err, "user_id", userID)
		http.Error(w, `{"error":"error fetching dashboard data"}`, status(err))
		return
	}

	resp := Response{
		Plays:         report.Plays,
		HourHistogram: report.HourHistogram,
		TopGenres:     report.TopGenres,
		GenreCounts:   report.GenreCounts,
	}
	if report.Empty() {
		resp.Message = "No recent listening data available."
	}

	json.NewEncoder(w).Encode(resp)
}

func status(err error) int {
	if errors.Is(err, spotify.ErrNoSession) || errors.Is(err, spotify.ErrNoToken) {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
