package user

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/moodboard/database"
	"go.uber.org/zap"
)

// SessionParser resolves a request to the session's user id without
// building a Spotify client.
type SessionParser interface {
	UserID(r *http.Request) (string, error)
}

// UserHandler serves the profile row captured at login.
type UserHandler struct {
	log      *zap.SugaredLogger
	sessions SessionParser
	users    *database.UserStore
}

func (*UserHandler) Pattern() string {
	return "/user"
}

// NewUserHandler builds a new UserHandler.
func NewUserHandler(log *zap.SugaredLogger, sessions SessionParser, users *database.UserStore) *UserHandler {
	return &UserHandler{
		log:      log,
		sessions: sessions,
		users:    users,
	}
}

type GetUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}

// Get user
// @Summary Get user
// @Description Get the authenticated user's stored profile
// @Produce json
// @Success 200 {object} GetUserResponse
// @Router /user [get]
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := h.sessions.UserID(r)
	if err != nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
			return
		}
		h.log.Errorw("error fetching user", "error", err, "id", id)
		http.Error(w, `{"error":"error fetching user"}`, http.StatusInternalServerError)
		return
	}

	h.log.Infow("get user", "id", id)

	json.NewEncoder(w).Encode(GetUserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Country:     u.Country,
		Product:     u.Product,
	})
}
