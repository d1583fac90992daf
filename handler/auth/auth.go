// Package auth implements the Spotify OAuth handshake and session issue.
package auth

import (
	"encoding/json"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/mager/moodboard/config"
	"github.com/mager/moodboard/database"
	"github.com/mager/moodboard/moodboard"
	"github.com/mager/moodboard/spotify"
	"go.uber.org/zap"
)

const stateCookie = "moodboard_oauth_state"

// LoginHandler redirects the user to Spotify's consent screen.
type LoginHandler struct {
	log           *zap.SugaredLogger
	spotifyClient *spotify.SpotifyClient
}

func (*LoginHandler) Pattern() string {
	return "/auth/spotify"
}

// NewLoginHandler builds a new LoginHandler.
func NewLoginHandler(log *zap.SugaredLogger, spotifyClient *spotify.SpotifyClient) *LoginHandler {
	return &LoginHandler{log: log, spotifyClient: spotifyClient}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.spotifyClient.Auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// CallbackHandler exchanges the OAuth code, stores the token, upserts the
// user profile and issues the session cookie.
type CallbackHandler struct {
	log           *zap.SugaredLogger
	cfg           config.Config
	spotifyClient *spotify.SpotifyClient
	fs            *firestore.Client
	users         *database.UserStore
}

func (*CallbackHandler) Pattern() string {
	return "/auth/spotify/callback"
}

// NewCallbackHandler builds a new CallbackHandler.
func NewCallbackHandler(
	log *zap.SugaredLogger,
	cfg config.Config,
	spotifyClient *spotify.SpotifyClient,
	fs *firestore.Client,
	users *database.UserStore,
) *CallbackHandler {
	return &CallbackHandler{
		log:           log,
		cfg:           cfg,
		spotifyClient: spotifyClient,
		fs:            fs,
		users:         users,
	}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, `{"error":"missing oauth state"}`, http.StatusBadRequest)
		return
	}

	token, err := h.spotifyClient.Auth.Token(ctx, cookie.Value, r)
	if err != nil {
		h.log.Errorw("Failed to exchange Spotify token", "error", err)
		http.Error(w, `{"error":"token exchange failed"}`, http.StatusInternalServerError)
		return
	}

	client := h.spotifyClient.UserClient(ctx, token)
	me, err := client.CurrentUser(ctx)
	if err != nil {
		h.log.Errorw("Failed to fetch Spotify profile", "error", err)
		http.Error(w, `{"error":"profile fetch failed"}`, http.StatusInternalServerError)
		return
	}

	if err := spotify.StoreToken(ctx, h.fs, me.ID, token); err != nil {
		h.log.Errorw("Failed to store token", "error", err)
		http.Error(w, `{"error":"failed to store token"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.Upsert(ctx, moodboard.User{
		ID:          me.ID,
		DisplayName: me.DisplayName,
		Email:       me.Email,
		Country:     me.Country,
		Product:     me.Product,
	}); err != nil {
		// The session is still usable without the profile row.
		h.log.Warnw("Failed to upsert user profile", "error", err, "user_id", me.ID)
	}

	session, err := spotify.NewSessionToken([]byte(h.cfg.SessionSecret), me.ID)
	if err != nil {
		h.log.Errorw("Failed to sign session token", "error", err)
		http.Error(w, `{"error":"session issue failed"}`, http.StatusInternalServerError)
		return
	}
	spotify.SetSessionCookie(w, session)

	h.log.Infow("Spotify account connected", "user_id", me.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "connected",
		"user_id": me.ID,
	})
}

// LogoutHandler clears the session cookie.
type LogoutHandler struct {
	log *zap.SugaredLogger
}

func (*LogoutHandler) Pattern() string {
	return "/logout"
}

// NewLogoutHandler builds a new LogoutHandler.
func NewLogoutHandler(log *zap.SugaredLogger) *LogoutHandler {
	return &LogoutHandler{log: log}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spotify.ClearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "logged_out"})
}
