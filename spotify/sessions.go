package spotify

import (
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/mager/moodboard/config"
	"github.com/mager/moodboard/pipeline"
	spot "github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// Sessions resolves an incoming request to an authenticated Spotify client:
// session cookie → user id → stored token → per-request client.
type Sessions struct {
	log    *zap.SugaredLogger
	client *SpotifyClient
	fs     *firestore.Client
	secret []byte
}

// NewSessions builds the per-request client resolver.
func NewSessions(log *zap.SugaredLogger, cfg config.Config, client *SpotifyClient, fs *firestore.Client) *Sessions {
	return &Sessions{
		log:    log,
		client: client,
		fs:     fs,
		secret: []byte(cfg.SessionSecret),
	}
}

// UserID returns the user id carried by the request's session cookie.
func (s *Sessions) UserID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", ErrNoSession
	}
	return ParseSessionToken(s.secret, cookie.Value)
}

// Client returns a Spotify client acting as the request's user, plus the
// user's catalog id. Returns ErrNoSession or ErrNoToken when the request
// is not authenticated.
func (s *Sessions) Client(r *http.Request) (*spot.Client, string, error) {
	userID, err := s.UserID(r)
	if err != nil {
		return nil, "", err
	}
	token, err := LoadToken(r.Context(), s.fs, userID)
	if err != nil {
		return nil, "", err
	}
	return s.client.UserClient(r.Context(), token), userID, nil
}

// Catalog resolves the request to a pipeline catalog for the request's user.
func (s *Sessions) Catalog(r *http.Request) (pipeline.Catalog, string, error) {
	c, userID, err := s.Client(r)
	if err != nil {
		return nil, "", err
	}
	return NewCatalog(c), userID, nil
}
