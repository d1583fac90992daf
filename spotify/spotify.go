// Package spotify owns the connection to the external catalog: the OAuth
// authenticator, per-user clients built from stored tokens, and the
// catalog adapter the pipeline consumes.
package spotify

import (
	"context"

	"github.com/mager/moodboard/config"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var userScopes = []string{
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
}

// SpotifyClient holds the app credentials and authenticator. Per-user
// clients are derived from it with UserClient.
type SpotifyClient struct {
	Auth   *spotifyauth.Authenticator
	ID     string
	Secret string
}

// ProvideSpotify provides the shared Spotify authenticator.
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	log.Info("setting up spotify client")

	return &SpotifyClient{
		Auth: spotifyauth.New(
			spotifyauth.WithClientID(cfg.SpotifyID),
			spotifyauth.WithClientSecret(cfg.SpotifySecret),
			spotifyauth.WithRedirectURL(cfg.SpotifyRedirectURL),
			spotifyauth.WithScopes(userScopes...),
		),
		ID:     cfg.SpotifyID,
		Secret: cfg.SpotifySecret,
	}
}

// UserClient builds a client acting as the user who owns the token.
func (s *SpotifyClient) UserClient(ctx context.Context, token *oauth2.Token) *spot.Client {
	return spot.New(s.Auth.Client(ctx, token))
}

var Options = ProvideSpotify
