package spotify

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tokenCollection = "spotify_tokens"

// ErrNoToken means no Spotify token is stored for the user.
var ErrNoToken = errors.New("no spotify token for user")

// SpotifyToken is the Firestore document stored per user.
type SpotifyToken struct {
	AccessToken  string `json:"access_token" firestore:"access_token"`
	RefreshToken string `json:"refresh_token" firestore:"refresh_token"`
	TokenType    string `json:"token_type" firestore:"token_type"`
	Expiry       int64  `json:"expiry" firestore:"expiry"`
}

// StoreToken persists the user's OAuth token.
func StoreToken(ctx context.Context, fs *firestore.Client, userID string, token *oauth2.Token) error {
	st := SpotifyToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry.Unix(),
	}
	_, err := fs.Collection(tokenCollection).Doc(userID).Set(ctx, st)
	return err
}

// LoadToken fetches the user's stored OAuth token. Returns ErrNoToken when
// the user has never connected a Spotify account.
func LoadToken(ctx context.Context, fs *firestore.Client, userID string) (*oauth2.Token, error) {
	doc, err := fs.Collection(tokenCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNoToken
		}
		return nil, err
	}

	var st SpotifyToken
	if err := doc.DataTo(&st); err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		TokenType:    st.TokenType,
		Expiry:       time.Unix(st.Expiry, 0),
	}, nil
}
