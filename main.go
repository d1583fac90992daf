package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mager/moodboard/config"
	"github.com/mager/moodboard/database"
	fs "github.com/mager/moodboard/firestore"
	authHandler "github.com/mager/moodboard/handler/auth"
	dashHandler "github.com/mager/moodboard/handler/dashboard"
	"github.com/mager/moodboard/handler/health"
	plHandler "github.com/mager/moodboard/handler/playlist"
	topHandler "github.com/mager/moodboard/handler/top"
	trackHandler "github.com/mager/moodboard/handler/track"
	userHandler "github.com/mager/moodboard/handler/user"
	"github.com/mager/moodboard/logger"
	"github.com/mager/moodboard/musicbrainz"
	"github.com/mager/moodboard/pipeline"
	"github.com/mager/moodboard/spotify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//	@title			Moodboard
//	@version		1.0
//	@description	Listening analytics and mood playlists from your Spotify library

// @host		localhost:8080
// @BasePath	/
func main() {
	// Local dev convenience; the env wins in real deployments.
	_ = godotenv.Load()

	fx.New(
		fx.Provide(NewHTTPServer,
			config.Options,
			logger.Options,
			database.Options,
			fs.Options,
			spotify.Options,
			musicbrainz.Options,
			database.NewUserStore,
			spotify.NewSessions,
			pipeline.NewOrchestrator,
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	db *sql.DB,
	fsClient *firestore.Client,
	spotifyClient *spotify.SpotifyClient,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
	users *database.UserStore,
	sessions *spotify.Sessions,
	orch *pipeline.Orchestrator,
) *http.Server {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, jsonMiddleware)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infof("Starting HTTP server at %s", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	// Define handlers
	healthH := health.NewHealthHandler(log, spotifyClient)
	r.Handle(healthH.Pattern(), healthH)

	loginH := authHandler.NewLoginHandler(log, spotifyClient)
	r.Handle(loginH.Pattern(), loginH)

	callbackH := authHandler.NewCallbackHandler(log, cfg, spotifyClient, fsClient, users)
	r.Handle(callbackH.Pattern(), callbackH)

	logoutH := authHandler.NewLogoutHandler(log)
	r.Handle(logoutH.Pattern(), logoutH)

	dashboardH := dashHandler.NewDashboardHandler(log, sessions, orch)
	r.Handle(dashboardH.Pattern(), dashboardH).Methods(http.MethodGet)

	playlistH := plHandler.NewCreateMoodPlaylistsHandler(log, sessions, orch)
	r.Handle(playlistH.Pattern(), playlistH).Methods(http.MethodPost)

	topTracksH := topHandler.NewTopTracksHandler(log, sessions)
	r.Handle(topTracksH.Pattern(), topTracksH).Methods(http.MethodGet)

	topArtistsH := topHandler.NewTopArtistsHandler(log, sessions)
	r.Handle(topArtistsH.Pattern(), topArtistsH).Methods(http.MethodGet)

	topAlbumsH := topHandler.NewTopAlbumsHandler(log, sessions)
	r.Handle(topAlbumsH.Pattern(), topAlbumsH).Methods(http.MethodGet)

	trackH := trackHandler.NewGetTrackHandler(log, sessions, musicbrainzClient)
	r.Handle(trackH.Pattern(), trackH).Methods(http.MethodGet)

	userH := userHandler.NewUserHandler(log, sessions, users)
	r.Handle(userH.Pattern(), userH).Methods(http.MethodGet)

	return srv
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}
