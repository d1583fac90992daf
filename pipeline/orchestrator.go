// Package pipeline drives the data-aggregation and mood-classification
// flows against the external catalog.
package pipeline

import (
	"context"

	"github.com/mager/moodboard/analytics"
	"github.com/mager/moodboard/mood"
	"github.com/mager/moodboard/moodboard"
	"github.com/mager/moodboard/playlist"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Catalog is everything the pipeline needs from the external music service.
// Implementations are request-scoped: one catalog per authenticated user
// per request.
type Catalog interface {
	SavedTracks(ctx context.Context, limit, offset int) (items []moodboard.Track, total int, err error)
	RecentlyPlayed(ctx context.Context, limit int) ([]moodboard.PlayEvent, error)
	Artist(ctx context.Context, id string) (moodboard.ArtistMetadata, error)
	AudioFeatures(ctx context.Context, trackID string) (moodboard.AudioFeatureVector, error)

	playlist.Catalog
}

// BuildResult summarizes one playlist-creation run.
type BuildResult struct {
	Tracks             int            `json:"tracks"`
	Buckets            map[string]int `json:"buckets"`
	CreatedPlaylistIDs []string       `json:"created_playlist_ids"`
}

// Orchestrator sequences the paginate, enrich, classify and materialize
// stages. All state is request-scoped; the orchestrator itself only holds
// tuning knobs and may be shared across requests.
type Orchestrator struct {
	log      *zap.SugaredLogger
	pageSize int
	limiter  *rate.Limiter
}

// NewOrchestrator builds an Orchestrator with a shared limiter shaping all
// enrichment fan-out against the catalog's rate limit.
func NewOrchestrator(log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		log:      log,
		pageSize: DefaultPageSize,
		limiter:  rate.NewLimiter(rate.Limit(25), DefaultConcurrency),
	}
}

// BuildMoodPlaylists pages through the user's entire saved-track library,
// fetches audio features with the same bounded fan-out as artist
// enrichment, buckets every track into exactly one mood, and materializes
// one playlist per non-empty bucket.
func (o *Orchestrator) BuildMoodPlaylists(ctx context.Context, cat Catalog, ownerID string, names mood.Names) (*BuildResult, error) {
	tracks, err := FetchAll(ctx, "me/tracks", o.pageSize, cat.SavedTracks)
	if err != nil {
		return nil, err
	}
	o.log.Infow("fetched saved tracks", "owner", ownerID, "count", len(tracks))

	trackIDs := make([]string, 0, len(tracks))
	for _, t := range tracks {
		trackIDs = append(trackIDs, t.ID)
	}
	features, err := Enrich(ctx, trackIDs, cat.AudioFeatures, WithLimiter(o.limiter))
	if err != nil {
		return nil, err
	}

	uris := make(map[moodboard.Mood][]string, 3)
	for _, t := range tracks {
		bucket := mood.Classify(features[t.ID])
		uris[bucket] = append(uris[bucket], t.URI)
	}

	specs := make([]moodboard.PlaylistSpec, 0, 3)
	counts := make(map[string]int, 3)
	for _, b := range mood.Buckets() {
		counts[b.String()] = len(uris[b])
		specs = append(specs, moodboard.PlaylistSpec{
			Bucket:      b,
			Name:        names.For(b),
			Description: mood.Description(b),
			TrackURIs:   uris[b],
		})
	}

	created, err := playlist.NewMaterializer(cat, o.log).Materialize(ctx, ownerID, specs)
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		Tracks:             len(tracks),
		Buckets:            counts,
		CreatedPlaylistIDs: created,
	}, nil
}

// Dashboard fetches one page of recent plays and aggregates it. Zero plays
// is a valid outcome and yields an empty report.
func (o *Orchestrator) Dashboard(ctx context.Context, cat Catalog) (*analytics.Report, error) {
	events, err := FetchPage(ctx, "me/player/recently-played", DefaultPageSize,
		func(ctx context.Context, limit, _ int) ([]moodboard.PlayEvent, int, error) {
			items, err := cat.RecentlyPlayed(ctx, limit)
			return items, len(items), err
		})
	if err != nil {
		return nil, err
	}

	return analytics.Aggregate(ctx, events, func(ctx context.Context, ids []string) (map[string]moodboard.ArtistMetadata, error) {
		return Enrich(ctx, ids, cat.Artist, WithLimiter(o.limiter))
	})
}
