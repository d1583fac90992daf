// Package playlist materializes in-memory playlist specs on the external
// catalog.
package playlist

import (
	"context"
	"sync"

	"github.com/mager/moodboard/moodboard"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog is the slice of the external service the materializer needs.
type Catalog interface {
	CreatePlaylist(ctx context.Context, ownerID, name, description string) (string, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// Materializer creates one private playlist per non-empty spec and appends
// its tracks. Create and append for one spec are strictly sequential (the
// append needs the created id); different specs run in parallel.
type Materializer struct {
	cat Catalog
	log *zap.SugaredLogger
}

// NewMaterializer builds a Materializer.
func NewMaterializer(cat Catalog, log *zap.SugaredLogger) *Materializer {
	return &Materializer{cat: cat, log: log}
}

// Materialize creates a playlist for every spec with at least one track and
// returns the created playlist ids in spec order. Specs with no tracks are
// skipped; no empty playlist is ever created. A failure between create and
// append surfaces as a PartialMaterializeError: the empty playlist is left
// behind on the external service.
func (m *Materializer) Materialize(ctx context.Context, ownerID string, specs []moodboard.PlaylistSpec) ([]string, error) {
	ids := make([]string, len(specs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		if len(spec.TrackURIs) == 0 {
			continue
		}
		i, spec := i, spec
		g.Go(func() error {
			id, err := m.cat.CreatePlaylist(gctx, ownerID, spec.Name, spec.Description)
			if err != nil {
				return &moodboard.UpstreamError{Endpoint: "playlists", Err: err}
			}
			if err := m.cat.AddTracks(gctx, id, spec.TrackURIs); err != nil {
				return &moodboard.PartialMaterializeError{PlaylistID: id, Name: spec.Name, Err: err}
			}
			m.log.Infow("created playlist",
				"bucket", spec.Bucket.String(),
				"name", spec.Name,
				"tracks", len(spec.TrackURIs),
			)
			mu.Lock()
			ids[i] = id
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	created := make([]string, 0, len(specs))
	for _, id := range ids {
		if id != "" {
			created = append(created, id)
		}
	}
	return created, nil
}
