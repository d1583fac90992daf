package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mager/moodboard/logger"
	"github.com/mager/moodboard/moodboard"
	"github.com/mager/moodboard/pipeline"
	"github.com/mager/moodboard/spotify"
)

type fakeCatalog struct {
	events  []moodboard.PlayEvent
	artists map[string]moodboard.ArtistMetadata
	fail    error
}

func (f *fakeCatalog) SavedTracks(ctx context.Context, limit, offset int) ([]moodboard.Track, int, error) {
	return nil, 0, nil
}

func (f *fakeCatalog) RecentlyPlayed(ctx context.Context, limit int) ([]moodboard.PlayEvent, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.events, nil
}

func (f *fakeCatalog) Artist(ctx context.Context, id string) (moodboard.ArtistMetadata, error) {
	return f.artists[id], nil
}

func (f *fakeCatalog) AudioFeatures(ctx context.Context, trackID string) (moodboard.AudioFeatureVector, error) {
	return moodboard.AudioFeatureVector{}, nil
}

func (f *fakeCatalog) CreatePlaylist(ctx context.Context, ownerID, name, description string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	return errors.New("not implemented")
}

type fakeSessions struct {
	cat *fakeCatalog
	err error
}

func (f *fakeSessions) Catalog(r *http.Request) (pipeline.Catalog, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.cat, "user1", nil
}

func newHandler(sessions CatalogProvider) *DashboardHandler {
	log, _ := logger.NewTestLogger()
	return NewDashboardHandler(log, sessions, pipeline.NewOrchestrator(log))
}

func TestDashboardHandler(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cat := &fakeCatalog{
		events: []moodboard.PlayEvent{
			{TrackID: "t1", PlayedAt: at, DurationMS: 120000, ArtistIDs: []string{"a1"}},
		},
		artists: map[string]moodboard.ArtistMetadata{
			"a1": {ID: "a1", Genres: []string{"pop"}},
		},
	}
	handler := newHandler(&fakeSessions{cat: cat})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.HourHistogram[9] != 2 {
		t.Errorf("hour 9 = %v minutes, want 2", resp.HourHistogram[9])
	}
	if len(resp.TopGenres) != 1 || resp.TopGenres[0] != "pop" {
		t.Errorf("TopGenres = %v, want [pop]", resp.TopGenres)
	}
	if resp.Message != "" {
		t.Errorf("message = %q, want empty", resp.Message)
	}
}

func TestDashboardHandlerEmptyState(t *testing.T) {
	handler := newHandler(&fakeSessions{cat: &fakeCatalog{}})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	// No recent plays is a valid outcome, not an error.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message == "" {
		t.Error("empty state should carry a message")
	}
	for h, v := range resp.HourHistogram {
		if v != 0 {
			t.Errorf("hour %d = %v, want 0", h, v)
		}
	}
	if len(resp.TopGenres) != 0 {
		t.Errorf("TopGenres = %v, want empty", resp.TopGenres)
	}
}

func TestDashboardHandlerUnauthenticated(t *testing.T) {
	handler := newHandler(&fakeSessions{err: spotify.ErrNoSession})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestDashboardHandlerUpstreamFailure(t *testing.T) {
	cat := &fakeCatalog{fail: errors.New("rate limited")}
	handler := newHandler(&fakeSessions{cat: cat})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
}
