package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mager/moodboard/logger"
	"github.com/mager/moodboard/mood"
	"github.com/mager/moodboard/moodboard"
)

// fakeCatalog is an in-memory Catalog with per-call failure switches.
type fakeCatalog struct {
	mu sync.Mutex

	tracks   []moodboard.Track
	events   []moodboard.PlayEvent
	artists  map[string]moodboard.ArtistMetadata
	features map[string]moodboard.AudioFeatureVector

	failFeatures bool

	artistCalls int
	created     []createdPlaylist
}

type createdPlaylist struct {
	name        string
	description string
	uris        []string
}

func (f *fakeCatalog) SavedTracks(ctx context.Context, limit, offset int) ([]moodboard.Track, int, error) {
	end := offset + limit
	if end > len(f.tracks) {
		end = len(f.tracks)
	}
	if offset > len(f.tracks) {
		offset = len(f.tracks)
	}
	return f.tracks[offset:end], len(f.tracks), nil
}

func (f *fakeCatalog) RecentlyPlayed(ctx context.Context, limit int) ([]moodboard.PlayEvent, error) {
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeCatalog) Artist(ctx context.Context, id string) (moodboard.ArtistMetadata, error) {
	f.mu.Lock()
	f.artistCalls++
	f.mu.Unlock()
	a, ok := f.artists[id]
	if !ok {
		return moodboard.ArtistMetadata{}, fmt.Errorf("artist %s not found", id)
	}
	return a, nil
}

func (f *fakeCatalog) AudioFeatures(ctx context.Context, trackID string) (moodboard.AudioFeatureVector, error) {
	if f.failFeatures {
		return moodboard.AudioFeatureVector{}, errors.New("features unavailable")
	}
	return f.features[trackID], nil
}

func (f *fakeCatalog) CreatePlaylist(ctx context.Context, ownerID, name, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, createdPlaylist{name: name, description: description})
	return fmt.Sprintf("pl-%d", len(f.created)), nil
}

func (f *fakeCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	if _, err := fmt.Sscanf(playlistID, "pl-%d", &n); err != nil {
		return err
	}
	f.created[n-1].uris = uris
	return nil
}

func testOrchestrator() *Orchestrator {
	log, _ := logger.NewTestLogger()
	return NewOrchestrator(log)
}

func TestBuildMoodPlaylistsEndToEnd(t *testing.T) {
	cat := &fakeCatalog{
		tracks: []moodboard.Track{
			{ID: "t1", URI: "spotify:track:t1"},
			{ID: "t2", URI: "spotify:track:t2"},
			{ID: "t3", URI: "spotify:track:t3"},
		},
		features: map[string]moodboard.AudioFeatureVector{
			"t1": {TrackID: "t1", Valence: 0.8, Energy: 0.9},
			"t2": {TrackID: "t2", Valence: 0.2, Energy: 0.3},
			"t3": {TrackID: "t3", Valence: 0.5, Energy: 0.5},
		},
	}

	result, err := testOrchestrator().BuildMoodPlaylists(context.Background(), cat, "user1", mood.DefaultNames())
	if err != nil {
		t.Fatalf("BuildMoodPlaylists: %v", err)
	}

	if result.Tracks != 3 {
		t.Errorf("Tracks = %d, want 3", result.Tracks)
	}
	if len(result.CreatedPlaylistIDs) != 3 {
		t.Fatalf("created %d playlists, want 3", len(result.CreatedPlaylistIDs))
	}
	for _, bucket := range []string{"energetic", "mellow", "low_energy"} {
		if result.Buckets[bucket] != 1 {
			t.Errorf("bucket %s = %d tracks, want 1", bucket, result.Buckets[bucket])
		}
	}

	byName := make(map[string][]string)
	for _, p := range cat.created {
		byName[p.name] = p.uris
	}
	want := map[string]string{
		"Energetic Vibes": "spotify:track:t1",
		"Chill Vibes":     "spotify:track:t2",
		"Mellow Tunes":    "spotify:track:t3",
	}
	for name, uri := range want {
		uris, ok := byName[name]
		if !ok {
			t.Fatalf("playlist %q not created (have %v)", name, byName)
		}
		if len(uris) != 1 || uris[0] != uri {
			t.Errorf("playlist %q has %v, want [%s]", name, uris, uri)
		}
	}
}

func TestBuildMoodPlaylistsSkipsEmptyBuckets(t *testing.T) {
	cat := &fakeCatalog{
		tracks: []moodboard.Track{
			{ID: "t1", URI: "spotify:track:t1"},
			{ID: "t2", URI: "spotify:track:t2"},
		},
		features: map[string]moodboard.AudioFeatureVector{
			"t1": {TrackID: "t1", Valence: 0.9, Energy: 0.9},
			"t2": {TrackID: "t2", Valence: 0.7, Energy: 0.8},
		},
	}

	result, err := testOrchestrator().BuildMoodPlaylists(context.Background(), cat, "user1", mood.Names{})
	if err != nil {
		t.Fatalf("BuildMoodPlaylists: %v", err)
	}
	if len(result.CreatedPlaylistIDs) != 1 {
		t.Fatalf("created %d playlists, want 1", len(result.CreatedPlaylistIDs))
	}
	if len(cat.created) != 1 || cat.created[0].name != "Energetic Vibes" {
		t.Fatalf("created = %+v, want only Energetic Vibes", cat.created)
	}
}

func TestBuildMoodPlaylistsFailsWithoutFeatures(t *testing.T) {
	cat := &fakeCatalog{
		tracks:       []moodboard.Track{{ID: "t1", URI: "spotify:track:t1"}},
		failFeatures: true,
	}

	_, err := testOrchestrator().BuildMoodPlaylists(context.Background(), cat, "user1", mood.Names{})
	var ee *moodboard.EnrichError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EnrichError, got %v", err)
	}
	if len(cat.created) != 0 {
		t.Errorf("no playlist should be created after enrichment failure")
	}
}

func TestDashboardFlow(t *testing.T) {
	at := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	cat := &fakeCatalog{
		events: []moodboard.PlayEvent{
			{TrackID: "t1", PlayedAt: at, DurationMS: 180000, ArtistIDs: []string{"a1"}},
			{TrackID: "t2", PlayedAt: at.Add(time.Hour), DurationMS: 120000, ArtistIDs: []string{"a1", "a2"}},
			{TrackID: "t1", PlayedAt: at.Add(2 * time.Hour), DurationMS: 180000, ArtistIDs: []string{"a1"}},
		},
		artists: map[string]moodboard.ArtistMetadata{
			"a1": {ID: "a1", Genres: []string{"indie rock"}},
			"a2": {ID: "a2", Genres: []string{"jazz", "indie rock"}},
		},
	}

	report, err := testOrchestrator().Dashboard(context.Background(), cat)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if report.HourHistogram[14] != 3 {
		t.Errorf("hour 14 = %v minutes, want 3", report.HourHistogram[14])
	}
	if report.HourHistogram[15] != 2 {
		t.Errorf("hour 15 = %v minutes, want 2", report.HourHistogram[15])
	}
	// a1 appears in 3 events, so its genre counts 3 times; a2 adds one
	// more "indie rock" and one "jazz".
	if report.Genres["indie rock"] != 4 {
		t.Errorf(`genre "indie rock" = %d, want 4`, report.Genres["indie rock"])
	}
	if report.Genres["jazz"] != 1 {
		t.Errorf(`genre "jazz" = %d, want 1`, report.Genres["jazz"])
	}
	// Two distinct artists, fetched once each.
	if cat.artistCalls != 2 {
		t.Errorf("artist fetches = %d, want 2", cat.artistCalls)
	}
}

func TestDashboardEmptyState(t *testing.T) {
	report, err := testOrchestrator().Dashboard(context.Background(), &fakeCatalog{})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !report.Empty() {
		t.Fatal("report should be empty")
	}
	for h, v := range report.HourHistogram {
		if v != 0 {
			t.Errorf("hour %d = %v, want 0", h, v)
		}
	}
	if len(report.Genres) != 0 {
		t.Errorf("genres = %v, want empty", report.Genres)
	}
}
