package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/moodboard/logger"
	"github.com/mager/moodboard/spotify"
)

func TestHealthHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	handler := NewHealthHandler(log, &spotify.SpotifyClient{ID: "id", Secret: "secret"})

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	// Check the response body
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}

	if !resp.Server {
		t.Error("server should report healthy")
	}
	if !resp.Spotify {
		t.Error("spotify should report configured")
	}
}

func TestHealthHandlerMissingSpotifyConfig(t *testing.T) {
	log, _ := logger.NewTestLogger()
	handler := NewHealthHandler(log, &spotify.SpotifyClient{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Spotify {
		t.Error("spotify should report unconfigured")
	}
}
