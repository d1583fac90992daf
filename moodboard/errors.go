package moodboard

import "fmt"

// UpstreamError wraps any failed call to the external catalog. A single
// failed page aborts the whole walk; no partial result is returned.
type UpstreamError struct {
	Endpoint string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// EnrichError wraps the first failing fetch inside a batch enrichment.
// The batch fails as a whole; callers never see a partial map.
type EnrichError struct {
	ID  string
	Err error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrich %q: %v", e.ID, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// PartialMaterializeError reports a playlist that was created but whose
// track append failed. The empty playlist is left behind on the external
// service; it is not cleaned up automatically.
type PartialMaterializeError struct {
	PlaylistID string
	Name       string
	Err        error
}

func (e *PartialMaterializeError) Error() string {
	return fmt.Sprintf("playlist %q (%s) created but tracks not added: %v", e.Name, e.PlaylistID, e.Err)
}

func (e *PartialMaterializeError) Unwrap() error { return e.Err }
