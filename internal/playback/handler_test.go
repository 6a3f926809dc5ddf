package playback

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Orchestrator) {
	t.Helper()
	orc := NewOrchestrator(testCatalog(), newFakeFetcher(), newFakeFactory(5*time.Millisecond, time.Millisecond), testLogger(), nil, 0)
	t.Cleanup(orc.Stop)

	h := NewHandler(orc, testLogger())
	r := chi.NewRouter()
	r.Group(h.Routes)
	return r, orc
}

func TestHandler_PlayChord_accepted(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chords/C/play?hint=full-chord", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
}

func TestHandler_PlayChord_replay_conflict(t *testing.T) {
	r, _ := newTestRouter(t)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/chords/C/play", nil))
	if first.Code != http.StatusAccepted {
		t.Fatalf("first play: expected 202, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/chords/C/play", nil))
	if second.Code != http.StatusConflict {
		t.Errorf("replay: expected 409, got %d", second.Code)
	}
}

func TestHandler_PlayChord_unknown_chord(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chords/Zsus99/play", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_PlayChord_bad_hint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chords/C/play?hint=backwards", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_resets_allow_replay(t *testing.T) {
	r, _ := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/chords/C/play", nil))

	reset := httptest.NewRecorder()
	r.ServeHTTP(reset, httptest.NewRequest(http.MethodPost, "/attempts/next", nil))
	if reset.Code != http.StatusOK {
		t.Fatalf("attempt reset: expected 200, got %d", reset.Code)
	}

	again := httptest.NewRecorder()
	r.ServeHTTP(again, httptest.NewRequest(http.MethodPost, "/chords/C/play", nil))
	if again.Code != http.StatusAccepted {
		t.Errorf("replay after reset: expected 202, got %d", again.Code)
	}
}

func TestHandler_GetStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var got Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if got.IsLoading || got.LastError != "" {
		t.Errorf("idle orchestrator should report a clean status, got %+v", got)
	}
}
