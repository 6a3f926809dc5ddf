package playback

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the playback core over HTTP using go-chi. This is the
// inbound surface the game/view layer calls.
type Handler struct {
	orc *Orchestrator
	log *slog.Logger
}

// NewHandler returns a Handler driving the given Orchestrator.
func NewHandler(orc *Orchestrator, log *slog.Logger) *Handler {
	return &Handler{orc: orc, log: log}
}

// Routes mounts the playback endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/chords/{chord_key}/play", h.PlayChord)
	r.Post("/attempts/next", h.NextAttempt)
	r.Post("/rounds/next", h.NextRound)
	r.Get("/status", h.GetStatus)
}

// PlayChord handles POST /chords/{chord_key}/play?hint=...&audio=...
// Playback runs asynchronously; 202 means the request was accepted.
func (h *Handler) PlayChord(w http.ResponseWriter, r *http.Request) {
	chordKey := chi.URLParam(r, "chord_key")
	if chordKey == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	hint := HintType(r.URL.Query().Get("hint"))
	if hint == "" {
		hint = HintFullChord
	}
	opt := AudioOption(r.URL.Query().Get("audio"))

	err := h.orc.PlayChord(chordKey, hint, opt)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, ErrAlreadyPlayed):
		// Legitimate refusal, not a failure: the chord was already heard
		// this attempt.
		h.log.Debug("replay refused", slog.String("chord", chordKey))
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrUnknownChord):
		w.WriteHeader(http.StatusNotFound)
	default:
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.log.Info("configuration rejected",
				slog.String("chord", chordKey),
				slog.String("error", verr.Error()))
		}
		w.WriteHeader(http.StatusBadRequest)
	}
}

// NextAttempt handles POST /attempts/next.
func (h *Handler) NextAttempt(w http.ResponseWriter, r *http.Request) {
	h.orc.ResetForNewAttempt()
	w.WriteHeader(http.StatusOK)
}

// NextRound handles POST /rounds/next.
func (h *Handler) NextRound(w http.ResponseWriter, r *http.Request) {
	h.orc.ResetForNewRound()
	w.WriteHeader(http.StatusOK)
}

// GetStatus handles GET /status with a JSON snapshot of the observable
// playback state.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.orc.Status().Snapshot()); err != nil {
		h.log.Error("encode status failed", slog.String("error", err.Error()))
	}
}
