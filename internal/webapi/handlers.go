// Package webapi exposes the evaluation data as a JSON API for the
// dashboard server.
package webapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/taskeval/evalboard/internal/report"
	"github.com/taskeval/evalboard/internal/store"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0"

// defaultThemeLimit caps the theme list when no limit query is given.
const defaultThemeLimit = 5

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store store.Store
}

// NewHandlers creates a new Handlers backed by the given store.
func NewHandlers(st store.Store) *Handlers {
	return &Handlers{store: st}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleSummary returns the aggregate correct/incorrect counts.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	evals, err := h.store.FetchEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s := report.Summarize(evals)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Total:         s.Total,
		Correct:       s.Correct,
		Incorrect:     s.Incorrect,
		CorrectRate:   s.CorrectRate(),
		IncorrectRate: s.IncorrectRate(),
	})
}

// HandleEvaluations returns all evaluations, optionally filtered to one
// task with ?task=<id>.
func (h *Handlers) HandleEvaluations(w http.ResponseWriter, r *http.Request) {
	evals, err := h.store.FetchEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	taskFilter := r.URL.Query().Get("task")
	views := make([]EvaluationView, 0, len(evals))
	for _, e := range evals {
		if taskFilter != "" && e.TaskID != taskFilter {
			continue
		}
		views = append(views, toView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleThemes returns the most frequent feedback tokens. The list size
// is controlled with ?limit=<n>.
func (h *Handlers) HandleThemes(w http.ResponseWriter, r *http.Request) {
	limit := defaultThemeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	evals, err := h.store.FetchEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	themes := report.TopFeedbackThemes(evals, limit)
	if themes == nil {
		themes = []report.Theme{}
	}
	writeJSON(w, http.StatusOK, themes)
}

// HandleGaps returns the time-gap statistics between evaluations.
func (h *Handlers) HandleGaps(w http.ResponseWriter, r *http.Request) {
	evals, err := h.store.FetchEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	gaps := report.EvaluationGaps(evals)
	if gaps.GapsMinutes == nil {
		gaps.GapsMinutes = []float64{}
	}
	writeJSON(w, http.StatusOK, gaps)
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, st store.Store) {
	h := NewHandlers(st)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/evaluations", h.HandleEvaluations)
	mux.HandleFunc("GET /api/report/themes", h.HandleThemes)
	mux.HandleFunc("GET /api/report/gaps", h.HandleGaps)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
