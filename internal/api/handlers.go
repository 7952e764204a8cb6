package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftlab/driftwatch/internal/apperr"
	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/pipeline"
	"github.com/driftlab/driftwatch/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	pipe   *pipeline.Pipeline
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil.
func NewHandler(pipe *pipeline.Pipeline, broker *sse.Broker) *Handler {
	return &Handler{pipe: pipe, broker: broker}
}

// Analyze handles POST /api/startups/{startupID}/analyze.
//
// Runs the full snapshot pipeline for one founder submission and returns
// the analysis bundle. An unseen startup is created, not an error. Oracle
// failures surface as 500; a concurrent duplicate version as 409.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	startupID := chi.URLParam(r, "startupID")
	if startupID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("startup id is required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.pipe.Analyze(r.Context(), startupID, req.InputText)
	if err != nil {
		if errors.Is(err, apperr.ErrVersionConflict) {
			writeJSON(w, http.StatusConflict, errorBody("snapshot version already exists, retry"))
			return
		}
		slog.Error("analyze failed",
			slog.String("startup_id", startupID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	if h.broker != nil {
		h.broker.PublishAnalysis(result.Snapshot.StartupID, result.Snapshot.Version, result.Status)
	}
	writeJSON(w, http.StatusOK, result)
}

// ListStartups handles GET /api/startups.
func (h *Handler) ListStartups(w http.ResponseWriter, r *http.Request) {
	startups, err := h.pipe.ListStartups(r.Context())
	if err != nil {
		slog.Error("list startups failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if startups == nil {
		startups = []models.StartupInfo{}
	}
	writeJSON(w, http.StatusOK, StartupListResponse{Startups: startups})
}

// History handles GET /api/startups/{startupID}/snapshots.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	startupID := chi.URLParam(r, "startupID")
	snapshots, err := h.pipe.History(r.Context(), startupID)
	if err != nil {
		slog.Error("history failed",
			slog.String("startup_id", startupID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	writeJSON(w, http.StatusOK, SnapshotListResponse{Snapshots: snapshots})
}

// LatestSnapshot handles GET /api/startups/{startupID}/snapshots/latest.
func (h *Handler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	startupID := chi.URLParam(r, "startupID")
	snap, err := h.pipe.Latest(r.Context(), startupID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("latest snapshot failed",
			slog.String("startup_id", startupID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
