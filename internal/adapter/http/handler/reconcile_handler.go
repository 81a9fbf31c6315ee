package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/adelh/branchcash/internal/adapter/http/dto"
	"github.com/adelh/branchcash/internal/usecase"
)

// ReportCache stores and serves the most recent reconciliation report.
type ReportCache interface {
	SetLatest(ctx context.Context, report *usecase.ReconciliationReport, ttl time.Duration) error
	Latest(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconcileHandler handles reconciliation requests.
type ReconcileHandler struct {
	reconcileUC *usecase.ReconciliationUseCase
	cache       ReportCache
	cacheTTL    time.Duration
}

// NewReconcileHandler creates a new ReconcileHandler. The cache may be
// nil, in which case every request reruns the aggregation.
func NewReconcileHandler(reconcileUC *usecase.ReconciliationUseCase, cache ReportCache, cacheTTL time.Duration) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileUC: reconcileUC,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// Run triggers a reconciliation and returns the fresh report.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileUC.Report(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reconciliation failed", err.Error())
		return
	}

	if h.cache != nil {
		// Best effort; a cache write failure never fails the run.
		_ = h.cache.SetLatest(r.Context(), report, h.cacheTTL)
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}

// Latest serves the most recent cached report, falling back to a fresh
// run when nothing is cached.
func (h *ReconcileHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		report, err := h.cache.Latest(r.Context())
		if err == nil && report != nil {
			writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
			return
		}
	}

	h.Run(w, r)
}
