package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adelh/branchcash/internal/adapter/http/dto"
	"github.com/adelh/branchcash/internal/usecase"
)

// DailyHandler handles drawer opening and closing requests.
type DailyHandler struct {
	dailyUC *usecase.DailyCashUseCase
}

// NewDailyHandler creates a new DailyHandler.
func NewDailyHandler(dailyUC *usecase.DailyCashUseCase) *DailyHandler {
	return &DailyHandler{dailyUC: dailyUC}
}

// Opening records the opening drawer count for a branch.
func (h *DailyHandler) Opening(w http.ResponseWriter, r *http.Request) {
	var req dto.DailyOpeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.dailyUC.OpenDay(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record opening", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Closing records the closing drawer count plus end-of-day transfers.
func (h *DailyHandler) Closing(w http.ResponseWriter, r *http.Request) {
	var req dto.DailyClosingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movements, err := h.dailyUC.CloseDay(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record closing", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.DailyClosingResponse{
		Movements: dto.MovementsFromDomain(movements),
	})
}
