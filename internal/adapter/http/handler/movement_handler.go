package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adelh/branchcash/internal/adapter/http/dto"
	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	ledgerUC   *usecase.LedgerUseCase
	movementUC *usecase.MovementUseCase
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(ledgerUC *usecase.LedgerUseCase, movementUC *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{
		ledgerUC:   ledgerUC,
		movementUC: movementUC,
	}
}

// Record records a new cash movement.
func (h *MovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.ledgerUC.RecordMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record movement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Transfer records a branch-to-branch transfer.
func (h *MovementHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.ledgerUC.RecordMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// List lists movements matching the query filters, newest first.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.MovementFilter{
		Branch: r.URL.Query().Get("branch"),
		Kind:   domain.MovementKind(r.URL.Query().Get("kind")),
		From:   parseTimeQuery(r, "from"),
		To:     parseTimeQuery(r, "to"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	page, err := h.movementUC.ListMovements(r.Context(), filter)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list movements", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementPageFromUseCase(page))
}

// Reverse reverses a movement with a compensating one.
func (h *MovementHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	var req dto.ReverseMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.ReverseMovement(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse movement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ReversalFromUseCase(result))
}

// Edit corrects the financial fields of a movement.
func (h *MovementHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	var req dto.EditMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.ledgerUC.EditMovement(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to edit movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}
