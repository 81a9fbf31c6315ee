package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Branch             string          `json:"branch,omitempty"`
	FromBranch         string          `json:"from_branch,omitempty"`
	ToBranch           string          `json:"to_branch,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	Reason             string          `json:"reason,omitempty"`
	Actor              string          `json:"actor,omitempty"`
	ReferenceKind      string          `json:"reference_kind,omitempty"`
	ReferenceID        string          `json:"reference_id,omitempty"`
	Reversed           bool            `json:"reversed"`
	ReversedAt         *time.Time      `json:"reversed_at,omitempty"`
	ReversedBy         string          `json:"reversed_by,omitempty"`
	OriginalMovementID *string         `json:"original_movement_id,omitempty"`
	UpdatedBy          string          `json:"updated_by,omitempty"`
	UpdateReason       string          `json:"update_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:                 m.ID,
		Kind:               string(m.Kind),
		Branch:             m.Branch,
		FromBranch:         m.FromBranch,
		ToBranch:           m.ToBranch,
		Amount:             m.Amount,
		Reason:             m.Reason,
		Actor:              m.Actor,
		ReferenceKind:      m.ReferenceKind,
		ReferenceID:        m.ReferenceID,
		Reversed:           m.Reversed,
		ReversedAt:         m.ReversedAt,
		ReversedBy:         m.ReversedBy,
		OriginalMovementID: m.OriginalMovementID,
		UpdatedBy:          m.UpdatedBy,
		UpdateReason:       m.UpdateReason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// MovementListResponse is one page of movements.
type MovementListResponse struct {
	Items  []*MovementResponse `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// MovementPageFromUseCase converts a use case page to a response.
func MovementPageFromUseCase(page *usecase.MovementPage) *MovementListResponse {
	return &MovementListResponse{
		Items:  MovementsFromDomain(page.Items),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

// ReversalResponse pairs the reversed movement with its compensating one.
type ReversalResponse struct {
	Original     *MovementResponse `json:"original"`
	Compensating *MovementResponse `json:"compensating"`
}

// ReversalFromUseCase converts a reversal result to a response.
func ReversalFromUseCase(result *usecase.ReverseMovementResult) *ReversalResponse {
	return &ReversalResponse{
		Original:     MovementFromDomain(result.Original),
		Compensating: MovementFromDomain(result.Compensating),
	}
}

// DiscrepancyResponse represents one branch whose balance drifted.
type DiscrepancyResponse struct {
	Branch        string          `json:"branch"`
	Recorded      decimal.Decimal `json:"recorded"`
	Computed      decimal.Decimal `json:"computed"`
	Diff          decimal.Decimal `json:"diff"`
	MovementCount int64           `json:"movement_count"`
}

// ReconciliationResponse represents one reconciliation run.
type ReconciliationResponse struct {
	CheckedAt     time.Time             `json:"checked_at"`
	Consistent    bool                  `json:"consistent"`
	BranchCount   int                   `json:"branch_count"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(report *usecase.ReconciliationReport) *ReconciliationResponse {
	discrepancies := make([]DiscrepancyResponse, len(report.Discrepancies))
	for i, d := range report.Discrepancies {
		discrepancies[i] = DiscrepancyResponse{
			Branch:        d.Branch,
			Recorded:      d.Recorded,
			Computed:      d.Computed,
			Diff:          d.Diff,
			MovementCount: d.MovementCount,
		}
	}

	return &ReconciliationResponse{
		CheckedAt:     report.CheckedAt,
		Consistent:    report.Consistent,
		BranchCount:   report.BranchCount,
		Discrepancies: discrepancies,
	}
}

// DailyClosingResponse lists the movements a closing produced.
type DailyClosingResponse struct {
	Movements []*MovementResponse `json:"movements"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
