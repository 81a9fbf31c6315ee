package usecase

import (
	"context"

	"github.com/adelh/branchcash/internal/domain"
)

// MovementUseCase is the read path over the movement log. It has no
// balance-invariant implications.
type MovementUseCase struct {
	movementRepo MovementRepository
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(movementRepo MovementRepository) *MovementUseCase {
	return &MovementUseCase{movementRepo: movementRepo}
}

// GetMovement retrieves a movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// MovementPage is one page of movements plus the unpaged total.
type MovementPage struct {
	Items  []*domain.Movement
	Total  int64
	Limit  int
	Offset int
}

// ListMovements lists movements matching the filter, newest first.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter MovementFilter) (*MovementPage, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	items, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := uc.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &MovementPage{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}
