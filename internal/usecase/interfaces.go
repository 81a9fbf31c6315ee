package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
)

// BranchRepository defines data access for branch balances.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	GetByCode(ctx context.Context, code string) (*domain.Branch, error)
	GetByCodeForUpdate(ctx context.Context, tx Transaction, code string) (*domain.Branch, error)
	GetByCodesForUpdate(ctx context.Context, tx Transaction, codes []string) ([]*domain.Branch, error)
	UpdateBalance(ctx context.Context, tx Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Branch, error)
}

// MovementFilter narrows movement listing.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Branch string
	Kind   domain.MovementKind
	Limit  int
	Offset int
}

// MovementRepository defines data access for the movement log.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Movement, error)
	// MarkReversed flips the reversal fields; financial fields are untouched.
	MarkReversed(ctx context.Context, tx Transaction, id, reversedBy string, reversedAt time.Time) error
	// UpdateFinancial persists kind/amount/branch fields plus the edit audit
	// fields (updatedBy, updateReason, updatedAt).
	UpdateFinancial(ctx context.Context, tx Transaction, movement *domain.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*domain.Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int64, error)
	// SumByBranch aggregates the signed net effect of all movements per
	// branch (transfers contribute to both sides).
	SumByBranch(ctx context.Context) ([]domain.BranchNet, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key, e.g. when the guarded request failed and a
	// retry should be allowed through.
	Delete(ctx context.Context, key string) error
}
