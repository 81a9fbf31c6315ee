package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

const movementColumns = `
	id, kind, branch, from_branch, to_branch, amount,
	reason, actor, reference_kind, reference_id,
	reversed, reversed_at, reversed_by, original_movement_id,
	updated_by, update_reason, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a new movement inside the given transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO cash_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := pgxTx.Exec(ctx, query,
		movement.ID,
		string(movement.Kind),
		movement.Branch,
		movement.FromBranch,
		movement.ToBranch,
		decimalToNumeric(movement.Amount),
		movement.Reason,
		movement.Actor,
		movement.ReferenceKind,
		movement.ReferenceID,
		movement.Reversed,
		movement.ReversedAt,
		movement.ReversedBy,
		movement.OriginalMovementID,
		movement.UpdatedBy,
		movement.UpdateReason,
		timeToPgTimestamptz(movement.CreatedAt),
		timeToPgTimestamptz(movement.UpdatedAt),
	)

	return err
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM cash_movements WHERE id = $1`

	return scanMovement(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a movement with a FOR UPDATE lock. Reversal
// and edit both lock the row first so concurrent attempts serialize.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + movementColumns + ` FROM cash_movements WHERE id = $1 FOR UPDATE`

	return scanMovement(pgxTx.QueryRow(ctx, query, id))
}

// MarkReversed flips the reversal fields of a movement.
func (r *MovementRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id, reversedBy string, reversedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE cash_movements
		SET reversed = TRUE, reversed_by = $2, reversed_at = $3, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, reversedBy, timeToPgTimestamptz(reversedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// UpdateFinancial persists the financial fields plus the edit audit trail.
func (r *MovementRepository) UpdateFinancial(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE cash_movements
		SET kind = $2, branch = $3, from_branch = $4, to_branch = $5, amount = $6,
		    updated_by = $7, update_reason = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		movement.ID,
		string(movement.Kind),
		movement.Branch,
		movement.FromBranch,
		movement.ToBranch,
		decimalToNumeric(movement.Amount),
		movement.UpdatedBy,
		movement.UpdateReason,
		timeToPgTimestamptz(movement.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// List retrieves movements matching the filter, newest first.
func (r *MovementRepository) List(ctx context.Context, filter usecase.MovementFilter) ([]*domain.Movement, error) {
	where, args := buildMovementFilter(filter)

	query := `SELECT ` + movementColumns + ` FROM cash_movements` + where +
		` ORDER BY created_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

// Count returns the unpaged number of movements matching the filter.
func (r *MovementRepository) Count(ctx context.Context, filter usecase.MovementFilter) (int64, error) {
	where, args := buildMovementFilter(filter)

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cash_movements`+where, args...).Scan(&count)

	return count, err
}

// SumByBranch aggregates the signed net effect of every movement per
// branch. Transfers contribute a debit to the source and a credit to
// the destination, so each leg counts as one movement for that branch.
func (r *MovementRepository) SumByBranch(ctx context.Context) ([]domain.BranchNet, error) {
	query := `
		SELECT branch, SUM(amount) AS net, COUNT(*) AS movement_count
		FROM (
			SELECT branch,
			       CASE WHEN kind = 'deposit' THEN amount ELSE -amount END AS amount
			FROM cash_movements
			WHERE kind IN ('deposit', 'expense')
			UNION ALL
			SELECT from_branch, -amount FROM cash_movements WHERE kind = 'transfer'
			UNION ALL
			SELECT to_branch, amount FROM cash_movements WHERE kind = 'transfer'
		) effects
		GROUP BY branch
		ORDER BY branch
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nets []domain.BranchNet
	for rows.Next() {
		var (
			net domain.BranchNet
			sum pgtype.Numeric
		)

		if err := rows.Scan(&net.Branch, &sum, &net.MovementCount); err != nil {
			return nil, err
		}

		net.Net = numericToDecimal(sum)
		nets = append(nets, net)
	}

	return nets, rows.Err()
}

func buildMovementFilter(filter usecase.MovementFilter) (string, []any) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.Branch != "" {
		pos := strconv.Itoa(len(args) + 1)
		where += ` AND (branch = $` + pos + ` OR from_branch = $` + pos + ` OR to_branch = $` + pos + `)`
		args = append(args, filter.Branch)
	}

	if filter.Kind != "" {
		where += ` AND kind = $` + strconv.Itoa(len(args)+1)
		args = append(args, string(filter.Kind))
	}

	if filter.From != nil {
		where += ` AND created_at >= $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.From)
	}

	if filter.To != nil {
		where += ` AND created_at <= $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.To)
	}

	return where, args
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement   domain.Movement
		kind       string
		amount     pgtype.Numeric
		reversedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&movement.ID,
		&kind,
		&movement.Branch,
		&movement.FromBranch,
		&movement.ToBranch,
		&amount,
		&movement.Reason,
		&movement.Actor,
		&movement.ReferenceKind,
		&movement.ReferenceID,
		&movement.Reversed,
		&reversedAt,
		&movement.ReversedBy,
		&movement.OriginalMovementID,
		&movement.UpdatedBy,
		&movement.UpdateReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	movement.Kind = domain.MovementKind(kind)
	movement.Amount = numericToDecimal(amount)
	movement.CreatedAt = createdAt.Time
	movement.UpdatedAt = updatedAt.Time

	if reversedAt.Valid {
		t := reversedAt.Time
		movement.ReversedAt = &t
	}

	return &movement, nil
}
