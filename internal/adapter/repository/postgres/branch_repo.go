package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

const branchColumns = `code, name, type, cash_balance, created_at, updated_at`

// BranchRepository implements usecase.BranchRepository.
type BranchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

// Create creates a new branch.
func (r *BranchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		branch.Code,
		branch.Name,
		string(branch.Type),
		decimalToNumeric(branch.CashBalance),
		timeToPgTimestamptz(branch.CreatedAt),
		timeToPgTimestamptz(branch.UpdatedAt),
	)

	return err
}

// GetByCode retrieves a branch by its code.
func (r *BranchRepository) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE code = $1`

	return scanBranch(r.pool.QueryRow(ctx, query, code))
}

// GetByCodeForUpdate retrieves a branch with a FOR UPDATE lock.
func (r *BranchRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Branch, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + branchColumns + ` FROM branches WHERE code = $1 FOR UPDATE`

	return scanBranch(pgxTx.QueryRow(ctx, query, code))
}

// GetByCodesForUpdate retrieves multiple branches with FOR UPDATE locks.
// Rows lock in the order PostgreSQL returns them, so callers pass codes
// already sorted and the ORDER BY here matches.
func (r *BranchRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Branch, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + branchColumns + `
		FROM branches
		WHERE code = ANY($1)
		ORDER BY code
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0, len(codes))
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	return branches, rows.Err()
}

// UpdateBalance updates the cash balance of a branch.
func (r *BranchRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE branches SET cash_balance = $2, updated_at = $3 WHERE code = $1`

	tag, err := pgxTx.Exec(ctx, query, code, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBranchNotFound
	}

	return nil
}

// List retrieves branches ordered by code.
func (r *BranchRepository) List(ctx context.Context, limit, offset int) ([]*domain.Branch, error) {
	query := `
		SELECT ` + branchColumns + `
		FROM branches
		ORDER BY code
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*domain.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	return branches, rows.Err()
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	var (
		branch    domain.Branch
		kind      string
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&branch.Code, &branch.Name, &kind, &balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}

		return nil, err
	}

	branch.Type = domain.BranchType(kind)
	branch.CashBalance = numericToDecimal(balance)
	branch.CreatedAt = createdAt.Time
	branch.UpdatedAt = updatedAt.Time

	return &branch, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
