package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidBranchCode = errors.New("invalid branch code")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrReasonTooLong     = errors.New("reason exceeds maximum length")
)

// Validation constants
const (
	MaxBranchCodeLength = 64
	MaxReasonLength     = 1024
	MaxMovementAmount   = "1000000000" // 1 billion
)

var branchCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateBranchCode validates a branch code.
func ValidateBranchCode(code string) error {
	code = strings.TrimSpace(code)

	if code == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidBranchCode)
	}

	if len(code) > MaxBranchCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidBranchCode, MaxBranchCodeLength)
	}

	if !branchCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: code contains forbidden characters", ErrInvalidBranchCode)
	}

	return nil
}

// ValidateAmount validates a movement amount against the allowed range.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidateReason validates a free-text reason field.
func ValidateReason(reason string) error {
	if len(reason) > MaxReasonLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrReasonTooLong, MaxReasonLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
