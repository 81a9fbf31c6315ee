package domain

import "errors"

var (
	// Branch errors
	ErrBranchNotFound      = errors.New("branch not found")
	ErrInsufficientBalance = errors.New("insufficient cash balance")

	// Movement errors
	ErrInvalidKind              = errors.New("invalid cash movement kind")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrBranchRequired           = errors.New("branch required for deposit or expense")
	ErrTransferBranchesRequired = errors.New("fromBranch and toBranch required for transfer")
	ErrSameBranch               = errors.New("cannot transfer to same branch")
	ErrMovementNotFound         = errors.New("movement not found")
	ErrAlreadyReversed          = errors.New("movement already reversed")
	ErrNoChanges                = errors.New("no changes requested")
	ErrUpdateReasonRequired     = errors.New("update reason required")
	ErrCorruptMovement          = errors.New("movement amount is corrupt")
)
