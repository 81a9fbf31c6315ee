package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultReconcileTolerance absorbs decimal-serialization artifacts when
	// comparing a stored balance against the summed movement log
	DefaultReconcileTolerance = "0.001"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessing is the placeholder stored while the first
	// request holding a key is still in flight
	IdempotencyProcessing = "processing"
)
