package domain

import "errors"

var (
	// ErrInvalidAmount is returned when a requested amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance is returned when a requested amount exceeds the
	// owner's effective available balance or the sum of the selected earnings
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrWithdrawalLimitExceeded is returned when a farmer requests more than
	// the per-request withdrawal cap of their available balance
	ErrWithdrawalLimitExceeded = errors.New("withdrawal limit exceeded")

	// ErrTokenAssociationRequired is returned when the recipient has not
	// associated the payout token with their account on the ledger
	ErrTokenAssociationRequired = errors.New("token association required")

	// ErrTransferFailed is returned when the ledger transfer was attempted and rejected
	ErrTransferFailed = errors.New("transfer failed")

	// ErrTransferOutcomeUnknown is returned when the ledger call timed out or
	// errored in a way that leaves the transfer outcome undetermined.
	// The intent is left pending for the reconciliation sweeper.
	ErrTransferOutcomeUnknown = errors.New("transfer outcome unknown")

	// ErrEarningNotFound is returned when a claim references earning records
	// that do not exist or do not belong to the caller
	ErrEarningNotFound = errors.New("earning record not found")

	// ErrEarningNotClaimable is returned when a claim references earning
	// records that are not in the distributed state
	ErrEarningNotClaimable = errors.New("earning record not claimable")

	// ErrIntentNotPending is returned when a terminal transition is attempted
	// on an intent that is no longer pending
	ErrIntentNotPending = errors.New("transfer intent not pending")

	// ErrAmountOverflow is returned when checked money arithmetic would overflow
	ErrAmountOverflow = errors.New("amount overflow")
)
