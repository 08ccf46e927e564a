package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFreeAddress is returned when the address pool has no unallocated address left
	ErrNoFreeAddress = errors.New("no free address")

	// ErrAlreadyRegistered is returned when an account already holds an address
	ErrAlreadyRegistered = errors.New("account already registered")

	// ErrAlreadyUsed is returned when a trigger hash was already consumed for an operation kind
	ErrAlreadyUsed = errors.New("trigger hash already used")

	// ErrQuorumNotReached is returned when not enough distinct signatures were collected in time
	ErrQuorumNotReached = errors.New("quorum not reached")

	// ErrMalformedOperation is returned when an operation cannot be canonicalized
	ErrMalformedOperation = errors.New("malformed operation")

	// ErrKeyUnavailable is returned when the signing key cannot be used
	ErrKeyUnavailable = errors.New("signing key unavailable")

	// ErrInvalidSignature is returned when a signature does not recover to the claimed signer
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUnverifiedTrigger is returned when the secondary ledger does not back the operation
	ErrUnverifiedTrigger = errors.New("trigger not verified")
)

// AlreadyRegisteredError carries the address the account already holds
type AlreadyRegisteredError struct {
	AccountID string
	Address   string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("account %s has already been registered with address %s", e.AccountID, e.Address)
}

func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

// QuorumNotReachedError carries the distinct proofs gathered before the deadline
type QuorumNotReachedError struct {
	Threshold int
	Partial   *QuorumProof
}

func (e *QuorumNotReachedError) Error() string {
	collected := 0
	if e.Partial != nil {
		collected = e.Partial.Len()
	}
	return fmt.Sprintf("quorum not reached: collected %d of %d signatures", collected, e.Threshold)
}

func (e *QuorumNotReachedError) Is(target error) bool {
	return target == ErrQuorumNotReached
}

// MalformedOperationError describes which field of an operation is invalid
func MalformedOperationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedOperation, fmt.Sprintf(format, args...))
}
