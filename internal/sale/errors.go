package sale

import (
	"errors"
	"fmt"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPartialCommit      = errors.New("sale recorded, stock not yet adjusted")
	ErrCompletionInFlight = errors.New("sale completion already in flight")
	ErrInvalidTransition  = errors.New("operation not allowed in current step")
)

// ValidationError rejects bad input before any store is called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StockError reports a request above the stock on hand at commit time.
type StockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PartialCommitError means the sale is in the ledger but the inventory
// decrement failed. Sale is the recorded sale; Cause is the decrement failure
// and is not unwrapped, errors.Is never sees it as a plain store failure.
type PartialCommitError struct {
	Sale  *domain.Sale
	Cause error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("%s: sale %d: %v", ErrPartialCommit.Error(), e.Sale.ID, e.Cause)
}

func (e *PartialCommitError) Is(target error) bool {
	return target == ErrPartialCommit
}

// Error codes reported to API clients
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeConstraint        = "CONSTRAINT_VIOLATION"
	CodePartialCommit     = "PARTIAL_COMMIT"
	CodePermission        = "PERMISSION_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeInFlight          = "COMPLETION_IN_FLIGHT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInternal          = "INTERNAL_ERROR"
)

// Code maps err onto the taxonomy. PartialCommit is tested first.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPartialCommit):
		return CodePartialCommit
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrCompletionInFlight):
		return CodeInFlight
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, store.ErrUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, store.ErrConstraint), errors.Is(err, store.ErrInUse):
		return CodeConstraint
	case errors.Is(err, store.ErrPermission):
		return CodePermission
	case errors.Is(err, store.ErrNotFound):
		return CodeNotFound
	}
	return CodeInternal
}

// Retryable reports whether the user may simply try again.
func Retryable(err error) bool {
	switch Code(err) {
	case CodeInsufficientStock, CodeInFlight:
		return true
	case CodeStoreUnavailable:
		return store.Retryable(err)
	}
	return false
}

// storeErr makes sure a collaborator failure carries a store class.
// Anything unclassified is treated as the store being unavailable.
func storeErr(op string, err error) error {
	if err == nil || store.Classified(err) {
		return err
	}
	return store.Wrap(store.ErrUnavailable, op, err)
}
