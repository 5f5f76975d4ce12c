// Package ledger defines the failure taxonomy and call conventions shared by
// every implementation of the contract gateway. The ledger itself (role storage,
// grade storage, authorization enforcement, finality) is an external collaborator;
// this package only names the ways talking to it can go wrong.
package ledger

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is signaled by the ledger when the caller's role does not
	// permit the attempted write.
	ErrUnauthorized = errors.New("caller is not authorized for this action")

	// ErrRejected means the caller (or their wallet) declined to sign the write.
	ErrRejected = errors.New("transaction rejected by signer")

	// ErrReverted means the ledger refused the state transition, e.g. a duplicate
	// registration or a decision on a non-pending grade.
	ErrReverted = errors.New("transaction reverted by ledger")

	// ErrNotFound is a valid empty result, not a failure.
	ErrNotFound = errors.New("not found on ledger")
)

// RevertError carries the revert reason reported by the ledger.
// It matches ErrReverted under errors.Is.
type RevertError struct {
	Reason string
}

func NewRevertError(reason string) error {
	return &RevertError{Reason: reason}
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrReverted.Error()
	}
	return fmt.Sprintf("transaction reverted: %s", e.Reason)
}

func (e *RevertError) Is(target error) bool { return target == ErrReverted }

// callerKey carries the acting account through a context. The ethereum gateway
// signs with its wallet and ignores it; the in-memory ledger has no signer and
// needs it to enforce role authorization.
type callerKey struct{}

// WithCaller marks ctx with the account issuing the call.
func WithCaller(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, callerKey{}, account)
}

// Caller returns the acting account previously set with WithCaller.
func Caller(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(callerKey{}).(string)
	return account, ok
}
