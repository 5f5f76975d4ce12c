package session

import (
	"context"

	"github.com/pkg/errors"
)

type (
	// Ledger is the read surface the resolver needs from the contract gateway.
	Ledger interface {
		// GetUserRole returns RoleUnknown (not an error) for an account the
		// ledger has no role for.
		GetUserRole(ctx context.Context, account string) (Role, error)
		// GetUserInfo returns a zero Profile (not an error) for an account the
		// ledger has no row for.
		GetUserInfo(ctx context.Context, account string) (Profile, error)
	}

	// Resolver derives a Session from an account. The two lookups are issued
	// sequentially and combined into a single Session value so that no consumer
	// can observe one without the other.
	Resolver struct {
		ledger Ledger
	}
)

func NewResolver(ledger Ledger) *Resolver {
	return &Resolver{ledger: ledger}
}

func (r *Resolver) Resolve(ctx context.Context, account string) (Session, error) {
	role, err := r.ledger.GetUserRole(ctx, account)
	if err != nil {
		return Session{}, errors.Wrap(err, "looking up role")
	}
	profile, err := r.ledger.GetUserInfo(ctx, account)
	if err != nil {
		return Session{}, errors.Wrap(err, "looking up profile")
	}
	return Session{
		Account: account,
		Role:    role,
		Profile: profile,
	}, nil
}
