package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/ledger"
)

type (
	// Ledger is the account surface of the contract gateway.
	Ledger interface {
		session.Ledger
		RegisterUser(ctx context.Context, reg Registration) error
		AssignRole(ctx context.Context, account string, role session.Role) error
		RemoveUser(ctx context.Context, account string) error
		AllUsers(ctx context.Context) ([]string, error)
	}

	Service struct {
		ledger Ledger
	}
)

func NewService(l Ledger) *Service {
	return &Service{ledger: l}
}

// Register submits the caller's profile. Admins cannot register; they have no
// student-style profile row. The ledger enforces this too, this check only
// saves the caller a doomed transaction.
func (svc *Service) Register(ctx context.Context, account string, reg Registration) error {
	role, err := svc.ledger.GetUserRole(ctx, account)
	if err != nil {
		return errors.Wrap(err, "looking up caller role")
	}
	if role == session.RoleAdmin {
		return core.NewValidationError(errors.New("an admin cannot register as a user"))
	}
	return errors.Wrap(svc.ledger.RegisterUser(ctx, reg), "registering user")
}

func (svc *Service) AssignRole(ctx context.Context, account string, role session.Role) error {
	if !role.Known() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	return errors.Wrap(svc.ledger.AssignRole(ctx, account, role), "assigning role")
}

func (svc *Service) RemoveUser(ctx context.Context, account string) error {
	return errors.Wrap(svc.ledger.RemoveUser(ctx, account), "removing user")
}

// Get returns a single account's ledger view; ledger.ErrNotFound when the
// ledger holds neither a role nor a profile for it.
func (svc *Service) Get(ctx context.Context, account string) (User, error) {
	role, err := svc.ledger.GetUserRole(ctx, account)
	if err != nil {
		return User{}, errors.Wrap(err, "looking up role")
	}
	profile, err := svc.ledger.GetUserInfo(ctx, account)
	if err != nil {
		return User{}, errors.Wrap(err, "looking up profile")
	}
	if !role.Known() && profile == (session.Profile{}) {
		return User{}, ledger.ErrNotFound
	}
	return User{Account: account, Role: role, Profile: profile}, nil
}

// QueryAll lists every account the ledger knows, with role and profile.
func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	accounts, err := svc.ledger.AllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	users := make([]User, 0, len(accounts))
	for _, account := range accounts {
		usr, err := svc.Get(ctx, account)
		if err != nil {
			if errors.Cause(err) == ledger.ErrNotFound {
				continue
			}
			return nil, err
		}
		users = append(users, usr)
	}
	return users, nil
}
