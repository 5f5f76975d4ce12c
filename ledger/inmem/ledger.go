// Package inmemledger is an in-process stand-in for the EducationGrades
// contract. It enforces the same rules the contract does (role-gated writes,
// duplicate-registration reverts, pending-only decisions) so the rest of the
// application can be exercised without a chain.
package inmemledger

import (
	"context"
	"strings"
	"sync"

	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	"github.com/talunzi/gradechain/ledger"
)

type Ledger struct {
	mu       sync.RWMutex
	roles    map[string]session.Role
	profiles map[string]session.Profile
	grades   map[string]grade.Grade
	gradeIDs []string // insertion order
	accounts []string // insertion order
}

var (
	_ session.Ledger = (*Ledger)(nil)
	_ grade.Ledger   = (*Ledger)(nil)
	_ user.Ledger    = (*Ledger)(nil)
)

// New creates a ledger with admin as its deployer/admin account.
func New(admin string) *Ledger {
	l := &Ledger{
		roles:    make(map[string]session.Role),
		profiles: make(map[string]session.Profile),
		grades:   make(map[string]grade.Grade),
	}
	admin = strings.ToLower(admin)
	l.roles[admin] = session.RoleAdmin
	l.accounts = append(l.accounts, admin)
	return l
}

// caller returns the signing account; a write without one is a rejected
// transaction, the same as a declined signature.
func (l *Ledger) caller(ctx context.Context) (string, error) {
	account, ok := ledger.Caller(ctx)
	if !ok || account == "" {
		return "", ledger.ErrRejected
	}
	return strings.ToLower(account), nil
}

func (l *Ledger) requireRole(ctx context.Context, allowed ...session.Role) (string, error) {
	account, err := l.caller(ctx)
	if err != nil {
		return "", err
	}
	l.mu.RLock()
	role := l.roleOf(account)
	l.mu.RUnlock()
	for _, a := range allowed {
		if role == a {
			return account, nil
		}
	}
	return "", ledger.ErrUnauthorized
}

func (l *Ledger) roleOf(account string) session.Role {
	if role, ok := l.roles[account]; ok {
		return role
	}
	return session.RoleUnknown
}

func (l *Ledger) track(account string) {
	for _, a := range l.accounts {
		if a == account {
			return
		}
	}
	l.accounts = append(l.accounts, account)
}

// session.Ledger

func (l *Ledger) GetUserRole(_ context.Context, account string) (session.Role, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.roleOf(strings.ToLower(account)), nil
}

func (l *Ledger) GetUserInfo(_ context.Context, account string) (session.Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.profiles[strings.ToLower(account)], nil
}

// user.Ledger

func (l *Ledger) RegisterUser(ctx context.Context, reg user.Registration) error {
	account, err := l.caller(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.roleOf(account) == session.RoleAdmin {
		return ledger.NewRevertError("admin cannot register")
	}
	if l.profiles[account].IsRegistered {
		return ledger.NewRevertError("user already exists")
	}
	for other, profile := range l.profiles {
		if other == account || !profile.IsRegistered {
			continue
		}
		if profile.Email == reg.Email || (reg.StudentID != "" && profile.StudentID == reg.StudentID) {
			return ledger.NewRevertError("user already exists")
		}
	}

	l.profiles[account] = session.Profile{
		IsRegistered:  true,
		Name:          reg.Name,
		StudentID:     reg.StudentID,
		Email:         reg.Email,
		ContactNumber: reg.ContactNumber,
	}
	l.track(account)
	return nil
}

func (l *Ledger) AssignRole(ctx context.Context, account string, role session.Role) error {
	if _, err := l.requireRole(ctx, session.RoleAdmin); err != nil {
		return err
	}
	if !role.Known() {
		return ledger.NewRevertError("invalid role")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	account = strings.ToLower(account)
	l.roles[account] = role
	l.track(account)
	return nil
}

func (l *Ledger) RemoveUser(ctx context.Context, account string) error {
	if _, err := l.requireRole(ctx, session.RoleAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	account = strings.ToLower(account)
	if _, hasRole := l.roles[account]; !hasRole {
		if _, hasProfile := l.profiles[account]; !hasProfile {
			return ledger.NewRevertError("unknown user")
		}
	}
	delete(l.roles, account)
	delete(l.profiles, account)
	for i, a := range l.accounts {
		if a == account {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			break
		}
	}
	return nil
}

func (l *Ledger) AllUsers(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.accounts...), nil
}
