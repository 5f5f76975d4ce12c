package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
)

// Manager owns the single process-wide session. Account changes reset the
// session entirely and re-derive it; there is no partial refresh, so a stale
// (role, profile) pair can never survive an account switch.
type Manager struct {
	mu       sync.RWMutex
	snap     Snapshot
	resolver *Resolver
	logger   core.Logger
}

func NewManager(resolver *Resolver, logger core.Logger) *Manager {
	return &Manager{
		snap:     Snapshot{State: StateDisconnected},
		resolver: resolver,
		logger:   logger,
	}
}

// Snapshot returns the current lifecycle view. The contained Session pointer
// is never mutated after publication.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// SetAccount makes account the active identity and derives its session.
// An empty account disconnects.
func (m *Manager) SetAccount(ctx context.Context, account string) (Snapshot, error) {
	if account == "" {
		m.publish(Snapshot{State: StateDisconnected})
		return m.Snapshot(), nil
	}

	m.publish(Snapshot{State: StateResolving, Account: account})

	sess, err := m.resolver.Resolve(ctx, account)
	if err != nil {
		m.publish(Snapshot{State: StateDisconnected})
		return Snapshot{}, errors.Wrap(err, "resolving session")
	}
	m.publish(Snapshot{State: StateReady, Account: account, Session: &sess})
	return m.Snapshot(), nil
}

// Refresh re-derives the session for the current account, e.g. after a
// registration write landed. No-op when disconnected.
func (m *Manager) Refresh(ctx context.Context) (Snapshot, error) {
	snap := m.Snapshot()
	if snap.State == StateDisconnected {
		return snap, nil
	}
	return m.SetAccount(ctx, snap.Account)
}

// Watch consumes wallet account-change notifications until ctx is done.
// Every account change triggers a full re-derivation; an empty account returns
// the session to the unauthenticated state. An emission for the account that
// is already the ready session is dropped: the connect/switch path derives the
// session itself, and resolution is idempotent absent an account change.
func (m *Manager) Watch(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case account, ok := <-changes:
			if !ok {
				return
			}
			if snap := m.Snapshot(); snap.State == StateReady && snap.Account == account {
				continue
			}
			if _, err := m.SetAccount(ctx, account); err != nil {
				m.logger.Error(fmt.Sprintf("session re-derivation failed: %v", err), err)
			}
		}
	}
}

func (m *Manager) publish(snap Snapshot) {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}
