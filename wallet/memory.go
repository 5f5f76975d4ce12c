package wallet

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/pkg/errors"
)

// MemoryWallet is an in-process provider for tests and for the in-memory
// ledger, which needs no real signer.
type MemoryWallet struct {
	mu       sync.Mutex
	accounts []string
	current  string
	changes  chan string

	// Reject simulates the user declining the access prompt.
	Reject bool
}

var _ Wallet = (*MemoryWallet)(nil)

func NewMemoryWallet(accounts ...string) *MemoryWallet {
	normalized := make([]string, 0, len(accounts))
	for _, account := range accounts {
		normalized = append(normalized, strings.ToLower(account))
	}
	return &MemoryWallet{
		accounts: normalized,
		changes:  make(chan string, 8),
	}
}

func (w *MemoryWallet) Connect(_ context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.accounts) == 0 {
		return "", ErrNoProvider
	}
	if w.Reject {
		return "", ErrRejected
	}
	w.current = w.accounts[0]
	w.emit(w.current)
	return w.current, nil
}

func (w *MemoryWallet) Current() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.current != ""
}

func (w *MemoryWallet) Accounts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string{}, w.accounts...)
}

func (w *MemoryWallet) SwitchAccount(_ context.Context, account string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Reject {
		return ErrRejected
	}
	account = strings.ToLower(account)
	for _, held := range w.accounts {
		if held == account {
			w.current = account
			w.emit(account)
			return nil
		}
	}
	return errors.Wrapf(ErrNoProvider, "account %s not held", account)
}

func (w *MemoryWallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = ""
	w.emit("")
}

func (w *MemoryWallet) Changes() <-chan string {
	return w.changes
}

func (w *MemoryWallet) TransactOpts(context.Context, *big.Int) (*bind.TransactOpts, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == "" {
		return nil, ErrNotConnected
	}
	return &bind.TransactOpts{}, nil
}

func (w *MemoryWallet) emit(account string) {
	select {
	case w.changes <- account:
	default:
	}
}
