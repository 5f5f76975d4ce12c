// Package wallet adapts an account/signing provider: it is the single source
// of "who is calling". The dashboard holds one active account at a time;
// switching accounts is broadcast so the session can be re-derived in full.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/pkg/errors"
)

var (
	// ErrNoProvider means no wallet provider (keystore) is available at all.
	ErrNoProvider = errors.New("no wallet provider available")

	// ErrRejected means the provider declined to grant access or to sign.
	ErrRejected = errors.New("wallet access rejected")

	// ErrNotConnected means no account is active.
	ErrNotConnected = errors.New("no active wallet account")
)

// Wallet is the provider interface. Addresses are lowercased 0x-hex strings.
type Wallet interface {
	// Connect requests account access and activates the preferred (or first)
	// account. ErrNoProvider when no provider is present, ErrRejected when
	// access is declined.
	Connect(ctx context.Context) (string, error)

	// Current returns the active account, if any.
	Current() (string, bool)

	// Accounts lists every account the provider holds.
	Accounts() []string

	// SwitchAccount activates another held account and emits a change.
	SwitchAccount(ctx context.Context, account string) error

	// Disconnect deactivates the current account and emits an empty change.
	Disconnect()

	// Changes streams the active account; an empty string means the session
	// must return to an unauthenticated state.
	Changes() <-chan string

	// TransactOpts returns signing options bound to the active account.
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}
