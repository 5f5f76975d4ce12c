package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const (
	acctA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	acctB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func TestMemoryWallet_connect(t *testing.T) {
	ctx := context.Background()

	w := NewMemoryWallet()
	_, err := w.Connect(ctx)
	assert.Equal(t, ErrNoProvider, err)

	w = NewMemoryWallet(acctA, acctB)
	w.Reject = true
	_, err = w.Connect(ctx)
	assert.Equal(t, ErrRejected, err)

	w.Reject = false
	account, err := w.Connect(ctx)
	assert.NoError(t, err)
	// accounts are normalized to lowercase hex
	assert.Equal(t, "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", account)

	current, ok := w.Current()
	assert.True(t, ok)
	assert.Equal(t, account, current)
}

func TestMemoryWallet_switchAccount(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWallet(acctA, acctB)

	_, err := w.Connect(ctx)
	assert.NoError(t, err)

	// case-insensitive match against held accounts
	assert.NoError(t, w.SwitchAccount(ctx, acctB))
	current, _ := w.Current()
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", current)

	err = w.SwitchAccount(ctx, "0x0000000000000000000000000000000000000001")
	assert.Equal(t, ErrNoProvider, errors.Cause(err))
}

func TestMemoryWallet_changes(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWallet(acctA)

	account, err := w.Connect(ctx)
	assert.NoError(t, err)
	assert.Equal(t, account, <-w.Changes())

	w.Disconnect()
	assert.Equal(t, "", <-w.Changes())

	_, ok := w.Current()
	assert.False(t, ok)
}

func TestMemoryWallet_transactOpts(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWallet(acctA)

	_, err := w.TransactOpts(ctx, big.NewInt(31337))
	assert.Equal(t, ErrNotConnected, err)

	_, err = w.Connect(ctx)
	assert.NoError(t, err)

	opts, err := w.TransactOpts(ctx, big.NewInt(31337))
	assert.NoError(t, err)
	assert.NotNil(t, opts)
}
