package wallet

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
)

// KeystoreWallet holds accounts in a go-ethereum keystore directory. Unlock
// failures map to ErrRejected: a bad passphrase is the local equivalent of
// declining the wallet's access prompt.
type KeystoreWallet struct {
	ks   *keystore.KeyStore
	conf core.WalletConfig

	mu      sync.Mutex
	current *accounts.Account
	changes chan string
}

var _ Wallet = (*KeystoreWallet)(nil)

func NewKeystoreWallet(conf core.WalletConfig) *KeystoreWallet {
	return &KeystoreWallet{
		ks:      keystore.NewKeyStore(conf.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP),
		conf:    conf,
		changes: make(chan string, 8),
	}
}

func (w *KeystoreWallet) Connect(ctx context.Context) (string, error) {
	accts := w.ks.Accounts()
	if len(accts) == 0 {
		return "", ErrNoProvider
	}

	acct := accts[0]
	if w.conf.Account != "" {
		found, err := w.find(w.conf.Account)
		if err != nil {
			return "", err
		}
		acct = found
	}
	return w.activate(acct)
}

func (w *KeystoreWallet) Current() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return "", false
	}
	return normalize(w.current.Address.Hex()), true
}

func (w *KeystoreWallet) Accounts() []string {
	accts := w.ks.Accounts()
	out := make([]string, 0, len(accts))
	for _, acct := range accts {
		out = append(out, normalize(acct.Address.Hex()))
	}
	return out
}

func (w *KeystoreWallet) SwitchAccount(_ context.Context, account string) error {
	acct, err := w.find(account)
	if err != nil {
		return err
	}
	_, err = w.activate(acct)
	return err
}

func (w *KeystoreWallet) Disconnect() {
	w.mu.Lock()
	if w.current != nil {
		_ = w.ks.Lock(w.current.Address)
		w.current = nil
	}
	w.mu.Unlock()
	w.emit("")
}

func (w *KeystoreWallet) Changes() <-chan string {
	return w.changes
}

func (w *KeystoreWallet) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	w.mu.Lock()
	acct := w.current
	w.mu.Unlock()
	if acct == nil {
		return nil, ErrNotConnected
	}
	opts, err := bind.NewKeyStoreTransactorWithChainID(w.ks, *acct, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "building transactor")
	}
	opts.Context = ctx
	return opts, nil
}

func (w *KeystoreWallet) find(account string) (accounts.Account, error) {
	for _, acct := range w.ks.Accounts() {
		if strings.EqualFold(acct.Address.Hex(), account) {
			return acct, nil
		}
	}
	return accounts.Account{}, errors.Wrapf(ErrNoProvider, "account %s not in keystore", account)
}

func (w *KeystoreWallet) activate(acct accounts.Account) (string, error) {
	if err := w.ks.Unlock(acct, w.conf.Passphrase); err != nil {
		return "", errors.Wrap(ErrRejected, err.Error())
	}
	w.mu.Lock()
	w.current = &acct
	w.mu.Unlock()

	address := normalize(acct.Address.Hex())
	w.emit(address)
	return address, nil
}

// emit never blocks the wallet; a slow consumer loses intermediate switches,
// never the latest one it reads.
func (w *KeystoreWallet) emit(account string) {
	select {
	case w.changes <- account:
	default:
	}
}

func normalize(hex string) string {
	return strings.ToLower(hex)
}
