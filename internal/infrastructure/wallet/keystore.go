package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

type KeystoreConfig struct {
	Dir string
	// Account selects a key by address. Empty picks the first key found.
	Account    string
	Passphrase string
}

// KeystoreProvider exposes one encrypted key from a keystore directory. The
// account stays hidden from silent lookups until RequestAccounts unlocks it.
type KeystoreProvider struct {
	ks         *keystore.KeyStore
	account    accounts.Account
	passphrase string

	mu       sync.RWMutex
	unlocked bool
}

func NewKeystoreProvider(cfg KeystoreConfig) (*KeystoreProvider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("keystore dir is required")
	}
	ks := keystore.NewKeyStore(cfg.Dir, keystore.LightScryptN, keystore.LightScryptP)
	var account accounts.Account
	if cfg.Account != "" {
		if !common.IsHexAddress(cfg.Account) {
			return nil, fmt.Errorf("invalid keystore account %q", cfg.Account)
		}
		found, err := ks.Find(accounts.Account{Address: common.HexToAddress(cfg.Account)})
		if err != nil {
			return nil, fmt.Errorf("find keystore account: %w", err)
		}
		account = found
	} else {
		all := ks.Accounts()
		if len(all) == 0 {
			return nil, fmt.Errorf("no keys in %s", cfg.Dir)
		}
		account = all[0]
	}
	return &KeystoreProvider{ks: ks, account: account, passphrase: cfg.Passphrase}, nil
}

func (p *KeystoreProvider) Accounts(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.unlocked {
		return nil, nil
	}
	return []string{p.account.Address.Hex()}, nil
}

func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.unlocked {
		if err := p.ks.Unlock(p.account, p.passphrase); err != nil {
			return nil, fmt.Errorf("unlock %s: %w", p.account.Address.Hex(), err)
		}
		p.unlocked = true
	}
	return []string{p.account.Address.Hex()}, nil
}

func (p *KeystoreProvider) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	if account != p.account.Address {
		return nil, fmt.Errorf("account %s not managed by keystore", account.Hex())
	}
	return bind.NewKeyStoreTransactorWithChainID(p.ks, p.account, chainID)
}
