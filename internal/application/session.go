package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"walletdash/internal/domain"
)

// WalletProvider is the account boundary of the user's wallet. Accounts must
// not prompt the user; RequestAccounts may.
type WalletProvider interface {
	Accounts(ctx context.Context) ([]string, error)
	RequestAccounts(ctx context.Context) ([]string, error)
}

// Contract is a binding to the deployed contract scoped to one signing account.
type Contract interface {
	EventSource
	Account() string
	Balance(ctx context.Context) (*big.Int, error)
	Submit(ctx context.Context, action domain.Action) (PendingCall, error)
}

// PendingCall is a submitted state-changing call awaiting confirmation.
type PendingCall interface {
	TxHash() string
	Wait(ctx context.Context) (domain.Confirmation, error)
}

type ContractBinder interface {
	Bind(ctx context.Context, account string) (Contract, error)
}

type SessionSnapshot struct {
	State   domain.SessionState `json:"state"`
	Account string              `json:"account,omitempty"`
}

// SessionManager owns the wallet connection and the single contract binding
// created for the connected account.
type SessionManager struct {
	provider WalletProvider
	binder   ContractBinder

	mu       sync.RWMutex
	state    domain.SessionState
	account  string
	contract Contract
}

// NewSessionManager accepts a nil provider, which means no wallet capability
// is present in this environment.
func NewSessionManager(provider WalletProvider, binder ContractBinder) (*SessionManager, error) {
	if binder == nil {
		return nil, errors.New("contract binder is required")
	}
	state := domain.SessionDisconnected
	if provider == nil {
		state = domain.SessionNoWallet
	}
	return &SessionManager{provider: provider, binder: binder, state: state}, nil
}

// Activate attempts silent account retrieval. Failures leave the session
// disconnected; they are logged, not returned.
func (m *SessionManager) Activate(ctx context.Context) SessionSnapshot {
	if m.provider == nil {
		slog.Warn("no wallet provider configured")
		return m.Snapshot()
	}
	if m.Snapshot().State == domain.SessionReady {
		return m.Snapshot()
	}
	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		slog.Warn("silent account retrieval failed", "err", err)
		return m.Snapshot()
	}
	if len(accounts) == 0 {
		slog.Info("no account authorized, waiting for connect")
		return m.Snapshot()
	}
	if err := m.bind(ctx, accounts[0]); err != nil {
		slog.Warn("contract binding failed", "account", accounts[0], "err", err)
	}
	return m.Snapshot()
}

// Connect prompts the wallet for an account and binds the contract to it.
// Without a wallet provider no request is issued.
func (m *SessionManager) Connect(ctx context.Context) (SessionSnapshot, error) {
	if m.provider == nil {
		return m.Snapshot(), ErrNoWallet
	}
	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		return m.Snapshot(), fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	if len(accounts) == 0 {
		return m.Snapshot(), fmt.Errorf("%w: wallet returned no accounts", ErrConnectFailed)
	}
	if err := m.bind(ctx, accounts[0]); err != nil {
		return m.Snapshot(), fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	return m.Snapshot(), nil
}

func (m *SessionManager) bind(ctx context.Context, account string) error {
	contract, err := m.binder.Bind(ctx, account)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.account = account
	m.contract = contract
	m.state = domain.SessionReady
	m.mu.Unlock()
	slog.Info("account connected", "account", account)
	return nil
}

func (m *SessionManager) Snapshot() SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SessionSnapshot{State: m.state, Account: m.account}
}

// Contract returns the ready binding, or ErrNoWallet / ErrNotConnected.
func (m *SessionManager) Contract() (Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.state {
	case domain.SessionNoWallet:
		return nil, ErrNoWallet
	case domain.SessionReady:
		return m.contract, nil
	default:
		return nil, ErrNotConnected
	}
}
