package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"walletdash/internal/domain"
)

// ActionJournal records submitted actions for audit. It is never read back to
// derive balance or history.
type ActionJournal interface {
	StoreAction(ctx context.Context, record domain.ActionRecord) (int64, error)
	UpdateAction(ctx context.Context, id int64, status domain.ActionStatus, txHash string, blockNumber uint64, errMsg string) error
	QueryActions(ctx context.Context, filter ActionQueryFilter) ([]domain.ActionRecord, error)
}

type Notifier interface {
	PublishAction(ctx context.Context, account string, action domain.Action, confirmation domain.Confirmation) error
	PublishLedger(ctx context.Context, account string, entries []domain.LedgerEntry) error
}

type PageObserver interface {
	OnLedgerRefreshed(entries int, duration time.Duration)
	OnLedgerRefreshFailed()
	OnBalanceRefreshed(account string, balance *big.Int)
	OnAction(kind domain.ActionKind, outcome string, duration time.Duration)
}

type PageConfig struct {
	App            domain.AppKind
	Decimals       int32
	ConfirmTimeout time.Duration
}

// Page is the per-session application state: the session, the last balance
// snapshot and the last projected history.
type Page struct {
	session   *SessionManager
	projector *LedgerProjector
	guard     ActionGuard
	journal   ActionJournal
	notifier  Notifier
	observer  PageObserver
	cfg       PageConfig

	mu          sync.RWMutex
	balance     *big.Int
	history     []domain.LedgerEntry
	refreshedAt time.Time
}

type PageView struct {
	App         domain.AppKind       `json:"app"`
	State       domain.SessionState  `json:"state"`
	Account     string               `json:"account,omitempty"`
	Balance     string               `json:"balance,omitempty"`
	History     []domain.LedgerEntry `json:"history"`
	RefreshedAt *time.Time           `json:"refreshed_at,omitempty"`
}

// NewPage wires a page. guard defaults to an in-process guard; journal,
// notifier and observer are optional.
func NewPage(session *SessionManager, projector *LedgerProjector, guard ActionGuard, journal ActionJournal, notifier Notifier, observer PageObserver, cfg PageConfig) (*Page, error) {
	if session == nil || projector == nil {
		return nil, errors.New("page dependencies must not be nil")
	}
	if guard == nil {
		guard = NewLocalGuard()
	}
	if cfg.App == "" {
		cfg.App = domain.AppATM
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}
	return &Page{
		session:   session,
		projector: projector,
		guard:     guard,
		journal:   journal,
		notifier:  notifier,
		observer:  observer,
		cfg:       cfg,
	}, nil
}

func (p *Page) Session() *SessionManager {
	return p.session
}

// Activate runs silent account retrieval and loads the first balance snapshot
// once the session is ready.
func (p *Page) Activate(ctx context.Context) SessionSnapshot {
	snap := p.session.Activate(ctx)
	p.loadInitialBalance(ctx, snap)
	return snap
}

// Connect asks the wallet for an account. It is only called on user request.
func (p *Page) Connect(ctx context.Context) (SessionSnapshot, error) {
	snap, err := p.session.Connect(ctx)
	if err != nil {
		return snap, err
	}
	p.loadInitialBalance(ctx, snap)
	return snap, nil
}

func (p *Page) loadInitialBalance(ctx context.Context, snap SessionSnapshot) {
	if snap.State != domain.SessionReady {
		return
	}
	p.mu.RLock()
	loaded := p.balance != nil
	p.mu.RUnlock()
	if loaded {
		return
	}
	if _, err := p.RefreshBalance(ctx); err != nil {
		slog.Warn("initial balance load failed", "err", err)
	}
}

func (p *Page) App() domain.AppKind {
	return p.cfg.App
}

func (p *Page) View() PageView {
	snap := p.session.Snapshot()
	p.mu.RLock()
	defer p.mu.RUnlock()
	view := PageView{
		App:     p.cfg.App,
		State:   snap.State,
		Account: snap.Account,
		History: append([]domain.LedgerEntry{}, p.history...),
	}
	if p.balance != nil {
		view.Balance = FormatAmount(p.balance, p.cfg.Decimals)
	}
	if !p.refreshedAt.IsZero() {
		ts := p.refreshedAt
		view.RefreshedAt = &ts
	}
	return view
}

// RefreshBalance re-reads the balance snapshot. On failure the previous
// snapshot is kept.
func (p *Page) RefreshBalance(ctx context.Context) (string, error) {
	contract, err := p.session.Contract()
	if err != nil {
		return "", err
	}
	balance, err := contract.Balance(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: balance: %w", ErrQueryFailed, err)
	}
	p.mu.Lock()
	p.balance = new(big.Int).Set(balance)
	p.mu.Unlock()
	if p.observer != nil {
		p.observer.OnBalanceRefreshed(contract.Account(), balance)
	}
	return FormatAmount(balance, p.cfg.Decimals), nil
}

// RefreshHistory replaces the displayed history with a fresh projection. On
// failure the previous history is left untouched.
func (p *Page) RefreshHistory(ctx context.Context) ([]domain.LedgerEntry, error) {
	contract, err := p.session.Contract()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	entries, err := p.projector.RefreshLedger(ctx, contract)
	if err != nil {
		if p.observer != nil {
			p.observer.OnLedgerRefreshFailed()
		}
		return nil, err
	}
	p.mu.Lock()
	p.history = entries
	p.refreshedAt = time.Now().UTC()
	p.mu.Unlock()
	if p.observer != nil {
		p.observer.OnLedgerRefreshed(len(entries), time.Since(start))
	}
	if p.notifier != nil {
		if err := p.notifier.PublishLedger(ctx, contract.Account(), entries); err != nil {
			slog.Warn("ledger notification failed", "err", err)
		}
	}
	return append([]domain.LedgerEntry{}, entries...), nil
}

// History returns the currently displayed history without refreshing.
func (p *Page) History() []domain.LedgerEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.LedgerEntry{}, p.history...)
}

func (p *Page) RecentActions(ctx context.Context, limit int) ([]domain.ActionRecord, error) {
	if p.journal == nil {
		return nil, nil
	}
	return p.journal.QueryActions(ctx, ActionQueryFilter{
		Account: p.session.Snapshot().Account,
		Limit:   limit,
	})
}
