package application

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"walletdash/internal/domain"
)

type mockProvider struct {
	accounts     []string
	accountsErr  error
	requested    []string
	requestErr   error
	accountCalls int
	requestCalls int
}

func (m *mockProvider) Accounts(ctx context.Context) ([]string, error) {
	m.accountCalls++
	return m.accounts, m.accountsErr
}

func (m *mockProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	m.requestCalls++
	return m.requested, m.requestErr
}

type mockBinder struct {
	contract *mockContract
	err      error
	bound    []string
}

func (m *mockBinder) Bind(ctx context.Context, account string) (Contract, error) {
	m.bound = append(m.bound, account)
	if m.err != nil {
		return nil, m.err
	}
	m.contract.account = account
	return m.contract, nil
}

type mockContract struct {
	mu         sync.Mutex
	account    string
	events     map[domain.EventKind][]domain.RawEvent
	queryErr   map[domain.EventKind]error
	queries    []domain.EventKind
	balance    *big.Int
	balanceErr error
	submitErr  error
	waitErr    error
	submitted  []domain.Action
	// onSubmit runs before Submit returns, letting tests mutate chain state.
	onSubmit func(domain.Action)
	// block, when set, holds Wait until closed.
	block chan struct{}
}

func newMockContract() *mockContract {
	return &mockContract{
		events:   make(map[domain.EventKind][]domain.RawEvent),
		queryErr: make(map[domain.EventKind]error),
		balance:  big.NewInt(0),
	}
}

func (m *mockContract) Account() string { return m.account }

func (m *mockContract) QueryEvents(ctx context.Context, kind domain.EventKind) ([]domain.RawEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, kind)
	if err := m.queryErr[kind]; err != nil {
		return nil, err
	}
	out := make([]domain.RawEvent, len(m.events[kind]))
	copy(out, m.events[kind])
	return out, nil
}

func (m *mockContract) Balance(ctx context.Context) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balanceErr != nil {
		return nil, m.balanceErr
	}
	return new(big.Int).Set(m.balance), nil
}

func (m *mockContract) Submit(ctx context.Context, action domain.Action) (PendingCall, error) {
	m.mu.Lock()
	m.submitted = append(m.submitted, action)
	onSubmit := m.onSubmit
	err := m.submitErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if onSubmit != nil {
		onSubmit(action)
	}
	return &mockPending{hash: "0xtx" + action.Argument.String(), err: m.waitErr, block: m.block}, nil
}

type mockPending struct {
	hash  string
	err   error
	block chan struct{}
}

func (m *mockPending) TxHash() string { return m.hash }

func (m *mockPending) Wait(ctx context.Context) (domain.Confirmation, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return domain.Confirmation{}, ctx.Err()
		}
	}
	if m.err != nil {
		return domain.Confirmation{}, m.err
	}
	return domain.Confirmation{TxHash: m.hash, BlockNumber: 7, Status: 1}, nil
}

type mockJournal struct {
	mu      sync.Mutex
	records map[int64]domain.ActionRecord
	nextID  int64
	err     error
}

func newMockJournal() *mockJournal {
	return &mockJournal{records: make(map[int64]domain.ActionRecord)}
}

func (m *mockJournal) StoreAction(ctx context.Context, record domain.ActionRecord) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	record.ID = m.nextID
	m.records[record.ID] = record
	return record.ID, nil
}

func (m *mockJournal) UpdateAction(ctx context.Context, id int64, status domain.ActionStatus, txHash string, blockNumber uint64, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return errors.New("not found")
	}
	record.Status = status
	if txHash != "" {
		record.TxHash = txHash
	}
	record.BlockNumber = blockNumber
	record.Error = errMsg
	m.records[id] = record
	return nil
}

func (m *mockJournal) QueryActions(ctx context.Context, filter ActionQueryFilter) ([]domain.ActionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ActionRecord
	for id := m.nextID; id > 0; id-- {
		record, ok := m.records[id]
		if !ok {
			continue
		}
		if filter.Account != "" && !strings.EqualFold(record.Account, filter.Account) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

type mockNotifier struct {
	actions []domain.Confirmation
	ledgers [][]domain.LedgerEntry
	err     error
}

func (m *mockNotifier) PublishAction(ctx context.Context, account string, action domain.Action, confirmation domain.Confirmation) error {
	m.actions = append(m.actions, confirmation)
	return m.err
}

func (m *mockNotifier) PublishLedger(ctx context.Context, account string, entries []domain.LedgerEntry) error {
	m.ledgers = append(m.ledgers, entries)
	return m.err
}

type mockObserver struct {
	mu        sync.Mutex
	outcomes  []string
	refreshes int
	failures  int
}

func (m *mockObserver) OnLedgerRefreshed(entries int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
}

func (m *mockObserver) OnLedgerRefreshFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *mockObserver) OnBalanceRefreshed(account string, balance *big.Int) {}

func (m *mockObserver) OnAction(kind domain.ActionKind, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, string(kind)+":"+outcome)
}

type mockTimes struct {
	calls []uint64
}

func (m *mockTimes) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	m.calls = append(m.calls, blockNumber)
	return time.Unix(int64(1_700_000_000+blockNumber), 0).UTC(), nil
}

func depositEvent(block, logIndex uint64, amount int64) domain.RawEvent {
	return domain.RawEvent{Kind: domain.EventDeposit, BlockNumber: block, LogIndex: logIndex, Amount: big.NewInt(amount)}
}

func withdrawEvent(block, logIndex uint64, amount int64) domain.RawEvent {
	return domain.RawEvent{Kind: domain.EventWithdraw, BlockNumber: block, LogIndex: logIndex, Amount: big.NewInt(amount)}
}
