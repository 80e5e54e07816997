package ethrpc

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"walletdash/internal/contracts"
	"walletdash/internal/domain"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var testContract = common.HexToAddress("0x00000000000000000000000000000000000000c0")

func TestATMFrontEndDecodesLogs(t *testing.T) {
	fe, err := newFrontEnd(domain.AppATM, testContract, nil)
	if err != nil {
		t.Fatalf("new front-end: %v", err)
	}
	parsed, err := contracts.AssessmentMetaData.GetAbi()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	id, ok := fe.eventID(domain.EventWithdraw)
	if !ok || id != parsed.Events["Withdraw"].ID {
		t.Fatalf("unexpected withdraw topic %s", id.Hex())
	}
	if _, ok := fe.eventID(domain.EventTicketPurchased); ok {
		t.Fatalf("ticket events are not part of the atm contract")
	}

	data, err := parsed.Events["Deposit"].Inputs.NonIndexed().Pack(big.NewInt(250))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	log := types.Log{
		Address:     testContract,
		Topics:      []common.Hash{parsed.Events["Deposit"].ID},
		Data:        data,
		BlockNumber: 11,
		Index:       3,
		TxHash:      common.HexToHash("0x01"),
	}
	event, err := fe.decode(domain.EventDeposit, log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Kind != domain.EventDeposit || event.Amount.Int64() != 250 || event.BlockNumber != 11 || event.LogIndex != 3 {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.TxHash != common.HexToHash("0x01").Hex() {
		t.Fatalf("unexpected tx hash %s", event.TxHash)
	}

	if _, err := fe.decode(domain.EventWithdraw, log); err == nil {
		t.Fatalf("expected signature mismatch when decoding a deposit as withdraw")
	}
}

func TestTicketFrontEndDecodesLogs(t *testing.T) {
	fe, err := newFrontEnd(domain.AppTickets, testContract, nil)
	if err != nil {
		t.Fatalf("new front-end: %v", err)
	}
	parsed, err := contracts.TicketBoothMetaData.GetAbi()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	buyer := common.HexToAddress("0x00000000000000000000000000000000000AbCdE")
	event := parsed.Events["TicketRefunded"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(4), big.NewInt(1_700_000_123))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	log := types.Log{
		Address:     testContract,
		Topics:      []common.Hash{event.ID, common.BytesToHash(buyer.Bytes())},
		Data:        data,
		BlockNumber: 20,
		Index:       0,
	}
	raw, err := fe.decode(domain.EventTicketRefunded, log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.Seat.Int64() != 4 || raw.Timestamp != 1_700_000_123 || raw.Amount != nil {
		t.Fatalf("unexpected event %+v", raw)
	}
	if raw.User != buyer.Hex() {
		t.Fatalf("buyer must be checksummed, got %s", raw.User)
	}
}

func TestNewFrontEndRejectsUnknownApp(t *testing.T) {
	if _, err := newFrontEnd(domain.AppKind("bank"), testContract, nil); err == nil {
		t.Fatalf("expected error for unknown app")
	}
}

func TestConfirmationFromReceipt(t *testing.T) {
	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash("0xbeef"),
		BlockHash:   common.HexToHash("0xcafe"),
		BlockNumber: big.NewInt(99),
		GasUsed:     21000,
	}
	got := ConfirmationFromReceipt(receipt)
	if got.BlockNumber != 99 || got.GasUsed != 21000 || got.Status != 1 {
		t.Fatalf("unexpected confirmation %+v", got)
	}
	if got.TxHash != receipt.TxHash.Hex() || got.BlockHash != receipt.BlockHash.Hex() {
		t.Fatalf("unexpected hashes %+v", got)
	}
}

type headerBackend struct {
	Backend
	calls int
}

func (b *headerBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.calls++
	return &types.Header{Number: number, Time: 1_700_000_000 + number.Uint64()}, nil
}

func TestClientBlockTimeIsMemoized(t *testing.T) {
	backend := &headerBackend{}
	client, err := NewClientWithBackend(backend, 2)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	for i := 0; i < 3; i++ {
		ts, err := client.BlockTime(context.Background(), 5)
		if err != nil {
			t.Fatalf("block time: %v", err)
		}
		if ts.Unix() != 1_700_000_005 {
			t.Fatalf("unexpected time %v", ts)
		}
	}
	if backend.calls != 1 {
		t.Fatalf("expected one header lookup, got %d", backend.calls)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without url")
	}
	if _, err := NewClientWithBackend(nil, 0); err == nil {
		t.Fatalf("expected error without backend")
	}
}

type logBackend struct {
	Backend
	logs    []types.Log
	queries []ethereum.FilterQuery
}

func (b *logBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1337), nil
}

func (b *logBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	b.queries = append(b.queries, query)
	return b.logs, nil
}

type keySigner struct{}

func (keySigner) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}
	opts.From = account
	return opts, nil
}

func TestBindingQueryEvents(t *testing.T) {
	parsed, err := contracts.AssessmentMetaData.GetAbi()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	deposit := parsed.Events["Deposit"]
	pack := func(amount int64) []byte {
		data, err := deposit.Inputs.NonIndexed().Pack(big.NewInt(amount))
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		return data
	}
	backend := &logBackend{logs: []types.Log{
		{Topics: []common.Hash{deposit.ID}, Data: pack(1), BlockNumber: 2},
		{Topics: []common.Hash{deposit.ID}, Data: pack(9), BlockNumber: 3, Removed: true},
		{Topics: []common.Hash{deposit.ID}, Data: pack(3), BlockNumber: 1},
	}}
	client, err := NewClientWithBackend(backend, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	binder, err := NewBinder(client, keySigner{}, BinderConfig{App: domain.AppATM, Address: testContract.Hex()})
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	account := "0x00000000000000000000000000000000000000a1"
	contract, err := binder.Bind(context.Background(), account)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !strings.EqualFold(contract.Account(), account) {
		t.Fatalf("unexpected account %s", contract.Account())
	}
	if chainID := contract.(*Binding).ChainID(); chainID.Int64() != 1337 {
		t.Fatalf("unexpected chain id %s", chainID)
	}

	events, err := contract.QueryEvents(context.Background(), domain.EventDeposit)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 || events[0].Amount.Int64() != 1 || events[1].Amount.Int64() != 3 {
		t.Fatalf("removed logs must be skipped and node order kept, got %+v", events)
	}
	query := backend.queries[0]
	if len(query.Addresses) != 1 || query.Addresses[0] != testContract || query.Topics[0][0] != deposit.ID {
		t.Fatalf("unexpected filter %+v", query)
	}
	if query.FromBlock != nil || query.ToBlock != nil {
		t.Fatalf("history queries span genesis to latest")
	}

	if _, err := contract.QueryEvents(context.Background(), domain.EventTicketPurchased); err == nil {
		t.Fatalf("expected error for an event the contract lacks")
	}
}

func TestNewBinderValidation(t *testing.T) {
	client, err := NewClientWithBackend(&logBackend{}, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := NewBinder(client, keySigner{}, BinderConfig{Address: "nope"}); err == nil {
		t.Fatalf("expected invalid address error")
	}
	if _, err := NewBinder(nil, keySigner{}, BinderConfig{Address: testContract.Hex()}); err == nil {
		t.Fatalf("expected error without client")
	}
	binder, err := NewBinder(client, keySigner{}, BinderConfig{Address: testContract.Hex()})
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	if _, err := binder.Bind(context.Background(), "not-an-address"); err == nil {
		t.Fatalf("expected invalid account error")
	}
}
