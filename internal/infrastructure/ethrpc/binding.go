package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"walletdash/internal/application"
	"walletdash/internal/domain"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Signer produces transaction options for an account on a chain. Wallet
// providers implement it.
type Signer interface {
	Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

type BinderConfig struct {
	App     domain.AppKind
	Address string
}

// Binder creates contract bindings for connected accounts.
type Binder struct {
	client  *Client
	signer  Signer
	app     domain.AppKind
	address common.Address
}

func NewBinder(client *Client, signer Signer, cfg BinderConfig) (*Binder, error) {
	if client == nil || signer == nil {
		return nil, errors.New("binder dependencies must not be nil")
	}
	if !common.IsHexAddress(cfg.Address) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.Address)
	}
	if cfg.App == "" {
		cfg.App = domain.AppATM
	}
	return &Binder{client: client, signer: signer, app: cfg.App, address: common.HexToAddress(cfg.Address)}, nil
}

func (b *Binder) Bind(ctx context.Context, account string) (application.Contract, error) {
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid account %q", account)
	}
	from := common.HexToAddress(account)
	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	opts, err := b.signer.Transactor(ctx, from, chainID)
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	fe, err := newFrontEnd(b.app, b.address, b.client.Backend())
	if err != nil {
		return nil, err
	}
	return &Binding{
		client:   b.client,
		frontEnd: fe,
		address:  b.address,
		account:  from,
		chainID:  chainID,
		opts:     *opts,
	}, nil
}

// Binding is the contract handle for one account: (endpoint, address,
// interface, signer). It is not mutated after creation.
type Binding struct {
	client   *Client
	frontEnd frontEnd
	address  common.Address
	account  common.Address
	chainID  *big.Int
	opts     bind.TransactOpts
}

func (b *Binding) Account() string {
	return b.account.Hex()
}

func (b *Binding) ChainID() *big.Int {
	return new(big.Int).Set(b.chainID)
}

func (b *Binding) Balance(ctx context.Context) (*big.Int, error) {
	return b.frontEnd.balance(&bind.CallOpts{Context: ctx, From: b.account})
}

// QueryEvents returns every log of kind emitted by the contract from genesis
// to the latest block, in the order the node returned them.
func (b *Binding) QueryEvents(ctx context.Context, kind domain.EventKind) ([]domain.RawEvent, error) {
	topic, ok := b.frontEnd.eventID(kind)
	if !ok {
		return nil, fmt.Errorf("contract has no %s event", kind)
	}
	ctx, span := otel.Tracer("walletdash/ethrpc").Start(ctx, "ethrpc.query_events", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("event.kind", string(kind)), attribute.String("contract", b.address.Hex()))

	logs, err := b.client.Backend().FilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{b.address},
		Topics:    [][]common.Hash{{topic}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	events := make([]domain.RawEvent, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		event, err := b.frontEnd.decode(kind, log)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("decode %s log %s/%d: %w", kind, log.TxHash.Hex(), log.Index, err)
		}
		events = append(events, event)
	}
	span.SetAttributes(attribute.Int("events", len(events)))
	return events, nil
}

func (b *Binding) Submit(ctx context.Context, action domain.Action) (application.PendingCall, error) {
	opts := b.opts
	opts.Context = ctx
	opts.Value = nil
	tx, err := b.frontEnd.submit(&opts, action)
	if err != nil {
		return nil, err
	}
	return &pendingCall{tx: tx, backend: b.client.Backend()}, nil
}
