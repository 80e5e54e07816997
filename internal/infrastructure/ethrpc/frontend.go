package ethrpc

import (
	"fmt"
	"math/big"

	"walletdash/internal/contracts"
	"walletdash/internal/domain"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// frontEnd adapts one contract interface descriptor to the domain model.
type frontEnd interface {
	eventID(kind domain.EventKind) (common.Hash, bool)
	decode(kind domain.EventKind, log types.Log) (domain.RawEvent, error)
	balance(opts *bind.CallOpts) (*big.Int, error)
	submit(opts *bind.TransactOpts, action domain.Action) (*types.Transaction, error)
}

func newFrontEnd(app domain.AppKind, address common.Address, backend bind.ContractBackend) (frontEnd, error) {
	switch app {
	case domain.AppATM:
		parsed, err := contracts.AssessmentMetaData.GetAbi()
		if err != nil {
			return nil, err
		}
		binding, err := contracts.NewAssessment(address, backend)
		if err != nil {
			return nil, err
		}
		return &atmFrontEnd{abi: parsed, contract: binding}, nil
	case domain.AppTickets:
		parsed, err := contracts.TicketBoothMetaData.GetAbi()
		if err != nil {
			return nil, err
		}
		binding, err := contracts.NewTicketBooth(address, backend)
		if err != nil {
			return nil, err
		}
		return &ticketFrontEnd{abi: parsed, contract: binding}, nil
	default:
		return nil, fmt.Errorf("unknown app kind %q", app)
	}
}

func eventID(parsed *abi.ABI, kind domain.EventKind) (common.Hash, bool) {
	event, ok := parsed.Events[string(kind)]
	if !ok {
		return common.Hash{}, false
	}
	return event.ID, true
}

func rawEvent(kind domain.EventKind, log types.Log) domain.RawEvent {
	return domain.RawEvent{
		Kind:        kind,
		BlockNumber: log.BlockNumber,
		LogIndex:    uint64(log.Index),
		TxHash:      log.TxHash.Hex(),
	}
}

type atmFrontEnd struct {
	abi      *abi.ABI
	contract *contracts.Assessment
}

func (f *atmFrontEnd) eventID(kind domain.EventKind) (common.Hash, bool) {
	return eventID(f.abi, kind)
}

func (f *atmFrontEnd) decode(kind domain.EventKind, log types.Log) (domain.RawEvent, error) {
	event := rawEvent(kind, log)
	switch kind {
	case domain.EventDeposit:
		parsed, err := f.contract.ParseDeposit(log)
		if err != nil {
			return domain.RawEvent{}, err
		}
		event.Amount = parsed.Amount
	case domain.EventWithdraw:
		parsed, err := f.contract.ParseWithdraw(log)
		if err != nil {
			return domain.RawEvent{}, err
		}
		event.Amount = parsed.Amount
	default:
		return domain.RawEvent{}, fmt.Errorf("event %s not emitted by atm contract", kind)
	}
	return event, nil
}

func (f *atmFrontEnd) balance(opts *bind.CallOpts) (*big.Int, error) {
	return f.contract.GetBalance(opts)
}

func (f *atmFrontEnd) submit(opts *bind.TransactOpts, action domain.Action) (*types.Transaction, error) {
	switch action.Kind {
	case domain.ActionDeposit:
		return f.contract.Deposit(opts, action.Argument)
	case domain.ActionWithdraw:
		return f.contract.Withdraw(opts, action.Argument)
	default:
		return nil, fmt.Errorf("action %s not supported by atm contract", action.Kind)
	}
}

type ticketFrontEnd struct {
	abi      *abi.ABI
	contract *contracts.TicketBooth
}

func (f *ticketFrontEnd) eventID(kind domain.EventKind) (common.Hash, bool) {
	return eventID(f.abi, kind)
}

func (f *ticketFrontEnd) decode(kind domain.EventKind, log types.Log) (domain.RawEvent, error) {
	event := rawEvent(kind, log)
	var (
		buyer     common.Address
		seat      *big.Int
		timestamp *big.Int
	)
	switch kind {
	case domain.EventTicketPurchased:
		parsed, err := f.contract.ParseTicketPurchased(log)
		if err != nil {
			return domain.RawEvent{}, err
		}
		buyer, seat, timestamp = parsed.Buyer, parsed.SeatNumber, parsed.Timestamp
	case domain.EventTicketRefunded:
		parsed, err := f.contract.ParseTicketRefunded(log)
		if err != nil {
			return domain.RawEvent{}, err
		}
		buyer, seat, timestamp = parsed.Buyer, parsed.SeatNumber, parsed.Timestamp
	default:
		return domain.RawEvent{}, fmt.Errorf("event %s not emitted by ticket contract", kind)
	}
	event.User = buyer.Hex()
	event.Seat = seat
	if timestamp != nil && timestamp.IsUint64() {
		event.Timestamp = timestamp.Uint64()
	}
	return event, nil
}

func (f *ticketFrontEnd) balance(opts *bind.CallOpts) (*big.Int, error) {
	return f.contract.GetBalance(opts)
}

// submit pays the current ticket price when buying; refunds carry no value.
func (f *ticketFrontEnd) submit(opts *bind.TransactOpts, action domain.Action) (*types.Transaction, error) {
	switch action.Kind {
	case domain.ActionBuy:
		price, err := f.contract.TicketPrice(&bind.CallOpts{Context: opts.Context, From: opts.From})
		if err != nil {
			return nil, fmt.Errorf("ticket price: %w", err)
		}
		opts.Value = price
		return f.contract.BuyTicket(opts, action.Argument)
	case domain.ActionRefund:
		return f.contract.RefundTicket(opts, action.Argument)
	default:
		return nil, fmt.Errorf("action %s not supported by ticket contract", action.Kind)
	}
}
