package domain

import "math/big"

// EventKind is the contract event name a RawEvent was decoded from.
type EventKind string

const (
	EventDeposit         EventKind = "Deposit"
	EventWithdraw        EventKind = "Withdraw"
	EventTicketPurchased EventKind = "TicketPurchased"
	EventTicketRefunded  EventKind = "TicketRefunded"
)

// RawEvent represents a contract event returned by a historical log query.
// Payload fields that the event kind does not carry are left nil or zero.
type RawEvent struct {
	Kind        EventKind
	BlockNumber uint64
	LogIndex    uint64
	TxHash      string
	Amount      *big.Int
	Seat        *big.Int
	User        string
	Timestamp   uint64
}
