package domain

import (
	"math/big"
	"time"
)

type ActionKind string

const (
	ActionDeposit  ActionKind = "deposit"
	ActionWithdraw ActionKind = "withdraw"
	ActionBuy      ActionKind = "buy"
	ActionRefund   ActionKind = "refund"
)

// Action is a state-changing call requested by the user. Argument is the
// amount for deposit/withdraw and the seat number for buy/refund.
type Action struct {
	Kind     ActionKind
	Argument *big.Int
}

type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusConfirmed ActionStatus = "confirmed"
	ActionStatusFailed    ActionStatus = "failed"
)

// ActionRecord is one row of the action journal.
type ActionRecord struct {
	ID          int64        `json:"id"`
	Account     string       `json:"account"`
	Kind        ActionKind   `json:"action"`
	Argument    string       `json:"argument"`
	TxHash      string       `json:"tx_hash,omitempty"`
	Status      ActionStatus `json:"status"`
	BlockNumber uint64       `json:"block_number,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Confirmation is the mined receipt of a submitted action.
type Confirmation struct {
	TxHash      string
	BlockNumber uint64
	BlockHash   string
	GasUsed     uint64
	Status      uint64
}
