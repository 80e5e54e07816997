package streaming

import (
	"encoding/json"
	"errors"
	"time"

	"walletdash/internal/domain"
)

type MessageType string

const (
	MessageTypeActionConfirmed MessageType = "action_confirmed"
	MessageTypeLedgerRefreshed MessageType = "ledger_refreshed"
)

// Message is the notification payload published after confirmed actions and
// ledger refreshes.
type Message struct {
	Type        MessageType          `json:"type"`
	ChainID     uint64               `json:"chain_id"`
	App         domain.AppKind       `json:"app"`
	Account     string               `json:"account"`
	TraceID     string               `json:"trace_id,omitempty"`
	Action      domain.ActionKind    `json:"action,omitempty"`
	Argument    string               `json:"argument,omitempty"`
	TxHash      string               `json:"tx_hash,omitempty"`
	BlockNumber uint64               `json:"block_number,omitempty"`
	GasUsed     uint64               `json:"gas_used,omitempty"`
	Entries     []domain.LedgerEntry `json:"entries,omitempty"`
	EmittedAt   time.Time            `json:"emitted_at"`
}

func Encode(msg Message) ([]byte, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

func Decode(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if err := validate(msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func validate(msg Message) error {
	switch msg.Type {
	case MessageTypeActionConfirmed:
		if msg.Action == "" || msg.TxHash == "" {
			return errors.New("action message requires action and tx_hash")
		}
	case MessageTypeLedgerRefreshed:
	case "":
		return errors.New("message type is required")
	default:
		return errors.New("unknown message type " + string(msg.Type))
	}
	if msg.ChainID == 0 {
		return errors.New("chain_id is required")
	}
	if msg.Account == "" {
		return errors.New("account is required")
	}
	return nil
}
