package domain

import "time"

// LedgerEntry is the display projection of a RawEvent.
type LedgerEntry struct {
	Kind        EventKind  `json:"type"`
	Amount      string     `json:"amount,omitempty"`
	Seat        string     `json:"seat,omitempty"`
	User        string     `json:"user,omitempty"`
	BlockNumber uint64     `json:"block_number"`
	LogIndex    uint64     `json:"log_index"`
	TxHash      string     `json:"tx_hash"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}
