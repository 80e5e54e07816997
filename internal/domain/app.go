package domain

import (
	"fmt"
	"strings"
)

// AppKind selects which contract front-end the service drives.
type AppKind string

const (
	AppATM     AppKind = "atm"
	AppTickets AppKind = "tickets"
)

func ParseAppKind(raw string) (AppKind, error) {
	switch AppKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", AppATM:
		return AppATM, nil
	case AppTickets:
		return AppTickets, nil
	default:
		return "", fmt.Errorf("unknown app kind %q", raw)
	}
}

// EventKinds lists the event streams merged into the ledger, in query order.
func (k AppKind) EventKinds() []EventKind {
	switch k {
	case AppTickets:
		return []EventKind{EventTicketPurchased, EventTicketRefunded}
	default:
		return []EventKind{EventDeposit, EventWithdraw}
	}
}

func (k AppKind) Actions() []ActionKind {
	switch k {
	case AppTickets:
		return []ActionKind{ActionBuy, ActionRefund}
	default:
		return []ActionKind{ActionDeposit, ActionWithdraw}
	}
}
