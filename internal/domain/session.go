package domain

// SessionState is the wallet connection state exposed to the display.
type SessionState string

const (
	SessionNoWallet     SessionState = "no_wallet"
	SessionDisconnected SessionState = "disconnected"
	SessionReady        SessionState = "ready"
)
