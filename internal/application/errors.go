package application

import "errors"

var (
	ErrNoWallet          = errors.New("no wallet provider available")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrConnectFailed     = errors.New("wallet connection failed")
	ErrQueryFailed       = errors.New("contract query failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedAction = errors.New("action not supported by this front-end")
	ErrActionInFlight    = errors.New("another action is still pending for this account")
	ErrTransactionFailed = errors.New("transaction failed")
)
