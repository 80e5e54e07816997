package application

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// uint256 values have at most 78 decimal digits.
	maxUint256Digits = 78
	maxInputLength   = 128
	maxArgumentBits  = 256
)

// FormatAmount renders a raw contract integer as a decimal string shifted by decimals.
func FormatAmount(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// ParseAmount converts a user-supplied display amount into the contract's raw
// integer unit. Fractions finer than decimals are rejected.
func ParseAmount(raw string, decimals int32) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	if len(raw) > maxInputLength {
		return nil, fmt.Errorf("%w: amount is too long", ErrInvalidInput)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, raw)
	}
	// Shifting expands 10^exp in full, so the exponent is bounded first.
	if exp := value.Exponent(); exp > maxUint256Digits || exp < -(decimals+maxUint256Digits) {
		return nil, fmt.Errorf("%w: amount %q is out of range", ErrInvalidInput, raw)
	}
	shifted := value.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: amount %q has more than %d decimals", ErrInvalidInput, raw, decimals)
	}
	if shifted.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	amount := shifted.BigInt()
	if amount.BitLen() > maxArgumentBits {
		return nil, fmt.Errorf("%w: amount %q exceeds uint256", ErrInvalidInput, raw)
	}
	return amount, nil
}

// ParseSeat parses a non-negative base-10 seat number.
func ParseSeat(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: seat is required", ErrInvalidInput)
	}
	if len(raw) > maxInputLength {
		return nil, fmt.Errorf("%w: seat is too long", ErrInvalidInput)
	}
	seat, ok := new(big.Int).SetString(raw, 10)
	if !ok || seat.Sign() < 0 {
		return nil, fmt.Errorf("%w: seat %q is not a non-negative integer", ErrInvalidInput, raw)
	}
	if seat.BitLen() > maxArgumentBits {
		return nil, fmt.Errorf("%w: seat %q exceeds uint256", ErrInvalidInput, raw)
	}
	return seat, nil
}
