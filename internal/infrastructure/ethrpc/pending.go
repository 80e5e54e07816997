package ethrpc

import (
	"context"
	"fmt"

	"walletdash/internal/domain"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

type pendingCall struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func (p *pendingCall) TxHash() string {
	return p.tx.Hash().Hex()
}

// Wait blocks until the transaction is mined or ctx ends. A mined but
// reverted transaction is an error.
func (p *pendingCall) Wait(ctx context.Context) (domain.Confirmation, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return domain.Confirmation{}, err
	}
	confirmation := ConfirmationFromReceipt(receipt)
	if receipt.Status != types.ReceiptStatusSuccessful {
		return confirmation, fmt.Errorf("transaction %s reverted in block %d", confirmation.TxHash, confirmation.BlockNumber)
	}
	return confirmation, nil
}

func ConfirmationFromReceipt(receipt *types.Receipt) domain.Confirmation {
	confirmation := domain.Confirmation{
		TxHash:    receipt.TxHash.Hex(),
		BlockHash: receipt.BlockHash.Hex(),
		GasUsed:   receipt.GasUsed,
		Status:    receipt.Status,
	}
	if receipt.BlockNumber != nil {
		confirmation.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return confirmation
}
