package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"walletdash/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ActionResult struct {
	Action      domain.ActionKind    `json:"action"`
	Argument    string               `json:"argument"`
	TxHash      string               `json:"tx_hash"`
	BlockNumber uint64               `json:"block_number"`
	Balance     string               `json:"balance,omitempty"`
	History     []domain.LedgerEntry `json:"history,omitempty"`
}

// ParseAction validates the user-supplied field for kind and builds the action.
func ParseAction(kind domain.ActionKind, raw string, decimals int32) (domain.Action, error) {
	switch kind {
	case domain.ActionDeposit, domain.ActionWithdraw:
		amount, err := ParseAmount(raw, decimals)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: kind, Argument: amount}, nil
	case domain.ActionBuy, domain.ActionRefund:
		seat, err := ParseSeat(raw)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: kind, Argument: seat}, nil
	default:
		return domain.Action{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, kind)
	}
}

func (p *Page) Supports(kind domain.ActionKind) bool {
	return slices.Contains(p.cfg.App.Actions(), kind)
}

// Perform submits one state-changing call, waits for it to be mined and then
// refreshes balance and history. A confirmed call is final; refresh failures
// after confirmation are logged and do not fail the action.
func (p *Page) Perform(ctx context.Context, action domain.Action) (ActionResult, error) {
	start := time.Now()
	result, err := p.perform(ctx, action)
	if p.observer != nil {
		outcome := "confirmed"
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedAction):
			outcome = "rejected"
		case errors.Is(err, ErrActionInFlight):
			outcome = "busy"
		default:
			outcome = "failed"
		}
		p.observer.OnAction(action.Kind, outcome, time.Since(start))
	}
	return result, err
}

func (p *Page) perform(ctx context.Context, action domain.Action) (ActionResult, error) {
	if !p.Supports(action.Kind) {
		return ActionResult{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, action.Kind)
	}
	if action.Argument == nil || action.Argument.Sign() < 0 {
		return ActionResult{}, fmt.Errorf("%w: missing argument", ErrInvalidInput)
	}
	contract, err := p.session.Contract()
	if err != nil {
		return ActionResult{}, err
	}
	account := contract.Account()

	ctx, span := otel.Tracer("walletdash/actions").Start(ctx, "action."+string(action.Kind), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("account", account),
		attribute.String("action.argument", action.Argument.String()),
	)

	release, err := p.guard.Acquire(ctx, account)
	if err != nil {
		return ActionResult{}, err
	}
	defer release()

	record := domain.ActionRecord{
		Account:  account,
		Kind:     action.Kind,
		Argument: action.Argument.String(),
		Status:   domain.ActionStatusPending,
	}

	pending, err := contract.Submit(ctx, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		record.Status = domain.ActionStatusFailed
		record.Error = err.Error()
		p.journalStore(ctx, record)
		return ActionResult{}, fmt.Errorf("%w: submit %s: %w", ErrTransactionFailed, action.Kind, err)
	}
	record.TxHash = pending.TxHash()
	span.SetAttributes(attribute.String("tx.hash", record.TxHash))
	journalID := p.journalStore(ctx, record)
	slog.Info("action submitted", "action", action.Kind, "argument", record.Argument, "tx_hash", record.TxHash)

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.ConfirmTimeout)
	confirmation, err := pending.Wait(waitCtx)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.journalUpdate(ctx, journalID, domain.ActionStatusFailed, record.TxHash, confirmation.BlockNumber, err.Error())
		return ActionResult{}, fmt.Errorf("%w: %s %s: %w", ErrTransactionFailed, action.Kind, record.TxHash, err)
	}
	p.journalUpdate(ctx, journalID, domain.ActionStatusConfirmed, record.TxHash, confirmation.BlockNumber, "")
	span.SetAttributes(attribute.Int64("block.number", int64(confirmation.BlockNumber)))
	slog.Info("action confirmed", "action", action.Kind, "tx_hash", record.TxHash, "block", confirmation.BlockNumber)

	if p.notifier != nil {
		if err := p.notifier.PublishAction(ctx, account, action, confirmation); err != nil {
			slog.Warn("action notification failed", "err", err)
		}
	}

	result := ActionResult{
		Action:      action.Kind,
		Argument:    record.Argument,
		TxHash:      record.TxHash,
		BlockNumber: confirmation.BlockNumber,
	}
	if balance, err := p.RefreshBalance(ctx); err != nil {
		slog.Warn("balance refresh after action failed", "action", action.Kind, "err", err)
	} else {
		result.Balance = balance
	}
	if history, err := p.RefreshHistory(ctx); err != nil {
		slog.Warn("history refresh after action failed", "action", action.Kind, "err", err)
		result.History = p.History()
	} else {
		result.History = history
	}
	return result, nil
}

func (p *Page) journalStore(ctx context.Context, record domain.ActionRecord) int64 {
	if p.journal == nil {
		return 0
	}
	id, err := p.journal.StoreAction(context.WithoutCancel(ctx), record)
	if err != nil {
		slog.Warn("journal store failed", "action", record.Kind, "err", err)
		return 0
	}
	return id
}

func (p *Page) journalUpdate(ctx context.Context, id int64, status domain.ActionStatus, txHash string, block uint64, errMsg string) {
	if p.journal == nil || id == 0 {
		return
	}
	// A client that disconnects mid-wait must not leave the row pending.
	if err := p.journal.UpdateAction(context.WithoutCancel(ctx), id, status, txHash, block, errMsg); err != nil {
		slog.Warn("journal update failed", "id", id, "err", err)
	}
}
