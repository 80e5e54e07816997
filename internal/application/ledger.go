package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"walletdash/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventSource queries the full history of one event kind from the contract.
type EventSource interface {
	QueryEvents(ctx context.Context, kind domain.EventKind) ([]domain.RawEvent, error)
}

// BlockTimeResolver returns the timestamp of a mined block.
type BlockTimeResolver interface {
	BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

type LedgerConfig struct {
	Kinds []domain.EventKind
	// Decimals shifts raw integer amounts right before display (18 for wei amounts).
	Decimals int32
	// Times is optional; when set, events without a timestamp field get their block time.
	Times BlockTimeResolver
}

type LedgerProjector struct {
	kinds    []domain.EventKind
	decimals int32
	times    BlockTimeResolver
}

func NewLedgerProjector(cfg LedgerConfig) (*LedgerProjector, error) {
	if len(cfg.Kinds) == 0 {
		return nil, errors.New("at least one event kind is required")
	}
	if cfg.Decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d", cfg.Decimals)
	}
	kinds := make([]domain.EventKind, len(cfg.Kinds))
	copy(kinds, cfg.Kinds)
	return &LedgerProjector{kinds: kinds, decimals: cfg.Decimals, times: cfg.Times}, nil
}

func (p *LedgerProjector) Kinds() []domain.EventKind {
	out := make([]domain.EventKind, len(p.kinds))
	copy(out, p.kinds)
	return out
}

// RefreshLedger fetches every known event kind, merges the results and returns
// them ordered by (block number, log index). Any failed query fails the whole
// refresh; no partial result is returned.
func (p *LedgerProjector) RefreshLedger(ctx context.Context, source EventSource) ([]domain.LedgerEntry, error) {
	if source == nil {
		return nil, errors.New("event source is required")
	}
	ctx, span := otel.Tracer("walletdash/ledger").Start(ctx, "ledger.refresh")
	defer span.End()

	var events []domain.RawEvent
	for _, kind := range p.kinds {
		batch, err := source.QueryEvents(ctx, kind)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("%w: %s events: %w", ErrQueryFailed, kind, err)
		}
		span.SetAttributes(attribute.Int("events."+string(kind), len(batch)))
		events = append(events, batch...)
	}

	SortEvents(events)

	entries := make([]domain.LedgerEntry, 0, len(events))
	for _, event := range events {
		entry := ProjectEvent(event, p.decimals)
		if entry.Timestamp == nil && p.times != nil {
			ts, err := p.times.BlockTime(ctx, event.BlockNumber)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, fmt.Errorf("%w: block %d time: %w", ErrQueryFailed, event.BlockNumber, err)
			}
			entry.Timestamp = &ts
		}
		entries = append(entries, entry)
	}
	span.SetAttributes(attribute.Int("ledger.entries", len(entries)))
	return entries, nil
}

// SortEvents orders events ascending by block number and then log index.
// Events with identical keys keep their relative order.
func SortEvents(events []domain.RawEvent) {
	sort.SliceStable(events, func(a, b int) bool {
		if events[a].BlockNumber == events[b].BlockNumber {
			return events[a].LogIndex < events[b].LogIndex
		}
		return events[a].BlockNumber < events[b].BlockNumber
	})
}

func ProjectEvent(event domain.RawEvent, decimals int32) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		Kind:        event.Kind,
		User:        event.User,
		BlockNumber: event.BlockNumber,
		LogIndex:    event.LogIndex,
		TxHash:      event.TxHash,
	}
	if event.Amount != nil {
		entry.Amount = FormatAmount(event.Amount, decimals)
	}
	if event.Seat != nil {
		entry.Seat = event.Seat.String()
	}
	if event.Timestamp != 0 {
		ts := time.Unix(int64(event.Timestamp), 0).UTC()
		entry.Timestamp = &ts
	}
	return entry
}
