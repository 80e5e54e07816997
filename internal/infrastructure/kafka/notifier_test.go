package kafka

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"walletdash/internal/domain"
	"walletdash/internal/streaming"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func newTestNotifier(t *testing.T, writer *recordingWriter) *Notifier {
	t.Helper()
	notifier, err := NewNotifierWithWriter(writer, NotifierConfig{ChainID: 31337, App: domain.AppATM})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	notifier.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return notifier
}

func TestPublishAction(t *testing.T) {
	writer := &recordingWriter{}
	notifier := newTestNotifier(t, writer)
	if notifier.Topic() != "walletdash-31337" {
		t.Fatalf("unexpected topic %q", notifier.Topic())
	}

	err := notifier.PublishAction(context.Background(), "0xABC",
		domain.Action{Kind: domain.ActionDeposit, Argument: big.NewInt(7)},
		domain.Confirmation{TxHash: "0xfeed", BlockNumber: 9, GasUsed: 21000},
	)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	message := writer.messages[0]
	if message.Topic != "walletdash-31337" || string(message.Key) != "0xabc" {
		t.Fatalf("unexpected routing %q/%q", message.Topic, message.Key)
	}
	decoded, err := streaming.Decode(message.Value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != streaming.MessageTypeActionConfirmed || decoded.Argument != "7" || decoded.BlockNumber != 9 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if decoded.App != domain.AppATM || decoded.ChainID != 31337 {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
}

func TestPublishLedger(t *testing.T) {
	writer := &recordingWriter{}
	notifier := newTestNotifier(t, writer)
	entries := []domain.LedgerEntry{{Kind: domain.EventDeposit, Amount: "1", BlockNumber: 3}}
	if err := notifier.PublishLedger(context.Background(), "0xabc", entries); err != nil {
		t.Fatalf("publish: %v", err)
	}
	decoded, err := streaming.Decode(writer.messages[0].Value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != streaming.MessageTypeLedgerRefreshed || len(decoded.Entries) != 1 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPublishPropagatesWriterError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	notifier := newTestNotifier(t, writer)
	if err := notifier.PublishLedger(context.Background(), "0xabc", nil); err == nil {
		t.Fatalf("expected writer error")
	}
}

func TestNotifierRequiresChainID(t *testing.T) {
	if _, err := NewNotifierWithWriter(&recordingWriter{}, NotifierConfig{}); err == nil {
		t.Fatalf("expected chain id error")
	}
	if _, err := NewNotifier(NotifierConfig{ChainID: 1}); err == nil {
		t.Fatalf("expected brokers error")
	}
}
