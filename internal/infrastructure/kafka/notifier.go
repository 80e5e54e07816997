package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"walletdash/internal/domain"
	"walletdash/internal/infrastructure/telemetry"
	"walletdash/internal/streaming"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTopicPrefix = "walletdash"

// MessageWriter is the subset of *kafka.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type NotifierConfig struct {
	Brokers     []string
	TopicPrefix string
	ChainID     uint64
	App         domain.AppKind
}

// Notifier publishes action and ledger notifications to <prefix>-<chainID>.
type Notifier struct {
	writer  MessageWriter
	topic   string
	chainID uint64
	app     domain.AppKind
	now     func() time.Time
}

func NewNotifier(cfg NotifierConfig) (*Notifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return NewNotifierWithWriter(writer, cfg)
}

func NewNotifierWithWriter(writer MessageWriter, cfg NotifierConfig) (*Notifier, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is required")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chain id is required")
	}
	if strings.TrimSpace(cfg.TopicPrefix) == "" {
		cfg.TopicPrefix = defaultTopicPrefix
	}
	return &Notifier{
		writer:  writer,
		topic:   TopicForChain(cfg.TopicPrefix, cfg.ChainID),
		chainID: cfg.ChainID,
		app:     cfg.App,
		now:     time.Now,
	}, nil
}

func TopicForChain(prefix string, chainID uint64) string {
	return fmt.Sprintf("%s-%d", prefix, chainID)
}

func (n *Notifier) Topic() string {
	return n.topic
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

func (n *Notifier) PublishAction(ctx context.Context, account string, action domain.Action, confirmation domain.Confirmation) error {
	ctx, span := otel.Tracer("walletdash/kafka").Start(ctx, "notify.action", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.String("action", string(action.Kind)),
		attribute.String("tx.hash", confirmation.TxHash),
		attribute.Int64("block.number", int64(confirmation.BlockNumber)),
	)
	msg := streaming.Message{
		Type:        streaming.MessageTypeActionConfirmed,
		Account:     account,
		Action:      action.Kind,
		TxHash:      confirmation.TxHash,
		BlockNumber: confirmation.BlockNumber,
		GasUsed:     confirmation.GasUsed,
	}
	if action.Argument != nil {
		msg.Argument = action.Argument.String()
	}
	return n.publish(ctx, span, account, msg)
}

func (n *Notifier) PublishLedger(ctx context.Context, account string, entries []domain.LedgerEntry) error {
	ctx, span := otel.Tracer("walletdash/kafka").Start(ctx, "notify.ledger", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(attribute.Int("ledger.entries", len(entries)))
	return n.publish(ctx, span, account, streaming.Message{
		Type:    streaming.MessageTypeLedgerRefreshed,
		Account: account,
		Entries: entries,
	})
}

func (n *Notifier) publish(ctx context.Context, span trace.Span, account string, msg streaming.Message) error {
	msg.ChainID = n.chainID
	msg.App = n.app
	msg.TraceID = telemetry.TraceIDFromContext(ctx)
	msg.EmittedAt = n.now().UTC()
	payload, err := streaming.Encode(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic:   n.topic,
		Key:     []byte(strings.ToLower(account)),
		Value:   payload,
		Headers: telemetry.KafkaHeaders(ctx),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
