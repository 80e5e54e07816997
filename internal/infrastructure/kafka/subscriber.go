package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"walletdash/internal/infrastructure/telemetry"
	"walletdash/internal/streaming"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SubscriberConfig struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Subscriber tails a notification topic and hands each decoded message to a
// handler. Offsets are committed after the handler returns.
type Subscriber struct {
	reader *kafka.Reader
}

func NewSubscriber(cfg SubscriberConfig) (*Subscriber, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Subscriber{reader: reader}, nil
}

func (s *Subscriber) Close() error {
	return s.reader.Close()
}

// Run blocks until ctx is cancelled. Undecodable messages are logged and
// skipped.
func (s *Subscriber) Run(ctx context.Context, handle func(context.Context, streaming.Message) error) error {
	tracer := otel.Tracer("walletdash/kafka")
	for {
		message, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			slog.Error("kafka fetch error", "err", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		decoded, err := streaming.Decode(message.Value)
		if err != nil {
			slog.Warn("message decode error", "offset", message.Offset, "err", err)
			_ = s.reader.CommitMessages(ctx, message)
			continue
		}

		messageCtx := telemetry.ExtractKafkaHeaders(ctx, message.Headers)
		if !trace.SpanContextFromContext(messageCtx).IsValid() && decoded.TraceID != "" {
			if withTrace, ok := telemetry.ContextWithTraceID(messageCtx, decoded.TraceID); ok {
				messageCtx = withTrace
			}
		}
		messageCtx, span := tracer.Start(messageCtx, "notify.consume", trace.WithSpanKind(trace.SpanKindConsumer))
		span.SetAttributes(
			attribute.String("message.type", string(decoded.Type)),
			attribute.Int64("chain.id", int64(decoded.ChainID)),
		)
		if err := handle(messageCtx, decoded); err != nil {
			slog.Warn("notification handler error", "type", decoded.Type, "err", err)
			span.RecordError(err)
		}
		span.End()
		if err := s.reader.CommitMessages(ctx, message); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("kafka commit error", "err", err)
		}
	}
}
