package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walletdash/internal/config"
	"walletdash/internal/infrastructure/ethrpc"
	"walletdash/internal/infrastructure/kafka"
	"walletdash/internal/infrastructure/logging"
	"walletdash/internal/infrastructure/telemetry"
	"walletdash/internal/interfaces/httpapi"
	"walletdash/internal/streaming"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "logs/notifications.log"
	}
	logWriter, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       logFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    "walletdash-notifications",
	})
	if err != nil {
		slog.Error("logger init error", "err", err)
	}
	if logWriter != nil {
		defer logWriter.Close()
	}

	if len(cfg.KafkaBrokers) == 0 {
		slog.Error("KAFKA_BROKERS is required for notifications")
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName: "walletdash-notifications",
		Endpoint:    cfg.OtelEndpoint,
	})
	if err != nil {
		slog.Warn("tracing init error", "err", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				slog.Warn("tracing shutdown error", "err", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if logWriter != nil {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go logWriter.RotateOn(ctx, hup)
	}

	rpcClient, err := ethrpc.NewClient(ctx, ethrpc.Config{URL: cfg.RPCURL})
	if err != nil {
		slog.Error("rpc error", "err", err)
		os.Exit(1)
	}
	chainID, err := rpcClient.ChainID(ctx)
	rpcClient.Close()
	if err != nil {
		slog.Error("chain id error", "err", err)
		os.Exit(1)
	}

	topic := kafka.TopicForChain(cfg.KafkaTopicPrefix, chainID.Uint64())
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: cfg.KafkaGroupID,
		Topic:   topic,
	})
	if err != nil {
		slog.Error("kafka error", "err", err)
		os.Exit(1)
	}
	defer subscriber.Close()

	metrics := httpapi.NewMetrics()
	metricsServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("notification consumer started", "topic", topic, "group", cfg.KafkaGroupID, "metrics", cfg.HTTPAddr)
	handler := notificationHandler{metrics: metrics}
	if err := subscriber.Run(ctx, handler.handle); err != nil {
		slog.Error("notification consumer stopped", "err", err)
	}
}

type notificationHandler struct {
	metrics *httpapi.Metrics
}

func (h notificationHandler) handle(ctx context.Context, msg streaming.Message) error {
	switch msg.Type {
	case streaming.MessageTypeActionConfirmed:
		slog.InfoContext(ctx, "action confirmed",
			"account", msg.Account,
			"action", msg.Action,
			"argument", msg.Argument,
			"tx_hash", msg.TxHash,
			"block", msg.BlockNumber,
			"gas_used", msg.GasUsed,
		)
	case streaming.MessageTypeLedgerRefreshed:
		slog.InfoContext(ctx, "ledger refreshed",
			"account", msg.Account,
			"entries", len(msg.Entries),
		)
	default:
		h.metrics.OnNotificationError()
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	h.metrics.OnNotification(string(msg.Type))
	return nil
}
