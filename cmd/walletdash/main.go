package main

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walletdash/internal/application"
	"walletdash/internal/config"
	"walletdash/internal/domain"
	"walletdash/internal/infrastructure/ethrpc"
	"walletdash/internal/infrastructure/kafka"
	"walletdash/internal/infrastructure/logging"
	"walletdash/internal/infrastructure/redisguard"
	"walletdash/internal/infrastructure/storage"
	"walletdash/internal/infrastructure/telemetry"
	"walletdash/internal/infrastructure/wallet"
	"walletdash/internal/interfaces/httpapi"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// walletBackend is both the account boundary and the transaction signer.
type walletBackend interface {
	application.WalletProvider
	ethrpc.Signer
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logWriter, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    "walletdash",
	})
	if err != nil {
		slog.Error("logger init error", "err", err)
	}
	if logWriter != nil {
		defer logWriter.Close()
	}

	shutdownTracing, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "walletdash",
		ServiceVersion: version,
		Endpoint:       cfg.OtelEndpoint,
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

	app, err := domain.ParseAppKind(cfg.AppKind)
	if err != nil {
		slog.Error("app kind error", "err", err)
		os.Exit(1)
	}

	rpcClient, err := ethrpc.NewClient(ctx, ethrpc.Config{
		URL:                cfg.RPCURL,
		BlockTimeCacheSize: cfg.BlockTimeCacheSize,
	})
	if err != nil {
		slog.Error("rpc error", "err", err)
		os.Exit(1)
	}
	defer rpcClient.Close()

	walletImpl, closeWallet, err := openWallet(ctx, cfg)
	if err != nil {
		slog.Error("wallet error", "kind", cfg.WalletKind, "err", err)
		os.Exit(1)
	}
	defer closeWallet()

	var (
		provider application.WalletProvider
		signer   ethrpc.Signer = missingSigner{}
	)
	if walletImpl != nil {
		provider = walletImpl
		signer = walletImpl
	}

	binder, err := ethrpc.NewBinder(rpcClient, signer, ethrpc.BinderConfig{App: app, Address: cfg.ContractAddress})
	if err != nil {
		slog.Error("binder error", "err", err)
		os.Exit(1)
	}
	session, err := application.NewSessionManager(provider, binder)
	if err != nil {
		slog.Error("session error", "err", err)
		os.Exit(1)
	}

	ledgerCfg := application.LedgerConfig{Kinds: app.EventKinds(), Decimals: cfg.AmountDecimals}
	if cfg.ResolveBlockTimes {
		ledgerCfg.Times = rpcClient
	}
	projector, err := application.NewLedgerProjector(ledgerCfg)
	if err != nil {
		slog.Error("ledger error", "err", err)
		os.Exit(1)
	}

	var guard application.ActionGuard
	if cfg.RedisAddr != "" {
		redisGuard, err := redisguard.New(redisguard.Config{Addr: cfg.RedisAddr, TTL: cfg.RedisLockTTL})
		if err != nil {
			slog.Warn("redis guard disabled, using in-process guard", "err", err)
		} else {
			defer redisGuard.Close()
			guard = redisGuard
		}
	}

	var (
		journal     application.ActionJournal
		journalPing httpapi.Pinger
	)
	if cfg.JournalDSN != "" {
		store, err := storage.OpenJournal(cfg.JournalDSN)
		if err != nil {
			slog.Error("journal error", "err", err)
			os.Exit(1)
		}
		defer store.Close()
		journal = store
		journalPing = store
	}

	var notifier application.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		chainID, err := rpcClient.ChainID(ctx)
		if err != nil {
			slog.Error("chain id error", "err", err)
			os.Exit(1)
		}
		kafkaNotifier, err := kafka.NewNotifier(kafka.NotifierConfig{
			Brokers:     cfg.KafkaBrokers,
			TopicPrefix: cfg.KafkaTopicPrefix,
			ChainID:     chainID.Uint64(),
			App:         app,
		})
		if err != nil {
			slog.Error("kafka error", "err", err)
			os.Exit(1)
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		slog.Info("notifications enabled", "topic", kafkaNotifier.Topic())
	}

	metrics := httpapi.NewMetrics()
	page, err := application.NewPage(session, projector, guard, journal, notifier, metrics, application.PageConfig{
		App:            app,
		Decimals:       cfg.AmountDecimals,
		ConfirmTimeout: cfg.ConfirmTimeout,
	})
	if err != nil {
		slog.Error("page error", "err", err)
		os.Exit(1)
	}
	snap := page.Activate(ctx)
	slog.Info("session activated", "state", snap.State, "account", snap.Account)

	httpServer, err := httpapi.NewServer(page, rpcClient, metrics, httpapi.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}, httpapi.ServerConfig{
		Decimals: cfg.AmountDecimals,
		Journal:  journalPing,
	})
	if err != nil {
		slog.Error("http server error", "err", err)
		os.Exit(1)
	}

	slog.Info("walletdash started",
		"app", app,
		"contract", cfg.ContractAddress,
		"wallet", cfg.WalletKind,
		"http", cfg.HTTPAddr,
		"version", version,
	)
	if err := httpServer.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("http server stopped", "err", err)
	}
}

func openWallet(ctx context.Context, cfg config.Config) (walletBackend, func(), error) {
	noop := func() {}
	switch cfg.WalletKind {
	case config.WalletKeystore:
		provider, err := wallet.NewKeystoreProvider(wallet.KeystoreConfig{
			Dir:        cfg.KeystoreDir,
			Account:    cfg.KeystoreAccount,
			Passphrase: cfg.KeystorePassphrase,
		})
		if err != nil {
			return nil, noop, err
		}
		return provider, noop, nil
	case config.WalletKey:
		provider, err := wallet.NewKeyProvider(cfg.PrivateKey)
		if err != nil {
			return nil, noop, err
		}
		return provider, noop, nil
	case config.WalletRPC:
		provider, err := wallet.DialRPCProvider(ctx, cfg.WalletRPCURL)
		if err != nil {
			return nil, noop, err
		}
		return provider, provider.Close, nil
	default:
		return nil, noop, nil
	}
}

// missingSigner backs the binder when no wallet is configured. The session
// never binds in that state.
type missingSigner struct{}

func (missingSigner) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	return nil, application.ErrNoWallet
}
