package main

import (
	"context"
	"encoding/json"
	"flag"
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
	"walletdash/internal/infrastructure/logging"
	"walletdash/internal/infrastructure/telemetry"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type report struct {
	App       domain.AppKind       `json:"app"`
	Contract  string               `json:"contract"`
	Account   string               `json:"account,omitempty"`
	Balance   string               `json:"balance,omitempty"`
	History   []domain.LedgerEntry `json:"history"`
	Generated time.Time            `json:"generated_at"`
}

func main() {
	account := flag.String("account", "", "account whose balance is reported; history is contract-wide")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	// stdout carries the report; logs go to stderr.
	if _, err := logging.Init(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "walletdash-history",
		Console: os.Stderr,
	}); err != nil {
		slog.Error("logger init error", "err", err)
	}

	shutdownTracing, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName: "walletdash-history",
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
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	if err := run(ctx, cfg, *account, *pretty); err != nil {
		slog.Error("history failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, account string, pretty bool) error {
	app, err := domain.ParseAppKind(cfg.AppKind)
	if err != nil {
		return err
	}
	rpcClient, err := ethrpc.NewClient(ctx, ethrpc.Config{URL: cfg.RPCURL, BlockTimeCacheSize: cfg.BlockTimeCacheSize})
	if err != nil {
		return err
	}
	defer rpcClient.Close()

	binder, err := ethrpc.NewBinder(rpcClient, readOnlySigner{}, ethrpc.BinderConfig{App: app, Address: cfg.ContractAddress})
	if err != nil {
		return err
	}
	bindAs := account
	if bindAs == "" {
		bindAs = common.Address{}.Hex()
	}
	contract, err := binder.Bind(ctx, bindAs)
	if err != nil {
		return err
	}

	ledgerCfg := application.LedgerConfig{Kinds: app.EventKinds(), Decimals: cfg.AmountDecimals}
	if cfg.ResolveBlockTimes {
		ledgerCfg.Times = rpcClient
	}
	projector, err := application.NewLedgerProjector(ledgerCfg)
	if err != nil {
		return err
	}
	entries, err := projector.RefreshLedger(ctx, contract)
	if err != nil {
		return err
	}

	out := report{
		App:       app,
		Contract:  cfg.ContractAddress,
		History:   entries,
		Generated: time.Now().UTC(),
	}
	if account != "" {
		balance, err := contract.Balance(ctx)
		if err != nil {
			return err
		}
		out.Account = contract.Account()
		out.Balance = application.FormatAmount(balance, cfg.AmountDecimals)
	}

	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}

// readOnlySigner refuses to sign; this command never submits.
type readOnlySigner struct{}

func (readOnlySigner) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{
		From: account,
		Signer: func(common.Address, *types.Transaction) (*types.Transaction, error) {
			return nil, bind.ErrNotAuthorized
		},
	}, nil
}
