package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	RPCURL             string
	ContractAddress    string
	AppKind            string
	WalletKind         string
	KeystoreDir        string
	KeystoreAccount    string
	KeystorePassphrase string
	PrivateKey         string
	WalletRPCURL       string
	ConfirmTimeout     time.Duration
	AmountDecimals     int32
	ResolveBlockTimes  bool
	BlockTimeCacheSize int
	HTTPAddr           string
	RedisAddr          string
	RedisLockTTL       time.Duration
	JournalDSN         string
	OtelEndpoint       string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaGroupID       string
	LogLevel           string
	LogFormat          string
	LogFile            string
	LogMaxSizeMB       int
	LogMaxBackups      int
}

const (
	WalletNone     = "none"
	WalletKeystore = "keystore"
	WalletKey      = "key"
	WalletRPC      = "rpc"
)

type EnvSource interface {
	Lookup(key string) (string, bool)
}

type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

func FromEnviron() EnvSource {
	env := make(EnvMap)
	for _, entry := range os.Environ() {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		env[parts[0]] = parts[1]
	}
	return env
}

func Load(source EnvSource) (Config, error) {
	if source == nil {
		return Config{}, errors.New("env source is required")
	}

	rpcURL := lookupTrimmed(source, "RPC_URL")
	if rpcURL == "" {
		return Config{}, errors.New("RPC_URL is required")
	}
	contractAddress := lookupTrimmed(source, "CONTRACT_ADDRESS")
	if contractAddress == "" {
		return Config{}, errors.New("CONTRACT_ADDRESS is required")
	}

	appKind := strings.ToLower(lookupTrimmed(source, "APP_KIND"))
	switch appKind {
	case "":
		appKind = "atm"
	case "atm", "tickets":
	default:
		return Config{}, fmt.Errorf("invalid APP_KIND %q", appKind)
	}

	walletKind := strings.ToLower(lookupTrimmed(source, "WALLET_KIND"))
	if walletKind == "" {
		walletKind = WalletNone
	}
	cfg := Config{
		RPCURL:           rpcURL,
		ContractAddress:  contractAddress,
		AppKind:          appKind,
		WalletKind:       walletKind,
		KeystoreDir:      lookupTrimmed(source, "KEYSTORE_DIR"),
		KeystoreAccount:  lookupTrimmed(source, "KEYSTORE_ACCOUNT"),
		PrivateKey:       lookupTrimmed(source, "PRIVATE_KEY"),
		WalletRPCURL:     lookupTrimmed(source, "WALLET_RPC_URL"),
		JournalDSN:       lookupTrimmed(source, "JOURNAL_DSN"),
		RedisAddr:        lookupTrimmed(source, "REDIS_ADDR"),
		OtelEndpoint:     lookupTrimmed(source, "OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogFile:          lookupTrimmed(source, "LOG_FILE"),
		LogLevel:         strings.ToLower(lookupTrimmed(source, "LOG_LEVEL")),
		HTTPAddr:         ":8080",
		KafkaTopicPrefix: "walletdash",
		KafkaGroupID:     "walletdash-notifications",
	}
	// The passphrase may legitimately contain surrounding whitespace.
	cfg.KeystorePassphrase, _ = source.Lookup("KEYSTORE_PASSPHRASE")

	switch walletKind {
	case WalletNone:
	case WalletKeystore:
		if cfg.KeystoreDir == "" {
			return Config{}, errors.New("KEYSTORE_DIR is required for keystore wallet")
		}
	case WalletKey:
		if cfg.PrivateKey == "" {
			return Config{}, errors.New("PRIVATE_KEY is required for key wallet")
		}
	case WalletRPC:
		if cfg.WalletRPCURL == "" {
			return Config{}, errors.New("WALLET_RPC_URL is required for rpc wallet")
		}
	default:
		return Config{}, fmt.Errorf("invalid WALLET_KIND %q", walletKind)
	}

	var err error
	if cfg.ConfirmTimeout, err = parseDurationEnv(source, "CONFIRM_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RedisLockTTL, err = parseDurationEnv(source, "REDIS_LOCK_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ResolveBlockTimes, err = parseBoolEnv(source, "RESOLVE_BLOCK_TIMES", false); err != nil {
		return Config{}, err
	}
	decimals, err := parseUintEnv(source, "AMOUNT_DECIMALS", 0)
	if err != nil {
		return Config{}, err
	}
	if decimals > 36 {
		return Config{}, fmt.Errorf("invalid AMOUNT_DECIMALS: %d exceeds 36", decimals)
	}
	cfg.AmountDecimals = int32(decimals)
	cacheSize, err := parseUintEnv(source, "BLOCK_TIME_CACHE_SIZE", 4096)
	if err != nil {
		return Config{}, err
	}
	cfg.BlockTimeCacheSize = int(cacheSize)
	maxSize, err := parseUintEnv(source, "LOG_MAX_SIZE_MB", 100)
	if err != nil {
		return Config{}, err
	}
	cfg.LogMaxSizeMB = int(maxSize)
	maxBackups, err := parseUintEnv(source, "LOG_MAX_BACKUPS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.LogMaxBackups = int(maxBackups)

	if raw := lookupTrimmed(source, "HTTP_ADDR"); raw != "" {
		cfg.HTTPAddr = raw
	}
	if raw := lookupTrimmed(source, "KAFKA_TOPIC_PREFIX"); raw != "" {
		cfg.KafkaTopicPrefix = raw
	}
	if raw := lookupTrimmed(source, "KAFKA_GROUP_ID"); raw != "" {
		cfg.KafkaGroupID = raw
	}
	cfg.KafkaBrokers = parseList(source, "KAFKA_BROKERS")

	return cfg, nil
}

func lookupTrimmed(source EnvSource, key string) string {
	raw, _ := source.Lookup(key)
	return strings.TrimSpace(raw)
}

func parseUintEnv(source EnvSource, key string, defaultValue uint64) (uint64, error) {
	raw := lookupTrimmed(source, key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func parseDurationEnv(source EnvSource, key string, defaultValue time.Duration) (time.Duration, error) {
	raw := lookupTrimmed(source, key)
	if raw == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return duration, nil
}

func parseBoolEnv(source EnvSource, key string, defaultValue bool) (bool, error) {
	raw := lookupTrimmed(source, key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseList returns nil when the key is unset, which disables the feature.
func parseList(source EnvSource, key string) []string {
	raw := lookupTrimmed(source, key)
	if raw == "" {
		return nil
	}
	var values []string
	for _, item := range strings.Split(raw, ",") {
		value := strings.TrimSpace(item)
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	return values
}
