package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Backend is the chain access the service needs; *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type Client struct {
	backend    Backend
	closer     func()
	blockTimes *lru.Cache[uint64, time.Time]
}

type Config struct {
	URL string
	// BlockTimeCacheSize bounds the header timestamp memo. Zero uses 4096.
	BlockTimeCacheSize int
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rpc url is required")
	}
	ec, err := ethclient.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	client, err := NewClientWithBackend(ec, cfg.BlockTimeCacheSize)
	if err != nil {
		ec.Close()
		return nil, err
	}
	client.closer = ec.Close
	return client, nil
}

func NewClientWithBackend(backend Backend, cacheSize int) (*Client, error) {
	if backend == nil {
		return nil, errors.New("rpc backend is required")
	}
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	cache, err := lru.New[uint64, time.Time](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{backend: backend, blockTimes: cache}, nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) Backend() Backend {
	return c.backend
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.backend.ChainID(ctx)
}

func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.backend.BlockNumber(ctx)
}

// BlockTime returns the header timestamp of a block. Headers of mined blocks
// never change, so lookups are memoized.
func (c *Client) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	if ts, ok := c.blockTimes.Get(blockNumber); ok {
		return ts, nil
	}
	header, err := c.backend.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, err
	}
	if header == nil {
		return time.Time{}, fmt.Errorf("block %d not found", blockNumber)
	}
	ts := time.Unix(int64(header.Time), 0).UTC()
	c.blockTimes.Add(blockNumber, ts)
	return ts, nil
}
