package application

import (
	"context"
	"strings"
	"sync"
)

// ActionGuard admits at most one in-flight mutating call per key. Acquire
// returns ErrActionInFlight when the key is already held.
type ActionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

func (g *LocalGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key = strings.ToLower(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, ErrActionInFlight
	}
	g.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}
