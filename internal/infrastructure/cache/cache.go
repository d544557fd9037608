package cache

import (
	"context"
	"time"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// ViewCache memoizes computed dashboard views by fingerprint
type ViewCache interface {
	Get(ctx context.Context, key string) (*orderview.View, bool, error)
	Set(ctx context.Context, key string, value *orderview.View, ttl time.Duration) error
}

type NoopViewCache struct{}

func (NoopViewCache) Get(_ context.Context, _ string) (*orderview.View, bool, error) {
	return nil, false, nil
}

func (NoopViewCache) Set(_ context.Context, _ string, _ *orderview.View, _ time.Duration) error {
	return nil
}
