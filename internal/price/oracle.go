package price

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/cache"
	"github.com/AlexZinkM/evm-wallet/internal/monitor"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Unavailable is returned when no price is known. It means "cannot convert",
// never "the asset is worth zero".
const Unavailable = 0.0

const DefaultTTL = 60 * time.Second

var (
	errNoFeed = errors.New("network has no price feed")
	errStale  = errors.New("network switched during price fetch")
)

// Feed fetches a price from a URL.
type Feed interface {
	FetchPrice(ctx context.Context, url string) (float64, error)
}

// Oracle caches the native/fiat price per network profile.
type Oracle struct {
	network *network.Context
	feed    Feed
	cache   *cache.TTL[string, float64]
	flight  singleflight.Group
	log     *zap.Logger
}

// New creates an oracle bound to nc. A network switch invalidates every cached price.
func New(nc *network.Context, feed Feed, ttl time.Duration, now cache.Clock, log *zap.Logger) *Oracle {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	o := &Oracle{
		network: nc,
		feed:    feed,
		cache:   cache.New[string, float64](16, ttl, now),
		log:     log,
	}
	nc.OnSwitch(func(*network.Binding) { o.cache.Invalidate() })
	return o
}

// Available reports whether p can be used for conversion.
func Available(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}

// GetPrice returns the active network's price, refreshing it when older than the TTL.
// On refresh failure it returns the last known value, or Unavailable.
func (o *Oracle) GetPrice(ctx context.Context) float64 {
	return o.PriceFor(ctx, o.network.Current())
}

// PriceFor is GetPrice for a binding the caller already holds.
func (o *Oracle) PriceFor(ctx context.Context, b *network.Binding) float64 {
	if v, ok := o.cache.Get(b.Profile.ID); ok {
		return v
	}

	v, err := o.fetch(ctx, b)
	if err == nil || errors.Is(err, errStale) {
		return v
	}

	if !errors.Is(err, errNoFeed) {
		o.log.Warn("price refresh failed", zap.String("network", b.Profile.ID), zap.Error(err))
	}
	if last, _, ok := o.cache.Peek(b.Profile.ID); ok {
		return last
	}
	return Unavailable
}

// Refresh fetches the active network's price regardless of age.
func (o *Oracle) Refresh(ctx context.Context) error {
	_, err := o.fetch(ctx, o.network.Current())
	if errors.Is(err, errNoFeed) || errors.Is(err, errStale) {
		return nil
	}
	return err
}

// Invalidate forces the next GetPrice to re-fetch.
func (o *Oracle) Invalidate() {
	o.cache.Invalidate()
}

// fetch collapses concurrent requests for the same profile and epoch.
// A result is stored only if neither a switch nor an Invalidate happened meanwhile.
func (o *Oracle) fetch(ctx context.Context, b *network.Binding) (float64, error) {
	url := b.Profile.PriceURL
	if url == "" {
		return Unavailable, errNoFeed
	}

	gen := o.cache.Generation()
	key := fmt.Sprintf("%s/%d/%d", b.Profile.ID, b.Epoch, gen)

	v, err, _ := o.flight.Do(key, func() (any, error) {
		p, err := o.feed.FetchPrice(ctx, url)
		if err == nil && !Available(p) {
			err = fmt.Errorf("invalid price %v", p)
		}
		monitor.Wallet.PriceFetch(b.Profile.ID, err == nil)
		if err != nil {
			return Unavailable, err
		}
		if !o.network.IsCurrent(b.Epoch) || !o.cache.SetIf(b.Profile.ID, p, gen) {
			o.log.Debug("dropping stale price", zap.String("network", b.Profile.ID))
			return p, errStale
		}
		return p, nil
	})
	return v.(float64), err
}
