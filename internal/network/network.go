package network

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	"go.uber.org/zap"
)

// Dialer opens a ledger connection for a profile.
type Dialer func(ctx context.Context, profile model.NetworkProfile) (client.Ledger, error)

// EthDialer dials the profile's RPC endpoint with go-ethereum.
func EthDialer(ctx context.Context, profile model.NetworkProfile) (client.Ledger, error) {
	return client.DialEthereum(ctx, profile.RPCEndpoint)
}

// Binding is an immutable snapshot of the active network.
// A logical operation takes one Binding and uses it for every call, so it
// never mixes endpoints across a switch.
type Binding struct {
	Profile model.NetworkProfile
	Ledger  client.Ledger
	Epoch   uint64
}

// Context holds the active network profile and rebinds it atomically.
type Context struct {
	profiles []model.NetworkProfile
	dial     Dialer
	log      *zap.Logger

	switchMu sync.Mutex
	current  atomic.Pointer[Binding]

	subMu       sync.Mutex
	subscribers []func(*Binding)
}

// New binds the profile with id active. profiles must be non-empty.
func New(ctx context.Context, profiles []model.NetworkProfile, active string, dial Dialer, log *zap.Logger) (*Context, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no network profiles", model.ErrValidation)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if active == "" {
		active = profiles[0].ID
	}

	c := &Context{
		profiles: append([]model.NetworkProfile(nil), profiles...),
		dial:     dial,
		log:      log,
	}
	if err := c.SwitchTo(ctx, active); err != nil {
		return nil, err
	}
	return c, nil
}

// SwitchTo makes profile id active. Subscribers run after the new binding is
// visible. On failure the previous binding stays active.
func (c *Context) SwitchTo(ctx context.Context, id string) error {
	profile, ok := c.lookup(id)
	if !ok {
		return fmt.Errorf("%w %q", model.ErrUnknownNetwork, id)
	}

	c.switchMu.Lock()
	old := c.current.Load()
	if old != nil && old.Profile.ID == id {
		c.switchMu.Unlock()
		return nil
	}

	ledger, err := c.dial(ctx, profile)
	if err != nil {
		c.switchMu.Unlock()
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}

	var epoch uint64 = 1
	if old != nil {
		epoch = old.Epoch + 1
	}
	next := &Binding{Profile: profile, Ledger: ledger, Epoch: epoch}
	c.current.Store(next)
	c.switchMu.Unlock()

	if old != nil {
		old.Ledger.Close()
		c.log.Info("switched network",
			zap.String("from", old.Profile.ID),
			zap.String("to", id),
			zap.Uint64("epoch", epoch))
	}

	c.subMu.Lock()
	subs := slices.Clone(c.subscribers)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
	return nil
}

// Active returns the active profile.
func (c *Context) Active() model.NetworkProfile {
	return c.current.Load().Profile
}

// Current returns the active binding.
func (c *Context) Current() *Binding {
	return c.current.Load()
}

// IsCurrent reports whether epoch is still the active binding's epoch.
func (c *Context) IsCurrent(epoch uint64) bool {
	return c.current.Load().Epoch == epoch
}

func (c *Context) Profiles() []model.NetworkProfile {
	return append([]model.NetworkProfile(nil), c.profiles...)
}

// OnSwitch registers fn to be called with the new binding after every switch.
func (c *Context) OnSwitch(fn func(*Binding)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Close closes the active ledger connection.
func (c *Context) Close() {
	if b := c.current.Load(); b != nil {
		b.Ledger.Close()
	}
}

func (c *Context) lookup(id string) (model.NetworkProfile, bool) {
	for _, p := range c.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return model.NetworkProfile{}, false
}
