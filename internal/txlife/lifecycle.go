package txlife

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Handle is a broadcast transaction. *client.Handle satisfies it.
type Handle interface {
	Hash() common.Hash
	Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error)
}

// SubmitFunc signs and broadcasts one transfer.
type SubmitFunc func(ctx context.Context) (Handle, error)

// Observer is called with a copy of the receipt after every transition.
type Observer func(model.TransferReceipt)

type Option func(*Lifecycle)

// WithConfirmations sets how many confirmations Wait is asked for. Default 1.
func WithConfirmations(n uint64) Option {
	return func(l *Lifecycle) {
		if n > 0 {
			l.confirmations = n
		}
	}
}

// WithWaitTimeout bounds the confirmation wait. Zero waits forever.
func WithWaitTimeout(d time.Duration) Option {
	return func(l *Lifecycle) { l.waitTimeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Lifecycle) { l.log = log }
}

func WithObserver(fn Observer) Option {
	return func(l *Lifecycle) { l.observers = append(l.observers, fn) }
}

// Lifecycle drives one transfer at a time through
// Initiated -> Broadcast -> Confirming -> Terminal.
//
// Once an attempt has started every failure ends up in the receipt; nothing
// is returned to the caller after the in-flight check. Reset detaches the
// running attempt: its later transitions are dropped, but a new attempt can
// only start after it has finished.
type Lifecycle struct {
	confirmations uint64
	waitTimeout   time.Duration
	log           *zap.Logger
	observers     []Observer

	mu      sync.Mutex
	receipt model.TransferReceipt
	err     error
	attempt uint64
	running bool
	done    chan struct{}
}

func New(opts ...Option) *Lifecycle {
	done := make(chan struct{})
	close(done)

	l := &Lifecycle{
		confirmations: 1,
		log:           zap.NewNop(),
		done:          done,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SendTx runs submit to completion. It returns ErrTransferInFlight if another
// attempt is running and nil otherwise; the outcome is in Snapshot.
func (l *Lifecycle) SendTx(ctx context.Context, submit SubmitFunc) error {
	id, err := l.begin()
	if err != nil {
		return err
	}
	l.run(ctx, id, submit)
	return nil
}

// Start is SendTx in the background. The in-flight check is synchronous.
func (l *Lifecycle) Start(ctx context.Context, submit SubmitFunc) error {
	id, err := l.begin()
	if err != nil {
		return err
	}
	go l.run(ctx, id, submit)
	return nil
}

// Reset returns to stage 0 and clears hash, success and error.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	if !l.running && l.receipt == (model.TransferReceipt{}) {
		l.mu.Unlock()
		return
	}
	l.attempt++
	l.receipt = model.TransferReceipt{}
	l.err = nil
	snap := l.receipt
	l.mu.Unlock()

	l.notify(snap)
}

// Snapshot returns the current receipt.
func (l *Lifecycle) Snapshot() model.TransferReceipt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.receipt
}

// Err returns the failure of the current attempt, if any.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Running reports whether an attempt holds the slot.
func (l *Lifecycle) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Done is closed when the latest attempt finishes.
func (l *Lifecycle) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

func (l *Lifecycle) begin() (uint64, error) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return 0, model.ErrTransferInFlight
	}
	l.running = true
	l.attempt++
	l.receipt = model.TransferReceipt{Stage: model.StageInitiated}
	l.err = nil
	l.done = make(chan struct{})
	id := l.attempt
	snap := l.receipt
	l.mu.Unlock()

	l.notify(snap)
	return id, nil
}

func (l *Lifecycle) run(ctx context.Context, id uint64, submit SubmitFunc) {
	// Broadcast cannot be cancelled once started.
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			l.finish(id, false, fmt.Errorf("transfer failed: %v", r))
		}
		l.release()
		l.log.Debug("transfer attempt finished", zap.Uint64("attempt", id), zap.Duration("took", time.Since(start)))
	}()

	h, err := submit(ctx)
	if err != nil {
		l.log.Warn("transfer submit failed", zap.Error(err))
		l.finish(id, false, err)
		return
	}

	hash := h.Hash().Hex()
	l.log.Info("transaction broadcast", zap.String("hash", hash))
	l.transition(id, func(r *model.TransferReceipt) {
		r.Hash = hash
		r.Stage = model.StageBroadcast
	})

	waitCtx := ctx
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	receipt, err := h.Wait(waitCtx, l.confirmations)
	if err != nil {
		l.log.Warn("transaction wait failed", zap.String("hash", hash), zap.Error(err))
		l.finish(id, false, err)
		return
	}

	l.transition(id, func(r *model.TransferReceipt) { r.Stage = model.StageConfirming })

	if receipt.Status != types.ReceiptStatusSuccessful {
		l.log.Warn("transaction reverted", zap.String("hash", hash))
		l.finish(id, false, model.ErrTransactionReverted)
		return
	}
	l.log.Info("transaction confirmed", zap.String("hash", hash))
	l.finish(id, true, nil)
}

// finish moves attempt id to the terminal stage. Only the first call per attempt applies.
func (l *Lifecycle) finish(id uint64, success bool, err error) {
	l.mu.Lock()
	if id != l.attempt || l.receipt.Stage == model.StageTerminal {
		l.mu.Unlock()
		return
	}
	l.receipt.Stage = model.StageTerminal
	l.receipt.Success = success
	if err != nil {
		l.receipt.Error = err.Error()
	}
	l.err = err
	snap := l.receipt
	l.mu.Unlock()

	l.notify(snap)
}

func (l *Lifecycle) transition(id uint64, apply func(*model.TransferReceipt)) {
	l.mu.Lock()
	if id != l.attempt || l.receipt.Stage == model.StageTerminal {
		l.mu.Unlock()
		return
	}
	apply(&l.receipt)
	snap := l.receipt
	l.mu.Unlock()

	l.notify(snap)
}

func (l *Lifecycle) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	close(l.done)
}

func (l *Lifecycle) notify(r model.TransferReceipt) {
	for _, fn := range l.observers {
		fn(r)
	}
}
