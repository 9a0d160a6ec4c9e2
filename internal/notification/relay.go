package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/farmafacil/ordering/pkg/idempotency"
)

// Dispatcher sends one confirmation through the channel. Redelivered rows
// are deduped by order id: the recipient sees at most one message per order.
type Dispatcher struct {
	log     *slog.Logger
	channel Channel
	idem    idempotency.Store
}

func NewDispatcher(log *slog.Logger, channel Channel, idem idempotency.Store) *Dispatcher {
	return &Dispatcher{log: log, channel: channel, idem: idem}
}

func (d *Dispatcher) Dispatch(ctx context.Context, c Confirmation) error {
	key := idempotency.Key("notify", c.OrderID)
	seen, err := d.idem.Seen(ctx, key)
	if err != nil {
		return err
	}
	if seen {
		d.log.Info("duplicate confirmation skipped", "order_id", c.OrderID)
		return nil
	}
	if err := d.channel.Send(ctx, c.Phone, c.Message); err != nil {
		d.log.Error("confirmation dispatch failed", "confirmation_id", c.ID, "err", err)
		return err
	}
	// Marked only after delivery: a failed send stays deliverable on the
	// next batch.
	if err := d.idem.Mark(ctx, key); err != nil {
		d.log.Error("confirmation dedup mark failed", "order_id", c.OrderID, "err", err)
	}
	d.log.Info("confirmation dispatched", "confirmation_id", c.ID, "order_id", c.OrderID)
	return nil
}

// Relay drains the confirmation queue in batches on a ticker.
type Relay struct {
	log       *slog.Logger
	store     Store
	dispatch  *Dispatcher
	relayID   string
	batchSize int
	interval  time.Duration
	lease     time.Duration
}

func NewRelay(log *slog.Logger, store Store, dispatch *Dispatcher, relayID string) *Relay {
	return &Relay{
		log:       log,
		store:     store,
		dispatch:  dispatch,
		relayID:   relayID,
		batchSize: 100,
		interval:  500 * time.Millisecond,
		lease:     5 * time.Second,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping", "relay_id", r.relayID)
			return nil
		case <-t.C:
			if err := r.Drain(ctx); err != nil {
				r.log.Error("relay drain error", "err", err)
			}
		}
	}
}

// Drain delivers one locked batch. Split out from Run so tests can pump the
// queue without the ticker.
func (r *Relay) Drain(ctx context.Context) error {
	confirmations, err := r.store.LockBatch(ctx, r.relayID, r.batchSize, r.lease)
	if err != nil {
		return err
	}
	if len(confirmations) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(confirmations))
	for _, c := range confirmations {
		if err := r.dispatch.Dispatch(ctx, c); err != nil {
			_ = r.store.MarkFailed(ctx, c.ID, err.Error())
			continue
		}
		ids = append(ids, c.ID)
	}
	if len(ids) > 0 {
		if err := r.store.MarkSent(ctx, ids); err != nil {
			r.log.Error("relay mark sent error", "err", err)
		}
	}
	return nil
}
