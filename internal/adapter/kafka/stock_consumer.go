package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/printmade/storefront/internal/core/port"
	"github.com/printmade/storefront/pkg/retry"
	"github.com/printmade/storefront/pkg/schema"
)

type StockConsumerOpt func(*stockConsumerOpts) error

func StockConsumerClientOpt(cl ConsumerClient) StockConsumerOpt {
	return func(opts *stockConsumerOpts) error {
		if cl == nil {
			return errors.New("consumer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func StockConsumerApplierOpt(a port.StockApplier) StockConsumerOpt {
	return func(opts *stockConsumerOpts) error {
		if a == nil {
			return errors.New("stock applier is nil")
		}
		opts.applier = a
		return nil
	}
}

func StockConsumerDecoderOpt(d Decoder) StockConsumerOpt {
	return func(opts *stockConsumerOpts) error {
		if d == nil {
			return errors.New("decoder is nil")
		}
		opts.decoder = d
		return nil
	}
}

type stockConsumerOpts struct {
	cl      ConsumerClient
	applier port.StockApplier
	decoder Decoder
}

// StockConsumer applies stock levels reported by order placement to
// the variants store, so the stock gate reads fresh numbers.
type StockConsumer struct {
	cl       ConsumerClient
	applier  port.StockApplier
	decoder  Decoder
	errTimer *time.Timer
}

func NewStockConsumer(opts ...StockConsumerOpt) StockConsumer {
	const op = "NewStockConsumer"

	if len(opts) != 3 {
		panic(fmt.Errorf("%s: %w", op, ErrTooFewOpts)) // develop mistake
	}

	var options stockConsumerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			panic(opErr(err, op)) // develop mistake
		}
	}

	return StockConsumer{
		cl:       options.cl,
		applier:  options.applier,
		decoder:  options.decoder,
		errTimer: time.NewTimer(0),
	}
}

func (c StockConsumer) Close() {
	const op = "StockConsumer.Close"
	log := slog.With("op", op)

	log.Info("closing consumer...")
	c.errTimer.Stop()
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c StockConsumer) Run(ctx context.Context) {
	const op = "StockConsumer.Run"
	log := slog.With("op", op)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				err = fmt.Errorf("%s: %w", op, err)
				log.Error("failed to consume stock levels", "err", err)
				c.slowDown()
				continue
			}
			if err := c.commit(ctx); err != nil {
				log.Error("failed to commit offset", "err", err)
			}
		}
	}
}

func (c StockConsumer) commit(ctx context.Context) error {
	const op = "StockConsumer.commit"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c StockConsumer) consume(ctx context.Context) error {
	const op = "StockConsumer.consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if fetches.Empty() {
		return nil
	}

	for _, lv := range c.toStockLevels(fetches) {
		if err := c.apply(ctx, lv); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// apply retries transient store failures before giving the batch up;
// an uncommitted offset means the level is re-fetched next poll.
func (c StockConsumer) apply(ctx context.Context, lv schema.StockLevelV1) error {
	retryCfg := retry.Config{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(100 * time.Millisecond),
	}

	return retry.Do(ctx, retryCfg, func() error {
		return c.applier.ApplyStockLevel(
			ctx, lv.VariantID, int(lv.Stock), lv.Available,
		)
	})
}

func (c StockConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "StockConsumer.pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.handleErrs(fetches); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fetches, nil
}

func (c StockConsumer) handleErrs(fetches kgo.Fetches) error {
	var errsData []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errData := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsData = append(errsData, errData)
		}
	})

	if len(errsData) != 0 {
		return errors.New(strings.Join(errsData, "; "))
	}
	return nil
}

func (c StockConsumer) toStockLevels(
	fetches kgo.Fetches,
) (lvs []schema.StockLevelV1) {
	const op = "StockConsumer.toStockLevels"
	log := slog.With("op", op)

	fetches.EachRecord(func(r *kgo.Record) {
		var s schema.StockLevelV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			log.Error("failed to decode stock level", "err", err)
			return
		}
		lvs = append(lvs, s)
	})
	return lvs
}

func (c StockConsumer) slowDown() {
	const timeout = 1 * time.Second
	c.errTimer.Reset(timeout)
	<-c.errTimer.C
}
