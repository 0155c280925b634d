package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
	"github.com/printmade/storefront/pkg/keymutex"
)

var _ port.CartComposer = (*Composer)(nil)

// Composer owns the merge-vs-create decision and the four mutating
// cart operations. Add is read-then-write, so concurrent adds for the
// same (user, product) are serialized through a per-key mutex; without
// it a fast double-tap can insert two lines that should have merged.
type Composer struct {
	cart   port.CartStore
	events port.CartEventsProducer
	addMu  *keymutex.KeyMutex
}

// NewComposer builds a Composer. events may be nil when no event stream
// is wired (tests, tooling).
func NewComposer(cart port.CartStore, events port.CartEventsProducer) *Composer {
	return &Composer{
		cart:   cart,
		events: events,
		addMu:  keymutex.New(),
	}
}

// Add merges the request into an existing line with the same (variant,
// customization) identity, or creates a new line. The candidate lines
// are fetched and compared in memory: design references are free-form
// structured data the store cannot reliably filter on.
func (c *Composer) Add(
	ctx context.Context, p port.AddParams,
) (domain.CartLine, error) {
	const op = "Composer.Add"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Quantity <= 0 {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
	}

	unlock := c.addMu.Lock(p.UserID + "/" + p.ProductID)
	defer unlock()

	lines, err := c.cart.ListCartLines(ctx, p.UserID, p.ProductID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, l := range lines {
		if l.SameIdentity(p.ProductID, p.VariantID, p.Customization) {
			merged, err := c.cart.UpdateCartLineQuantity(
				ctx, l.LineID, l.Quantity+p.Quantity,
			)
			if err != nil {
				return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
			}
			c.emit(ctx, domain.CartEventQuantityChanged, merged)
			return merged, nil
		}
	}

	line := domain.CartLine{
		LineID:        uuid.NewString(),
		UserID:        p.UserID,
		ProductID:     p.ProductID,
		VariantID:     p.VariantID,
		Quantity:      p.Quantity,
		Customization: p.Customization,
		CreatedAt:     time.Now().UTC(),
	}

	inserted, err := c.cart.InsertCartLine(ctx, line)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	c.emit(ctx, domain.CartEventAdded, inserted)
	return inserted, nil
}

// SetQuantity updates the stored quantity; anything at or below zero
// removes the line instead.
func (c *Composer) SetQuantity(
	ctx context.Context, lineID string, quantity int,
) (domain.CartLine, error) {
	const op = "Composer.SetQuantity"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if quantity <= 0 {
		if err := c.Remove(ctx, lineID); err != nil {
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
		}
		return domain.CartLine{}, nil
	}

	line, err := c.cart.UpdateCartLineQuantity(ctx, lineID, quantity)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	c.emit(ctx, domain.CartEventQuantityChanged, line)
	return line, nil
}

// Remove deletes the line. Removing an already absent line is not an
// error at this layer; no event is emitted for it.
func (c *Composer) Remove(ctx context.Context, lineID string) error {
	const op = "Composer.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := c.cart.DeleteCartLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	c.emit(ctx, domain.CartEventRemoved, deleted)
	return nil
}

// Clear deletes every line owned by the user.
func (c *Composer) Clear(ctx context.Context, userID string) error {
	const op = "Composer.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.cart.DeleteCartLines(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.emit(ctx, domain.CartEventCleared, domain.CartLine{UserID: userID})
	return nil
}

// List returns the user's current cart lines.
func (c *Composer) List(
	ctx context.Context, userID string,
) ([]domain.CartLine, error) {
	const op = "Composer.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := c.cart.ListCartLines(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

// emit produces a cart event for downstream consumers. The store write
// already committed, so a produce failure is logged and swallowed.
func (c *Composer) emit(
	ctx context.Context, t domain.CartEventType, line domain.CartLine,
) {
	const op = "Composer.emit"

	if c.events == nil {
		return
	}

	evt := domain.CartEvent{
		EventID:    uuid.NewString(),
		Type:       t,
		UserID:     line.UserID,
		ProductID:  line.ProductID,
		VariantID:  line.VariantID,
		LineID:     line.LineID,
		Quantity:   line.Quantity,
		OccurredAt: time.Now().UTC(),
	}

	if err := c.events.ProduceCartEvent(ctx, evt); err != nil {
		slog.Error("failed to produce cart event",
			"op", op, "type", t, "err", err)
	}
}
