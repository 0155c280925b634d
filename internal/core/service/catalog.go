package service

import (
	"context"
	"fmt"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
)

var _ port.VariantsProvider = (*Catalog)(nil)

// Catalog loads the purchasable variants of a product and partitions
// them into gender buckets. Pure lookup and grouping, no mutation.
type Catalog struct {
	variants port.VariantStore
}

func NewCatalog(variants port.VariantStore) Catalog {
	return Catalog{variants}
}

// GroupVariants buckets every variant of the product, including
// unavailable ones, so a selector can still attach an unavailable
// variant to its unresolved state for display.
func (c Catalog) GroupVariants(
	ctx context.Context, productID string,
) (domain.VariantGroups, error) {
	const op = "Catalog.GroupVariants"

	vs, err := c.list(ctx, productID, op)
	if err != nil {
		return domain.VariantGroups{}, err
	}
	return domain.GroupVariants(vs), nil
}

// AvailableVariants buckets only the variants with the availability
// flag set. This is the listing the shopper screens render.
func (c Catalog) AvailableVariants(
	ctx context.Context, productID string,
) (domain.VariantGroups, error) {
	const op = "Catalog.AvailableVariants"

	vs, err := c.list(ctx, productID, op)
	if err != nil {
		return domain.VariantGroups{}, err
	}

	// fresh slice: the store owns the one it returned
	available := make([]domain.ProductVariant, 0, len(vs))
	for _, v := range vs {
		if v.Available {
			available = append(available, v)
		}
	}
	return domain.GroupVariants(available), nil
}

func (c Catalog) list(
	ctx context.Context, productID, op string,
) ([]domain.ProductVariant, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs, err := c.variants.ListVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrCatalogUnavailable, err,
		)
	}
	return vs, nil
}
