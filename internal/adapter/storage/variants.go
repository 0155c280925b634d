package storage

import (
	"context"
	"fmt"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
)

var _ port.VariantStore = (*VariantsRepository)(nil)

type VariantsRepository struct {
	sqldb sqldb
}

func NewVariantsRepository(sqldb sqldb) VariantsRepository {
	return VariantsRepository{sqldb}
}

func (r VariantsRepository) ListVariants(
	ctx context.Context, productID string,
) ([]domain.ProductVariant, error) {
	const op = "VariantsRepository.ListVariants"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT variant_id, product_id, size, gender,
		       stock, price_adjustment, is_available
		FROM product_variants
		WHERE product_id = $1
		ORDER BY variant_id;`

	rows, err := r.sqldb.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var vs []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		err := rows.Scan(
			&v.VariantID, &v.ProductID, &v.Size, &v.Gender,
			&v.Stock, &v.PriceAdjustment, &v.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

// ApplyStockLevel overwrites the reported stock of one variant. The
// decrement itself happens at order placement; this only records it.
func (r VariantsRepository) ApplyStockLevel(
	ctx context.Context, variantID string, stock int, available bool,
) error {
	const op = "VariantsRepository.ApplyStockLevel"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE product_variants
		SET stock = $2, is_available = $3
		WHERE variant_id = $1;`

	_, err := r.sqldb.ExecContext(ctx, query, variantID, stock, available)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
