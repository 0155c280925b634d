package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
)

var _ port.ProductStore = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) GetProduct(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "ProductsRepository.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, description, base_price, category, image_url
		FROM products
		WHERE product_id = $1;`

	var p domain.Product
	err := r.sqldb.QueryRowContext(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.Description,
		&p.BasePrice, &p.Category, &p.ImageURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
