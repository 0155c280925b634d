package service

import (
	"github.com/printmade/storefront/internal/core/domain"
)

// StockGuard is the single gate before any cart mutation for
// sizing-eligible products. The check is advisory: it reads a
// point-in-time stock value and holds no reservation, so order
// placement revalidates before the authoritative decrement.
type StockGuard struct{}

func NewStockGuard() StockGuard { return StockGuard{} }

// Check validates a candidate (variant, quantity) pair. For products
// that require sizing the variant must be resolved, available and
// stocked for the full requested quantity.
func (StockGuard) Check(
	requiresSizing bool, v *domain.ProductVariant, quantity int,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if !requiresSizing {
		return nil
	}

	if v == nil {
		return domain.ErrSizeNotSelected
	}
	if !v.Available {
		return domain.InsufficientStockError{Available: 0}
	}
	if v.Stock < quantity {
		return domain.InsufficientStockError{Available: v.Stock}
	}
	return nil
}
