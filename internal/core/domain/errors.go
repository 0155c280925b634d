package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable wraps a failed variant listing.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrSizeNotSelected rejects a cart add attempted before variant
	// resolution completed for a sizing-eligible product.
	ErrSizeNotSelected = errors.New("size not selected")

	// ErrInsufficientStock is the match target for
	// [InsufficientStockError].
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMergeConflict reports a concurrent add the merge guard could
	// not resolve; callers retry the add once.
	ErrMergeConflict = errors.New("cart merge conflict")

	// ErrInvalidQuantity rejects non-positive quantities on add.
	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrNotFound = errors.New("not found")
)

// InsufficientStockError carries the actually available count so the
// caller can offer a reduced quantity.
type InsufficientStockError struct {
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

func (e InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
