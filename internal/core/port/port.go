package port

import (
	"context"

	"github.com/printmade/storefront/internal/core/domain"
)

// Outbound ports: the backing persistence collaborator. Every call is a
// synchronous request/response returning a result or an error; retry
// policy belongs to the caller.

type ProductStore interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

type VariantStore interface {
	ListVariants(ctx context.Context, productID string) ([]domain.ProductVariant, error)
	ApplyStockLevel(ctx context.Context, variantID string, stock int, available bool) error
}

type CartStore interface {
	// ListCartLines returns the user's lines; productID narrows to one
	// product when non-empty.
	ListCartLines(ctx context.Context, userID, productID string) ([]domain.CartLine, error)
	InsertCartLine(ctx context.Context, line domain.CartLine) (domain.CartLine, error)
	UpdateCartLineQuantity(ctx context.Context, lineID string, quantity int) (domain.CartLine, error)
	// DeleteCartLine returns the deleted line; [domain.ErrNotFound]
	// when no line matched.
	DeleteCartLine(ctx context.Context, lineID string) (domain.CartLine, error)
	DeleteCartLines(ctx context.Context, userID string) error
}

type CartEventsProducer interface {
	ProduceCartEvent(ctx context.Context, evt domain.CartEvent) error
}

// Inbound ports: the surface the adapters call on the core.

type VariantsProvider interface {
	GroupVariants(ctx context.Context, productID string) (domain.VariantGroups, error)
	AvailableVariants(ctx context.Context, productID string) (domain.VariantGroups, error)
}

type AddParams struct {
	UserID        string
	ProductID     string
	VariantID     string
	Quantity      int
	Customization *domain.Customization
}

type CartComposer interface {
	Add(ctx context.Context, p AddParams) (domain.CartLine, error)
	SetQuantity(ctx context.Context, lineID string, quantity int) (domain.CartLine, error)
	Remove(ctx context.Context, lineID string) error
	Clear(ctx context.Context, userID string) error
	List(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type StockChecker interface {
	Check(requiresSizing bool, v *domain.ProductVariant, quantity int) error
}

type StockApplier interface {
	ApplyStockLevel(ctx context.Context, variantID string, stock int, available bool) error
}
