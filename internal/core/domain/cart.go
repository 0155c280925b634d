package domain

import "time"

// CartLine is one row of a user's cart. VariantID is empty for products
// that need no sizing. For a given user no two lines share the same
// (product, variant, customization key); adds with a matching identity
// merge by summing quantity.
type CartLine struct {
	LineID        string
	UserID        string
	ProductID     string
	VariantID     string
	Quantity      int
	Customization *Customization
	CreatedAt     time.Time
}

// SameIdentity reports whether an add for (productID, variantID, c)
// must merge into this line.
func (l CartLine) SameIdentity(productID, variantID string, c *Customization) bool {
	return l.ProductID == productID &&
		l.VariantID == variantID &&
		l.Customization.Key() == c.Key()
}

type CartEventType string

const (
	CartEventAdded           CartEventType = "added"
	CartEventQuantityChanged CartEventType = "quantity_changed"
	CartEventRemoved         CartEventType = "removed"
	CartEventCleared         CartEventType = "cleared"
)

// CartEvent records one cart mutation for downstream consumers.
type CartEvent struct {
	EventID    string
	Type       CartEventType
	UserID     string
	ProductID  string
	VariantID  string
	LineID     string
	Quantity   int
	OccurredAt time.Time
}
