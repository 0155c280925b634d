package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
	"github.com/printmade/storefront/pkg/retry"
)

// GET    v1/cart/{userID} (200 OK)
// POST   v1/cart/{userID}/items JSON (201 Created, 400, 404, 409, 422)
// PUT    v1/cart/{userID}/items/{lineID} JSON (200 OK, 204 removed, 404)
// DELETE v1/cart/{userID}/items/{lineID} (204 No content)
// DELETE v1/cart/{userID} (204 No content)

type CartHandler struct {
	composer port.CartComposer
	products port.ProductStore
	variants port.VariantsProvider
	guard    port.StockChecker
}

func RegisterCart(
	mux *http.ServeMux,
	composer port.CartComposer,
	products port.ProductStore,
	variants port.VariantsProvider,
	guard port.StockChecker,
) {
	h := CartHandler{composer, products, variants, guard}
	mux.HandleFunc("GET /v1/cart/{userID}", h.GetCart)
	mux.HandleFunc("POST /v1/cart/{userID}/items", h.AddItem)
	mux.HandleFunc("PUT /v1/cart/{userID}/items/{lineID}", h.SetQuantity)
	mux.HandleFunc("DELETE /v1/cart/{userID}/items/{lineID}", h.RemoveItem)
	mux.HandleFunc("DELETE /v1/cart/{userID}", h.ClearCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	userID := r.PathValue("userID")

	lines, err := h.composer.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list cart", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	cart := Cart{UserID: userID, Lines: make([]CartLine, 0, len(lines))}
	pricer := newLinePricer(h.products, h.variants)
	for _, l := range lines {
		wire := toCartLine(l)
		wire.UnitPrice = pricer.price(r.Context(), l)
		cart.Lines = append(cart.Lines, wire)
	}

	writeJSON(w, http.StatusOK, cart, log)
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	userID := r.PathValue("userID")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON data", nil)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required", nil)
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		log.Error("failed to read product", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	requiresSizing := product.Category.RequiresSizing()

	variant, ok := h.resolveVariant(w, r, req, requiresSizing)
	if !ok {
		return
	}

	if err := h.guard.Check(requiresSizing, variant, req.Quantity); err != nil {
		writeGuardError(w, err)
		return
	}

	line, err := h.addWithRetry(r, userID, req)
	if err != nil {
		log.Error("failed to add cart line", "err", err)
		if errors.Is(err, domain.ErrMergeConflict) {
			writeError(w, http.StatusConflict, "cart merge conflict", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	wire := toCartLine(line)
	if variant != nil {
		wire.UnitPrice = variant.UnitPrice(product)
	} else {
		wire.UnitPrice = product.BasePrice
	}
	writeJSON(w, http.StatusCreated, wire, log)
}

// resolveVariant looks the requested variant up among the product's
// variants, unavailable ones included, so the guard can report the
// exact stock situation. It writes the response on failure.
func (h CartHandler) resolveVariant(
	w http.ResponseWriter, r *http.Request,
	req AddItemRequest, requiresSizing bool,
) (*domain.ProductVariant, bool) {
	const op = "CartHandler.resolveVariant"
	log := slog.With("op", op)

	if req.VariantID == "" {
		return nil, true
	}

	groups, err := h.variants.GroupVariants(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			writeError(w, http.StatusServiceUnavailable,
				"could not load sizes", nil)
			return nil, false
		}
		log.Error("failed to list variants", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return nil, false
	}

	v := findVariant(groups, req.VariantID)
	if v == nil {
		writeError(w, http.StatusNotFound, "variant not found", nil)
		return nil, false
	}
	return v, true
}

// addWithRetry replays the add once when a concurrent add for the same
// identity won the insert; on replay the merge path finds that line.
func (h CartHandler) addWithRetry(
	r *http.Request, userID string, req AddItemRequest,
) (domain.CartLine, error) {
	retryCfg := retry.Config{
		MaxAttempts: 2,
		ShouldRetry: func(err error) bool {
			return errors.Is(err, domain.ErrMergeConflict)
		},
	}

	return retry.DoWithResult(r.Context(), retryCfg,
		func() (domain.CartLine, error) {
			return h.composer.Add(r.Context(), port.AddParams{
				UserID:        userID,
				ProductID:     req.ProductID,
				VariantID:     req.VariantID,
				Quantity:      req.Quantity,
				Customization: toDomainCustomization(req.Customization),
			})
		})
}

func (h CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SetQuantity"
	log := slog.With("op", op)

	lineID := r.PathValue("lineID")

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON data", nil)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	line, err := h.composer.SetQuantity(r.Context(), lineID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "cart line not found", nil)
			return
		}
		log.Error("failed to set quantity", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	if req.Quantity <= 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	wire := toCartLine(line)
	wire.UnitPrice = newLinePricer(h.products, h.variants).price(r.Context(), line)
	writeJSON(w, http.StatusOK, wire, log)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	if err := h.composer.Remove(r.Context(), r.PathValue("lineID")); err != nil {
		log.Error("failed to remove cart line", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ClearCart"
	log := slog.With("op", op)

	if err := h.composer.Clear(r.Context(), r.PathValue("userID")); err != nil {
		log.Error("failed to clear cart", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeGuardError(w http.ResponseWriter, err error) {
	var stockErr domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		writeError(w, http.StatusConflict, "insufficient stock", &available)
	case errors.Is(err, domain.ErrSizeNotSelected):
		writeError(w, http.StatusUnprocessableEntity, "size not selected", nil)
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid quantity", nil)
	default:
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
	}
}

func findVariant(g domain.VariantGroups, variantID string) *domain.ProductVariant {
	for _, bucket := range [][]domain.ProductVariant{g.Male, g.Female, g.Unisex} {
		for _, v := range bucket {
			if v.VariantID == variantID {
				matched := v
				return &matched
			}
		}
	}
	return nil
}

func toCartLine(l domain.CartLine) CartLine {
	return CartLine{
		LineID:        l.LineID,
		UserID:        l.UserID,
		ProductID:     l.ProductID,
		VariantID:     l.VariantID,
		Quantity:      l.Quantity,
		Customization: toWireCustomization(l.Customization),
		CreatedAt:     l.CreatedAt,
	}
}

func toWireCustomization(c *domain.Customization) *Customization {
	if c == nil {
		return nil
	}
	wire := &Customization{Name: c.Name, ImageRef: c.ImageRef}
	if c.Design != nil {
		wire.Design = &Design{
			DesignID: c.Design.DesignID,
			Name:     c.Design.Name,
			Attrs:    c.Design.Attrs,
		}
	}
	return wire
}

func toDomainCustomization(c *Customization) *domain.Customization {
	if c == nil {
		return nil
	}
	d := &domain.Customization{Name: c.Name, ImageRef: c.ImageRef}
	if c.Design != nil {
		d.Design = &domain.Design{
			DesignID: c.Design.DesignID,
			Name:     c.Design.Name,
			Attrs:    c.Design.Attrs,
		}
	}
	return d
}

// linePricer computes presentation prices for cart lines, caching the
// product and variant reads within one request.
type linePricer struct {
	products port.ProductStore
	variants port.VariantsProvider

	productCache map[string]domain.Product
	groupsCache  map[string]domain.VariantGroups
}

func newLinePricer(
	products port.ProductStore, variants port.VariantsProvider,
) *linePricer {
	return &linePricer{
		products:     products,
		variants:     variants,
		productCache: make(map[string]domain.Product),
		groupsCache:  make(map[string]domain.VariantGroups),
	}
}

// price is best-effort: a failed lookup leaves the price at zero
// rather than failing the whole cart read.
func (p *linePricer) price(ctx context.Context, l domain.CartLine) float64 {
	const op = "linePricer.price"
	log := slog.With("op", op)

	product, ok := p.productCache[l.ProductID]
	if !ok {
		var err error
		product, err = p.products.GetProduct(ctx, l.ProductID)
		if err != nil {
			log.Warn("failed to read product for pricing",
				"productID", l.ProductID, "err", err)
			return 0
		}
		p.productCache[l.ProductID] = product
	}

	if l.VariantID == "" {
		return product.BasePrice
	}

	groups, ok := p.groupsCache[l.ProductID]
	if !ok {
		var err error
		groups, err = p.variants.GroupVariants(ctx, l.ProductID)
		if err != nil {
			log.Warn("failed to list variants for pricing",
				"productID", l.ProductID, "err", err)
			return 0
		}
		p.groupsCache[l.ProductID] = groups
	}

	v := findVariant(groups, l.VariantID)
	if v == nil {
		return product.BasePrice
	}
	return v.UnitPrice(product)
}
