package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
)

// GET v1/products/{productID} (200 OK, 404 Not found)
// GET v1/products/{productID}/variants (200 OK, 503 catalog unavailable)

type VariantsHandler struct {
	products port.ProductStore
	variants port.VariantsProvider
}

func RegisterVariants(
	mux *http.ServeMux,
	products port.ProductStore,
	variants port.VariantsProvider,
) {
	h := VariantsHandler{products, variants}
	mux.HandleFunc("GET /v1/products/{productID}", h.GetProduct)
	mux.HandleFunc("GET /v1/products/{productID}/variants", h.GetVariants)
}

func (h VariantsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "VariantsHandler.GetProduct"
	log := slog.With("op", op)

	productID := r.PathValue("productID")

	p, err := h.products.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		log.Error("failed to read product", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	writeJSON(w, http.StatusOK, toProduct(p), log)
}

// GetVariants serves the availability-filtered gender buckets the
// shopper's size screen renders.
func (h VariantsHandler) GetVariants(w http.ResponseWriter, r *http.Request) {
	const op = "VariantsHandler.GetVariants"
	log := slog.With("op", op)

	productID := r.PathValue("productID")

	groups, err := h.variants.AvailableVariants(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			writeError(w, http.StatusServiceUnavailable,
				"could not load sizes", nil)
			return
		}
		log.Error("failed to list variants", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure", nil)
		return
	}

	writeJSON(w, http.StatusOK, toVariantGroups(groups), log)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, available *int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     msg,
		Available: available,
	})
}

func toProduct(p domain.Product) Product {
	return Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
	}
}

func toVariantGroups(g domain.VariantGroups) VariantGroups {
	return VariantGroups{
		Male:   toVariants(g.Male),
		Female: toVariants(g.Female),
		Unisex: toVariants(g.Unisex),
	}
}

func toVariants(vs []domain.ProductVariant) []Variant {
	out := make([]Variant, len(vs))
	for i, v := range vs {
		out[i] = Variant{
			VariantID:       v.VariantID,
			ProductID:       v.ProductID,
			Size:            string(v.Size),
			Gender:          string(v.Gender),
			Stock:           v.Stock,
			PriceAdjustment: v.PriceAdjustment,
			IsAvailable:     v.Available,
		}
	}
	return out
}
