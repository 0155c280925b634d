package httphandler

import "time"

type (
	Product struct {
		ProductID   string  `json:"product_id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		BasePrice   float64 `json:"base_price"`
		Category    string  `json:"category"`
		ImageURL    string  `json:"image_url,omitempty"`
	}

	Variant struct {
		VariantID       string  `json:"variant_id"`
		ProductID       string  `json:"product_id"`
		Size            string  `json:"size"`
		Gender          string  `json:"gender,omitempty"`
		Stock           int     `json:"stock"`
		PriceAdjustment float64 `json:"price_adjustment"`
		IsAvailable     bool    `json:"is_available"`
	}

	VariantGroups struct {
		Male   []Variant `json:"male"`
		Female []Variant `json:"female"`
		Unisex []Variant `json:"unisex"`
	}
)

type (
	Customization struct {
		Name     string  `json:"name,omitempty"`
		ImageRef string  `json:"image_ref,omitempty"`
		Design   *Design `json:"design,omitempty"`
	}

	Design struct {
		DesignID string            `json:"design_id"`
		Name     string            `json:"name"`
		Attrs    map[string]string `json:"attrs,omitempty"`
	}

	CartLine struct {
		LineID        string         `json:"line_id"`
		UserID        string         `json:"user_id"`
		ProductID     string         `json:"product_id"`
		VariantID     string         `json:"variant_id,omitempty"`
		Quantity      int            `json:"quantity"`
		UnitPrice     float64        `json:"unit_price,omitempty"`
		Customization *Customization `json:"customization,omitempty"`
		CreatedAt     time.Time      `json:"created_at"`
	}

	Cart struct {
		UserID string     `json:"user_id"`
		Lines  []CartLine `json:"lines"`
	}
)

type AddItemRequest struct {
	ProductID     string         `json:"product_id"`
	VariantID     string         `json:"variant_id,omitempty"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}
