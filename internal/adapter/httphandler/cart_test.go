package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printmade/storefront/internal/adapter/httphandler"
	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
	"github.com/printmade/storefront/internal/core/service"
)

type stubProductStore struct {
	product domain.Product
	err     error
}

func (s stubProductStore) GetProduct(
	context.Context, string,
) (domain.Product, error) {
	return s.product, s.err
}

type stubVariantsProvider struct {
	groups domain.VariantGroups
	err    error
}

func (s stubVariantsProvider) GroupVariants(
	context.Context, string,
) (domain.VariantGroups, error) {
	return s.groups, s.err
}

func (s stubVariantsProvider) AvailableVariants(
	context.Context, string,
) (domain.VariantGroups, error) {
	return s.groups, s.err
}

type stubComposer struct {
	line    domain.CartLine
	lines   []domain.CartLine
	err     error
	addArgs []port.AddParams
}

func (s *stubComposer) Add(
	_ context.Context, p port.AddParams,
) (domain.CartLine, error) {
	s.addArgs = append(s.addArgs, p)
	return s.line, s.err
}

func (s *stubComposer) SetQuantity(
	context.Context, string, int,
) (domain.CartLine, error) {
	return s.line, s.err
}

func (s *stubComposer) Remove(context.Context, string) error { return s.err }

func (s *stubComposer) Clear(context.Context, string) error { return s.err }

func (s *stubComposer) List(
	context.Context, string,
) ([]domain.CartLine, error) {
	return s.lines, s.err
}

func newCartServer(
	composer port.CartComposer,
	products port.ProductStore,
	variants port.VariantsProvider,
) *httptest.Server {
	mux := http.NewServeMux()
	httphandler.RegisterCart(
		mux, composer, products, variants, service.NewStockGuard(),
	)
	return httptest.NewServer(httphandler.AllowJSON(mux))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestAddItem(t *testing.T) {
	shirt := domain.Product{
		ProductID: "product-a",
		Category:  domain.CategoryShirts,
		BasePrice: 20,
	}
	mug := domain.Product{
		ProductID: "product-b",
		Category:  domain.CategoryMugs,
		BasePrice: 8,
	}
	groups := domain.GroupVariants([]domain.ProductVariant{
		{
			VariantID: "variant-x", ProductID: "product-a",
			Size: domain.SizeM, Gender: domain.GenderMale,
			Stock: 3, PriceAdjustment: 2, Available: true,
		},
	})

	t.Run("CreatedWithResolvedVariant", func(t *testing.T) {
		composer := &stubComposer{line: domain.CartLine{
			LineID: "line-1", UserID: "user-1",
			ProductID: "product-a", VariantID: "variant-x", Quantity: 2,
		}}
		srv := newCartServer(composer,
			stubProductStore{product: shirt}, stubVariantsProvider{groups: groups})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"product-a","variant_id":"variant-x","quantity":2}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var line httphandler.CartLine
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&line))
		assert.Equal(t, "line-1", line.LineID)
		assert.Equal(t, 22.0, line.UnitPrice)

		require.Len(t, composer.addArgs, 1)
		assert.Equal(t, "user-1", composer.addArgs[0].UserID)
	})

	t.Run("NoSizingSkipsGuard", func(t *testing.T) {
		composer := &stubComposer{line: domain.CartLine{
			LineID: "line-2", ProductID: "product-b", Quantity: 1,
		}}
		srv := newCartServer(composer,
			stubProductStore{product: mug}, stubVariantsProvider{})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"product-b","quantity":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("SizeNotSelected", func(t *testing.T) {
		srv := newCartServer(&stubComposer{},
			stubProductStore{product: shirt}, stubVariantsProvider{groups: groups})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"product-a","quantity":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("InsufficientStockCarriesAvailable", func(t *testing.T) {
		srv := newCartServer(&stubComposer{},
			stubProductStore{product: shirt}, stubVariantsProvider{groups: groups})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"product-a","variant_id":"variant-x","quantity":4}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body httphandler.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotNil(t, body.Available)
		assert.Equal(t, 3, *body.Available)
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		srv := newCartServer(&stubComposer{},
			stubProductStore{product: shirt}, stubVariantsProvider{groups: groups})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"product-a","variant_id":"nope","quantity":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		srv := newCartServer(&stubComposer{},
			stubProductStore{err: domain.ErrNotFound}, stubVariantsProvider{})
		defer srv.Close()

		resp := postJSON(t, srv.URL+"/v1/cart/user-1/items",
			`{"product_id":"missing","quantity":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("NonJSONContentType", func(t *testing.T) {
		srv := newCartServer(&stubComposer{},
			stubProductStore{product: mug}, stubVariantsProvider{})
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/v1/cart/user-1/items",
			"text/plain", strings.NewReader("hello"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestSetQuantityRemovesOnZero(t *testing.T) {
	composer := &stubComposer{}
	srv := newCartServer(composer, stubProductStore{}, stubVariantsProvider{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut,
		srv.URL+"/v1/cart/user-1/items/line-1",
		strings.NewReader(`{"quantity":0}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRemoveItemIdempotent(t *testing.T) {
	srv := newCartServer(&stubComposer{}, stubProductStore{}, stubVariantsProvider{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete,
		srv.URL+"/v1/cart/user-1/items/line-absent", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
