package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/service"
)

type fakeVariantStore struct {
	variants []domain.ProductVariant
	err      error
}

func (s fakeVariantStore) ListVariants(
	context.Context, string,
) ([]domain.ProductVariant, error) {
	return s.variants, s.err
}

func (s fakeVariantStore) ApplyStockLevel(
	context.Context, string, int, bool,
) error {
	return nil
}

func TestCatalogGroupVariants(t *testing.T) {
	store := fakeVariantStore{variants: []domain.ProductVariant{
		variant("m-xl", domain.SizeXL, domain.GenderMale, 1, true),
		variant("u-m", domain.SizeM, domain.GenderUnisex, 1, true),
		variant("m-s", domain.SizeS, domain.GenderMale, 1, false),
		variant("f-m", domain.SizeM, domain.GenderFemale, 1, true),
		variant("m-m", domain.SizeM, domain.GenderMale, 1, true),
	}}
	catalog := service.NewCatalog(store)

	groups, err := catalog.GroupVariants(t.Context(), "product-a")
	require.NoError(t, err)

	// all variants bucketed, size-sorted, unavailable included
	require.Len(t, groups.Male, 3)
	assert.Equal(t, "m-s", groups.Male[0].VariantID)
	assert.Equal(t, "m-m", groups.Male[1].VariantID)
	assert.Equal(t, "m-xl", groups.Male[2].VariantID)

	require.Len(t, groups.Female, 1)
	require.Len(t, groups.Unisex, 1)
}

func TestCatalogAvailableVariants(t *testing.T) {
	store := fakeVariantStore{variants: []domain.ProductVariant{
		variant("m-s", domain.SizeS, domain.GenderMale, 1, false),
		variant("m-m", domain.SizeM, domain.GenderMale, 1, true),
	}}
	catalog := service.NewCatalog(store)

	groups, err := catalog.AvailableVariants(t.Context(), "product-a")
	require.NoError(t, err)

	require.Len(t, groups.Male, 1)
	assert.Equal(t, "m-m", groups.Male[0].VariantID)
}

func TestCatalogAvailableVariantsLeavesStoreSliceIntact(t *testing.T) {
	vs := []domain.ProductVariant{
		variant("m-s", domain.SizeS, domain.GenderMale, 1, false),
		variant("m-m", domain.SizeM, domain.GenderMale, 1, true),
		variant("m-l", domain.SizeL, domain.GenderMale, 1, true),
	}
	catalog := service.NewCatalog(fakeVariantStore{variants: vs})

	_, err := catalog.AvailableVariants(t.Context(), "product-a")
	require.NoError(t, err)

	// a caching store may hand out the same slice on every call
	assert.Equal(t, "m-s", vs[0].VariantID)
	assert.Equal(t, "m-m", vs[1].VariantID)
	assert.Equal(t, "m-l", vs[2].VariantID)
}

func TestCatalogStoreFailure(t *testing.T) {
	catalog := service.NewCatalog(fakeVariantStore{err: errors.New("timeout")})

	_, err := catalog.GroupVariants(t.Context(), "product-a")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = catalog.AvailableVariants(t.Context(), "product-a")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
