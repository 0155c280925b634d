package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/service"
)

func variant(id string, size domain.Size, gender domain.Gender, stock int, available bool) domain.ProductVariant {
	return domain.ProductVariant{
		VariantID: id,
		ProductID: "product-a",
		Size:      size,
		Gender:    gender,
		Stock:     stock,
		Available: available,
	}
}

func shirtGroups() domain.VariantGroups {
	return domain.GroupVariants([]domain.ProductVariant{
		variant("m-m", domain.SizeM, domain.GenderMale, 5, true),
		variant("m-l", domain.SizeL, domain.GenderMale, 5, true),
		variant("f-s", domain.SizeS, domain.GenderFemale, 5, true),
		variant("f-m", domain.SizeM, domain.GenderFemale, 5, true),
	})
}

func TestSelectorNoSelectionRequired(t *testing.T) {
	sel := service.NewSelector(domain.CategoryMugs, domain.VariantGroups{})

	assert.Equal(t, service.StateNoSelectionRequired, sel.State())

	err := sel.SelectGender(domain.GenderMale)
	assert.ErrorIs(t, err, service.ErrSelectionNotRequired)

	err = sel.SelectSize(domain.SizeM)
	assert.ErrorIs(t, err, service.ErrSelectionNotRequired)
}

func TestSelectorCapLike(t *testing.T) {
	groups := domain.GroupVariants([]domain.ProductVariant{
		variant("u-s", domain.SizeS, domain.GenderUnisex, 3, true),
		variant("u-m", domain.SizeM, domain.GenderUnisex, 0, true),
	})

	sel := service.NewSelector(domain.CategoryCaps, groups)

	// no explicit gender step: straight to size selection
	assert.Equal(t, service.StateAwaitingSize, sel.State())

	err := sel.SelectGender(domain.GenderMale)
	assert.ErrorIs(t, err, service.ErrGenderNotSelectable)

	require.NoError(t, sel.SelectSize(domain.SizeS))
	assert.Equal(t, service.StateResolved, sel.State())
	require.NotNil(t, sel.Variant())
	assert.Equal(t, "u-s", sel.Variant().VariantID)
}

func TestSelectorGenderThenSize(t *testing.T) {
	sel := service.NewSelector(domain.CategoryShirts, shirtGroups())
	assert.Equal(t, service.StateAwaitingGender, sel.State())

	// size before gender is not a legal transition
	err := sel.SelectSize(domain.SizeM)
	assert.ErrorIs(t, err, service.ErrGenderNotChosen)

	require.NoError(t, sel.SelectGender(domain.GenderFemale))
	assert.Equal(t, service.StateAwaitingSize, sel.State())

	require.NoError(t, sel.SelectSize(domain.SizeM))
	assert.Equal(t, service.StateResolved, sel.State())
	require.NotNil(t, sel.Variant())
	assert.Equal(t, "f-m", sel.Variant().VariantID)
}

func TestSelectorGenderChangeClearsSize(t *testing.T) {
	sel := service.NewSelector(domain.CategoryShirts, shirtGroups())

	require.NoError(t, sel.SelectGender(domain.GenderFemale))
	require.NoError(t, sel.SelectSize(domain.SizeM))
	assert.Equal(t, service.StateResolved, sel.State())

	require.NoError(t, sel.SelectGender(domain.GenderMale))
	assert.Equal(t, service.StateAwaitingSize, sel.State())
	assert.Nil(t, sel.Variant())
	_, chosen := sel.Size()
	assert.False(t, chosen)
}

func TestSelectorSingleBucketSkipsGenderStep(t *testing.T) {
	groups := domain.GroupVariants([]domain.ProductVariant{
		variant("m-m", domain.SizeM, domain.GenderMale, 5, true),
		variant("m-l", domain.SizeL, domain.GenderMale, 5, true),
	})

	sel := service.NewSelector(domain.CategoryShirts, groups)

	assert.Equal(t, service.StateAwaitingSize, sel.State())
	assert.Equal(t, domain.GenderMale, sel.Gender())

	err := sel.SelectGender(domain.GenderFemale)
	assert.ErrorIs(t, err, service.ErrGenderNotSelectable)
}

func TestSelectorUnavailableSizeStaysSelectable(t *testing.T) {
	groups := domain.GroupVariants([]domain.ProductVariant{
		variant("u-s", domain.SizeS, domain.GenderUnisex, 3, true),
		variant("u-m", domain.SizeM, domain.GenderUnisex, 10, false),
	})

	sel := service.NewSelector(domain.CategoryCaps, groups)

	require.NoError(t, sel.SelectSize(domain.SizeM))
	assert.Equal(t, service.StateUnresolved, sel.State())

	// the unavailable variant stays attached for messaging
	require.NotNil(t, sel.Variant())
	assert.Equal(t, "u-m", sel.Variant().VariantID)

	// and StockGuard blocks the add
	guard := service.NewStockGuard()
	err := guard.Check(true, sel.Variant(), 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestSelectorMissingSizeUnresolved(t *testing.T) {
	groups := domain.GroupVariants([]domain.ProductVariant{
		variant("u-s", domain.SizeS, domain.GenderUnisex, 3, true),
	})

	sel := service.NewSelector(domain.CategoryCaps, groups)

	require.NoError(t, sel.SelectSize(domain.SizeXXL))
	assert.Equal(t, service.StateUnresolved, sel.State())
	assert.Nil(t, sel.Variant())

	guard := service.NewStockGuard()
	err := guard.Check(true, sel.Variant(), 1)
	assert.ErrorIs(t, err, domain.ErrSizeNotSelected)
}
