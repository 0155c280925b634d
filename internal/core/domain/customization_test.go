package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/printmade/storefront/internal/core/domain"
)

func TestCustomizationKey(t *testing.T) {
	design := func(attrs map[string]string) *domain.Customization {
		return &domain.Customization{
			Design: &domain.Design{
				DesignID: "d1",
				Name:     "Flames",
				Attrs:    attrs,
			},
		}
	}

	t.Run("NilIsStable", func(t *testing.T) {
		var a, b *domain.Customization
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("NilDiffersFromPresent", func(t *testing.T) {
		var none *domain.Customization
		assert.NotEqual(t, none.Key(), (&domain.Customization{}).Key())
		assert.NotEqual(t, none.Key(), (&domain.Customization{ImageRef: "img1"}).Key())
	})

	t.Run("EqualImages", func(t *testing.T) {
		a := &domain.Customization{ImageRef: "img1"}
		b := &domain.Customization{ImageRef: "img1"}
		assert.Equal(t, a.Key(), b.Key())
		assert.True(t, a.Equal(b))
	})

	t.Run("DifferentImages", func(t *testing.T) {
		a := &domain.Customization{ImageRef: "img1"}
		b := &domain.Customization{ImageRef: "img2"}
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("DeepDesignEquality", func(t *testing.T) {
		a := design(map[string]string{"color": "red", "side": "front"})
		b := design(map[string]string{"side": "front", "color": "red"})
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("DesignAttrDifferenceSplits", func(t *testing.T) {
		a := design(map[string]string{"color": "red"})
		b := design(map[string]string{"color": "blue"})
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("DesignIDDifferenceSplits", func(t *testing.T) {
		a := design(nil)
		b := design(nil)
		b.Design.DesignID = "d2"
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("ImageAndDesignBothCompared", func(t *testing.T) {
		a := design(nil)
		b := design(nil)
		b.ImageRef = "img1"
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("AttrValueWithMarkersDoesNotCollide", func(t *testing.T) {
		// one attr whose value spells out two attrs must not key the
		// same as those two attrs
		a := design(map[string]string{"k": "v|k2=v2"})
		b := design(map[string]string{"k": "v", "k2": "v2"})
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("ImageRefWithMarkersDoesNotCollide", func(t *testing.T) {
		a := &domain.Customization{
			ImageRef: "a",
			Design:   &domain.Design{DesignID: "b|design:c"},
		}
		b := &domain.Customization{
			ImageRef: "a|design:b",
			Design:   &domain.Design{DesignID: "c"},
		}
		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("DisplayNameNotPartOfIdentity", func(t *testing.T) {
		a := &domain.Customization{Name: "My mug", ImageRef: "img1"}
		b := &domain.Customization{Name: "Other name", ImageRef: "img1"}
		assert.Equal(t, a.Key(), b.Key())
	})
}
