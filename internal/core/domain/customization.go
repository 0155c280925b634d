package domain

import (
	"sort"
	"strconv"
	"strings"
)

type (
	// Customization is the optional payload attached to a cart line:
	// an uploaded image reference, a chosen design, or nothing. The
	// image reference and design participate in line identity; Name is
	// display-only.
	Customization struct {
		Name     string
		ImageRef string
		Design   *Design
	}

	// Design is a structured design reference read back from storage as
	// a fresh value on every load, so it is always compared field by
	// field, never by reference.
	Design struct {
		DesignID string
		Name     string
		Attrs    map[string]string
	}
)

// CustomizationKey is the canonical identity key of a customization.
// Equal keys mean equal image references and deeply equal designs.
type CustomizationKey string

const noCustomizationKey CustomizationKey = "none"

// Key derives the canonical identity key. A nil customization maps to a
// fixed key distinct from every present payload. Design attrs are
// walked in sorted key order so the key never depends on map iteration
// or serialization order, and every field is length-prefixed so values
// containing the section markers cannot collide.
func (c *Customization) Key() CustomizationKey {
	if c == nil {
		return noCustomizationKey
	}

	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}

	b.WriteString("img:")
	field(c.ImageRef)
	b.WriteString("|design:")
	if c.Design != nil {
		field(c.Design.DesignID)
		field(c.Design.Name)
		keys := make([]string, 0, len(c.Design.Attrs))
		for k := range c.Design.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			field(k)
			field(c.Design.Attrs[k])
		}
	}
	return CustomizationKey(b.String())
}

// Equal reports whether two customizations share the same identity.
func (c *Customization) Equal(other *Customization) bool {
	return c.Key() == other.Key()
}
