package domain

import "sort"

type (
	Product struct {
		ProductID   string
		Name        string
		Description string
		BasePrice   float64
		Category    Category
		ImageURL    string
	}

	ProductVariant struct {
		VariantID       string
		ProductID       string
		Size            Size
		Gender          Gender
		Stock           int
		PriceAdjustment float64
		Available       bool
	}
)

// UnitPrice is the purchasable price of the variant: the product base
// price plus the variant's signed adjustment.
func (v ProductVariant) UnitPrice(p Product) float64 {
	return p.BasePrice + v.PriceAdjustment
}

type Category string

const (
	CategoryMugs   Category = "mugs"
	CategoryCaps   Category = "caps"
	CategoryShirts Category = "shirts"
)

// RequiresSizing reports whether items of the category are purchased
// through a resolved variant rather than the bare product.
func (c Category) RequiresSizing() bool {
	return c == CategoryCaps || c == CategoryShirts
}

// Gendered reports whether the category sells separate male and female
// variant lines. Caps are unisex only.
func (c Category) Gendered() bool {
	return c == CategoryShirts
}

type Size string

const (
	SizeXS  Size = "xs"
	SizeS   Size = "s"
	SizeM   Size = "m"
	SizeL   Size = "l"
	SizeXL  Size = "xl"
	SizeXXL Size = "xxl"
)

var sizeRank = map[Size]int{
	SizeXS: 0, SizeS: 1, SizeM: 2, SizeL: 3, SizeXL: 4, SizeXXL: 5,
}

// Rank is the position of the size in the fixed enum order.
// Unknown sizes rank last.
func (s Size) Rank() int {
	r, ok := sizeRank[s]
	if !ok {
		return len(sizeRank)
	}
	return r
}

func (s Size) Valid() bool {
	_, ok := sizeRank[s]
	return ok
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = ""
)

// VariantGroups partitions the variants of one product into gender
// buckets. Each bucket is sorted by size in the fixed enum order; the
// incoming order is preserved within equal sizes.
type VariantGroups struct {
	Male   []ProductVariant
	Female []ProductVariant
	Unisex []ProductVariant
}

func GroupVariants(vs []ProductVariant) VariantGroups {
	var g VariantGroups
	for _, v := range vs {
		switch v.Gender {
		case GenderMale:
			g.Male = append(g.Male, v)
		case GenderFemale:
			g.Female = append(g.Female, v)
		default:
			g.Unisex = append(g.Unisex, v)
		}
	}
	sortBySize(g.Male)
	sortBySize(g.Female)
	sortBySize(g.Unisex)
	return g
}

func sortBySize(vs []ProductVariant) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Size.Rank() < vs[j].Size.Rank()
	})
}

// Bucket returns the variants of one gender bucket.
func (g VariantGroups) Bucket(gender Gender) []ProductVariant {
	switch gender {
	case GenderMale:
		return g.Male
	case GenderFemale:
		return g.Female
	default:
		return g.Unisex
	}
}

// Populated lists the genders whose buckets hold at least one variant.
func (g VariantGroups) Populated() []Gender {
	var gs []Gender
	if len(g.Male) > 0 {
		gs = append(gs, GenderMale)
	}
	if len(g.Female) > 0 {
		gs = append(gs, GenderFemale)
	}
	if len(g.Unisex) > 0 {
		gs = append(gs, GenderUnisex)
	}
	return gs
}
