package filter

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// DefaultPriceRange is reported for an empty catalog.
var DefaultPriceRange = PriceRange{Min: 0, Max: 10000}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DimensionRanges lists the non-empty buckets per dimension.
type DimensionRanges struct {
	Width  []Bucket `json:"width"`
	Depth  []Bucket `json:"depth"`
	Height []Bucket `json:"height"`
}

// Facets are the filter choices offered for a catalog. They are always
// derived from the full catalog, never a filtered view.
type Facets struct {
	Categories      []string        `json:"availableCategories"`
	Rooms           []catalog.Room  `json:"availableRooms"`
	Styles          []catalog.Style `json:"availableStyles"`
	DimensionRanges DimensionRanges `json:"availableDimensionRanges"`
	PriceRange      PriceRange      `json:"priceRange"`
}

// Derive computes every facet for products.
func Derive(products []catalog.EnrichedProduct) Facets {
	return Facets{
		Categories:      AvailableCategories(products),
		Rooms:           AvailableRooms(products),
		Styles:          AvailableStyles(products),
		DimensionRanges: AvailableDimensionRanges(products),
		PriceRange:      PriceRangeOf(products),
	}
}

// AvailableCategories returns the sorted distinct normalized categories.
func AvailableCategories(products []catalog.EnrichedProduct) []string {
	cats := lo.Uniq(lo.FilterMap(products, func(p catalog.EnrichedProduct, _ int) (string, bool) {
		return p.NormalizedCategory, p.NormalizedCategory != ""
	}))
	slices.Sort(cats)
	return cats
}

// AvailableRooms returns the rooms used by at least one product, in room
// declaration order.
func AvailableRooms(products []catalog.EnrichedProduct) []catalog.Room {
	present := make(map[catalog.Room]bool)
	for _, p := range products {
		for _, r := range p.Rooms {
			present[r] = true
		}
	}
	return lo.Filter(catalog.AllRooms(), func(r catalog.Room, _ int) bool { return present[r] })
}

// AvailableStyles returns the styles used by at least one product, in
// style declaration order.
func AvailableStyles(products []catalog.EnrichedProduct) []catalog.Style {
	present := make(map[catalog.Style]bool)
	for _, p := range products {
		present[p.Style] = true
	}
	return lo.Filter(catalog.AllStyles(), func(s catalog.Style, _ int) bool { return present[s] })
}

// AvailableDimensionRanges returns, per dimension, exactly the buckets that
// contain at least one product.
func AvailableDimensionRanges(products []catalog.EnrichedProduct) DimensionRanges {
	return DimensionRanges{
		Width:  occupied(products, width),
		Depth:  occupied(products, depth),
		Height: occupied(products, height),
	}
}

func occupied(products []catalog.EnrichedProduct, field func(*catalog.Dimensions) *float64) []Bucket {
	return lo.Filter(AllBuckets(), func(b Bucket, _ int) bool {
		return lo.ContainsBy(products, func(p catalog.EnrichedProduct) bool {
			return matchBuckets([]Bucket{b}, p.Dimensions, field)
		})
	})
}

// PriceRangeOf returns the floor of the lowest and the ceiling of the
// highest price, or DefaultPriceRange for an empty catalog.
func PriceRangeOf(products []catalog.EnrichedProduct) PriceRange {
	if len(products) == 0 {
		return DefaultPriceRange
	}
	lowest, highest := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lowest = math.Min(lowest, p.Price)
		highest = math.Max(highest, p.Price)
	}
	return PriceRange{Min: math.Floor(lowest), Max: math.Ceil(highest)}
}
