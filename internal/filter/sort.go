package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// SortKey orders a filtered view.
type SortKey uint8

const (
	SortNewest SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortName
)

var sortNames = [...]string{"newest", "price-low", "price-high", "name"}

func (k SortKey) String() string {
	if int(k) >= len(sortNames) {
		return sortNames[SortNewest]
	}
	return sortNames[k]
}

// ParseSort accepts a sort name or a common alias. The empty string is
// SortNewest.
func ParseSort(raw string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "newest", "new", "recent":
		return SortNewest, true
	case "price-low", "price-asc", "price", "cheapest":
		return SortPriceAsc, true
	case "price-high", "price-desc":
		return SortPriceDesc, true
	case "name", "title", "a-z":
		return SortName, true
	default:
		return SortNewest, false
	}
}

// Sort orders products in place. Equal keys keep their relative order, and
// SortNewest leaves ingestion order untouched.
func Sort(products []catalog.EnrichedProduct, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b catalog.EnrichedProduct) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b catalog.EnrichedProduct) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortName:
		// Collators keep internal buffers, so each sort gets its own.
		col := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b catalog.EnrichedProduct) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
}
