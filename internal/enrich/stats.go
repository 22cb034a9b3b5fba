package enrich

import (
	"slices"

	"github.com/samber/lo"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// Stats summarizes how much structure enrichment recovered.
type Stats struct {
	Total          int      `json:"total"`
	WithRooms      int      `json:"withRooms"`
	WithStyle      int      `json:"withStyle"`
	WithCondition  int      `json:"withCondition"`
	WithEra        int      `json:"withEra"`
	WithMaterials  int      `json:"withMaterials"`
	WithDimensions int      `json:"withDimensions"`
	OnSale         int      `json:"onSale"`
	Sold           int      `json:"sold"`
	Categories     []string `json:"categories"`
}

// Summarize counts derived attributes across products.
func Summarize(products []catalog.EnrichedProduct) Stats {
	s := Stats{Total: len(products)}
	for _, p := range products {
		if len(p.Rooms) > 0 {
			s.WithRooms++
		}
		if p.Style != catalog.StyleNone {
			s.WithStyle++
		}
		if p.Condition != catalog.ConditionNone {
			s.WithCondition++
		}
		if p.Era != catalog.EraNone {
			s.WithEra++
		}
		if len(p.Materials) > 0 {
			s.WithMaterials++
		}
		if p.Dimensions != nil {
			s.WithDimensions++
		}
		if p.IsOnSale {
			s.OnSale++
		}
		if p.IsSold {
			s.Sold++
		}
	}

	s.Categories = lo.Uniq(lo.FilterMap(products, func(p catalog.EnrichedProduct, _ int) (string, bool) {
		return p.NormalizedCategory, p.NormalizedCategory != ""
	}))
	slices.Sort(s.Categories)
	return s
}

// Percent returns n as a rounded percentage of the total.
func (s Stats) Percent(n int) int {
	if s.Total == 0 {
		return 0
	}
	return (n*100 + s.Total/2) / s.Total
}
