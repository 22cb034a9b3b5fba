// Package filter narrows and orders catalog views and derives facet
// choices from the full catalog.
package filter

import (
	"strings"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// Spec holds all filter criteria. Empty fields do not constrain.
// Facets combine with AND; values within one facet combine with OR.
type Spec struct {
	Categories []string
	Rooms      []catalog.Room
	Styles     []catalog.Style
	Widths     []Bucket
	Depths     []Bucket
	Heights    []Bucket
	MinPrice   *float64
	MaxPrice   *float64
	Query      string
	Sort       SortKey
	Limit      int
}

// Apply returns the products matching spec, sorted by spec.Sort. Products
// with equal sort keys keep their input order.
func Apply(products []catalog.EnrichedProduct, spec Spec) []catalog.EnrichedProduct {
	m := compile(spec)

	result := make([]catalog.EnrichedProduct, 0, len(products))
	for _, p := range products {
		if m.matches(p) {
			result = append(result, p)
		}
	}

	Sort(result, spec.Sort)

	if spec.Limit > 0 && spec.Limit < len(result) {
		result = result[:spec.Limit]
	}
	return result
}

type matcher struct {
	categories map[string]struct{}
	rooms      []catalog.Room
	styles     []catalog.Style
	widths     []Bucket
	depths     []Bucket
	heights    []Bucket
	minPrice   *float64
	maxPrice   *float64
	query      catalog.Query
}

func compile(spec Spec) matcher {
	m := matcher{
		rooms:    spec.Rooms,
		styles:   spec.Styles,
		widths:   spec.Widths,
		depths:   spec.Depths,
		heights:  spec.Heights,
		minPrice: spec.MinPrice,
		maxPrice: spec.MaxPrice,
		query:    catalog.NewQuery(spec.Query),
	}
	if len(spec.Categories) > 0 {
		m.categories = make(map[string]struct{}, len(spec.Categories))
		for _, c := range spec.Categories {
			m.categories[strings.ToLower(c)] = struct{}{}
		}
	}
	return m
}

func (m matcher) matches(p catalog.EnrichedProduct) bool {
	if m.minPrice != nil && p.Price < *m.minPrice {
		return false
	}
	if m.maxPrice != nil && p.Price > *m.maxPrice {
		return false
	}
	if m.categories != nil && !m.matchCategory(p) {
		return false
	}
	if len(m.rooms) > 0 && !anyRoom(p, m.rooms) {
		return false
	}
	if len(m.styles) > 0 && !containsStyle(m.styles, p.Style) {
		return false
	}
	if !matchBuckets(m.widths, p.Dimensions, width) ||
		!matchBuckets(m.depths, p.Dimensions, depth) ||
		!matchBuckets(m.heights, p.Dimensions, height) {
		return false
	}
	return m.query.Match(p)
}

func (m matcher) matchCategory(p catalog.EnrichedProduct) bool {
	if _, ok := m.categories[strings.ToLower(p.NormalizedCategory)]; ok && p.NormalizedCategory != "" {
		return true
	}
	_, ok := m.categories[strings.ToLower(p.ProductType)]
	return ok && p.ProductType != ""
}

func anyRoom(p catalog.EnrichedProduct, rooms []catalog.Room) bool {
	for _, r := range rooms {
		if p.HasRoom(r) {
			return true
		}
	}
	return false
}

func containsStyle(styles []catalog.Style, s catalog.Style) bool {
	if s == catalog.StyleNone {
		return false
	}
	for _, want := range styles {
		if want == s {
			return true
		}
	}
	return false
}

func width(d *catalog.Dimensions) *float64  { return d.Width }
func depth(d *catalog.Dimensions) *float64  { return d.Depth }
func height(d *catalog.Dimensions) *float64 { return d.Height }

func matchBuckets(buckets []Bucket, d *catalog.Dimensions, field func(*catalog.Dimensions) *float64) bool {
	if len(buckets) == 0 {
		return true
	}
	if d == nil {
		return false
	}
	v := field(d)
	if v == nil {
		return false
	}
	for _, b := range buckets {
		if b.Contains(*v) {
			return true
		}
	}
	return false
}

// HasActiveFilters reports whether spec narrows or reorders the catalog
// relative to the given price bounds.
func HasActiveFilters(spec Spec, bounds PriceRange) bool {
	return len(spec.Categories) > 0 ||
		len(spec.Rooms) > 0 ||
		len(spec.Styles) > 0 ||
		len(spec.Widths) > 0 || len(spec.Depths) > 0 || len(spec.Heights) > 0 ||
		(spec.MinPrice != nil && *spec.MinPrice > bounds.Min) ||
		(spec.MaxPrice != nil && *spec.MaxPrice < bounds.Max) ||
		strings.TrimSpace(spec.Query) != "" ||
		spec.Sort != SortNewest
}

// ToggleCategory adds category to the selection, or removes it if present.
func (s *Spec) ToggleCategory(category string) {
	for i, c := range s.Categories {
		if c == category {
			s.Categories = append(s.Categories[:i:i], s.Categories[i+1:]...)
			return
		}
	}
	s.Categories = append(s.Categories, category)
}
