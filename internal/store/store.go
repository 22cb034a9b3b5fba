// Package store holds an enriched catalog in memory for reading.
package store

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// Catalog is an immutable, indexed product snapshot. All methods return
// fresh slices, so callers may modify results freely.
type Catalog struct {
	products []catalog.EnrichedProduct
	byHandle map[string]int
}

// New builds a catalog from products in ingestion order. When handles
// repeat, the first product wins lookups.
func New(products []catalog.EnrichedProduct) *Catalog {
	c := &Catalog{
		products: slices.Clone(products),
		byHandle: make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		if _, ok := c.byHandle[p.Handle]; !ok {
			c.byHandle[p.Handle] = i
		}
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// All returns every product in ingestion order, newest first.
func (c *Catalog) All() []catalog.EnrichedProduct {
	return slices.Clone(c.products)
}

// ByHandle looks up a product by its handle.
func (c *Catalog) ByHandle(handle string) (catalog.EnrichedProduct, bool) {
	i, ok := c.byHandle[handle]
	if !ok {
		return catalog.EnrichedProduct{}, false
	}
	return c.products[i], true
}

// Search returns products matching query in catalog order. An empty query
// returns no results.
func (c *Catalog) Search(query string) []catalog.EnrichedProduct {
	q := catalog.NewQuery(query)
	if q.Empty() {
		return []catalog.EnrichedProduct{}
	}
	return c.where(q.Match)
}

// DefaultRelatedLimit is how many related products a detail view shows.
const DefaultRelatedLimit = 4

// Related returns up to limit other products sharing a category, product
// type, tag or style with p, in catalog order.
func (c *Catalog) Related(p catalog.EnrichedProduct, limit int) []catalog.EnrichedProduct {
	out := []catalog.EnrichedProduct{}
	if limit <= 0 {
		return out
	}
	for _, candidate := range c.products {
		if candidate.Handle == p.Handle || !related(p, candidate) {
			continue
		}
		out = append(out, candidate)
		if len(out) == limit {
			break
		}
	}
	return out
}

func related(a, b catalog.EnrichedProduct) bool {
	switch {
	case a.NormalizedCategory != "" && a.NormalizedCategory == b.NormalizedCategory:
		return true
	case a.ProductType != "" && a.ProductType == b.ProductType:
		return true
	case a.Style != catalog.StyleNone && a.Style == b.Style:
		return true
	}
	return lo.Some(a.Tags, b.Tags)
}

// ByCategory returns products whose product type or tags name category,
// ignoring case.
func (c *Catalog) ByCategory(category string) []catalog.EnrichedProduct {
	return c.where(func(p catalog.EnrichedProduct) bool {
		if strings.EqualFold(p.ProductType, category) {
			return true
		}
		return lo.ContainsBy(p.Tags, func(t string) bool { return strings.EqualFold(t, category) })
	})
}

// ByVendor returns products from vendor, ignoring case.
func (c *Catalog) ByVendor(vendor string) []catalog.EnrichedProduct {
	return c.where(func(p catalog.EnrichedProduct) bool {
		return strings.EqualFold(p.Vendor, vendor)
	})
}

// Categories returns the sorted distinct product types.
func (c *Catalog) Categories() []string {
	return c.distinct(func(p catalog.EnrichedProduct) string { return p.ProductType })
}

// Vendors returns the sorted distinct vendors.
func (c *Catalog) Vendors() []string {
	return c.distinct(func(p catalog.EnrichedProduct) string { return p.Vendor })
}

func (c *Catalog) distinct(field func(catalog.EnrichedProduct) string) []string {
	out := lo.Uniq(lo.FilterMap(c.products, func(p catalog.EnrichedProduct, _ int) (string, bool) {
		v := field(p)
		return v, v != ""
	}))
	slices.Sort(out)
	return out
}

func (c *Catalog) where(fn func(catalog.EnrichedProduct) bool) []catalog.EnrichedProduct {
	out := []catalog.EnrichedProduct{}
	for _, p := range c.products {
		if fn(p) {
			out = append(out, p)
		}
	}
	return out
}

// Holder publishes the live catalog. Readers always see a complete
// snapshot; Swap replaces it atomically.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder serving c, or an empty catalog when c is nil.
func NewHolder(c *Catalog) *Holder {
	if c == nil {
		c = New(nil)
	}
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current returns the live catalog.
func (h *Holder) Current() *Catalog { return h.current.Load() }

// Swap installs next and returns the previous catalog.
func (h *Holder) Swap(next *Catalog) *Catalog {
	if next == nil {
		next = New(nil)
	}
	return h.current.Swap(next)
}
