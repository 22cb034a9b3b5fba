// Package catalog defines the product records shared by the enrichment
// pipeline, the catalog store and the filter engine.
package catalog

import (
	"strings"
	"unicode/utf8"
)

// RawProduct is a storefront listing as fetched, before enrichment.
type RawProduct struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Handle         string    `json:"handle"`
	Description    string    `json:"description"`
	Vendor         string    `json:"vendor"`
	ProductType    string    `json:"productType"`
	Tags           []string  `json:"tags"`
	Price          float64   `json:"price"`
	CompareAtPrice *float64  `json:"compareAtPrice"`
	Images         []Image   `json:"images"`
	Variants       []Variant `json:"variants"`
	Options        []Option  `json:"options"`
}

// Image is a product photo reference.
type Image struct {
	Original string `json:"original"`
	Local    string `json:"local,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Variant is one purchasable configuration of a product.
type Variant struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Price     float64           `json:"price"`
	SKU       string            `json:"sku"`
	Available bool              `json:"available"`
	Options   map[string]string `json:"options"`
}

// Option is a named option definition with its allowed values.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// EnrichedProduct is a RawProduct plus the attributes derived from its text.
// Nullable attributes are written as JSON null when absent.
type EnrichedProduct struct {
	RawProduct

	NormalizedCategory string      `json:"normalizedCategory"`
	Rooms              []Room      `json:"rooms"`
	Style              Style       `json:"style"`
	Condition          Condition   `json:"condition"`
	Era                Era         `json:"era"`
	Materials          []string    `json:"materials"`
	Dimensions         *Dimensions `json:"dimensions"`
	IsSold             bool        `json:"isSold"`
	IsOnSale           bool        `json:"isOnSale"`
}

// HasRoom reports whether r is one of the product's rooms.
func (p EnrichedProduct) HasRoom(r Room) bool {
	for _, have := range p.Rooms {
		if have == r {
			return true
		}
	}
	return false
}

// InCategory reports whether the normalized category or product type equals
// category, ignoring case.
func (p EnrichedProduct) InCategory(category string) bool {
	return strings.EqualFold(p.NormalizedCategory, category) ||
		strings.EqualFold(p.ProductType, category)
}

// Query is a compiled case-insensitive substring search.
type Query struct {
	needle string
}

// NewQuery prepares q for matching. Surrounding whitespace is ignored.
func NewQuery(q string) Query {
	return Query{needle: strings.ToLower(strings.TrimSpace(q))}
}

// Empty reports whether the query has no text.
func (q Query) Empty() bool { return q.needle == "" }

// Match reports whether any searchable field of p contains the query.
// An empty query matches everything.
func (q Query) Match(p EnrichedProduct) bool {
	if q.needle == "" {
		return true
	}
	if q.contains(p.Title) || q.contains(p.Description) ||
		q.contains(p.NormalizedCategory) || q.contains(p.ProductType) ||
		q.contains(p.Vendor) {
		return true
	}
	for _, t := range p.Tags {
		if q.contains(t) {
			return true
		}
	}
	for _, m := range p.Materials {
		if q.contains(m) {
			return true
		}
	}
	return false
}

func (q Query) contains(field string) bool {
	if !isASCII(field) || !isASCII(q.needle) {
		return strings.Contains(strings.ToLower(field), q.needle)
	}
	// ASCII fast path avoids allocating a lowered copy per field.
	n := len(q.needle)
	for i := 0; i+n <= len(field); i++ {
		if equalFoldASCII(field[i:i+n], q.needle) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func equalFoldASCII(s, lower string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
