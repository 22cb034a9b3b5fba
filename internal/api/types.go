package api

import (
	"encoding/json"
	"strings"
)

// ProductsResponse is one page of the storefront products listing.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// Product is a storefront product as served by /products.json.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Tags        Tags      `json:"tags"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
	Options     []Option  `json:"options"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// Image is a product photo on the storefront CDN.
type Image struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Src      string `json:"src"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Variant is a purchasable configuration. Prices are decimal strings.
type Variant struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	SKU            string  `json:"sku"`
	Position       int     `json:"position"`
	CompareAtPrice *string `json:"compare_at_price"`
	Option1        *string `json:"option1"`
	Option2        *string `json:"option2"`
	Option3        *string `json:"option3"`
	Available      bool    `json:"available"`
}

// Option is a named option definition.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Tags accepts either a JSON array or the legacy comma-separated string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	out := Tags{}
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	*t = out
	return nil
}
