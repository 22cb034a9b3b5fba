package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// Query-string keys understood by ParseValues.
const (
	KeyCategories = "categories"
	KeyRooms      = "rooms"
	KeyStyles     = "styles"
	KeyWidth      = "width"
	KeyDepth      = "depth"
	KeyHeight     = "height"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
	KeySearch     = "search"
	KeySort       = "sort"
	KeyLimit      = "limit"
)

// ParseValues decodes a Spec from URL query values. List values are
// comma-separated and may also repeat the key. A category comma followed by
// a space belongs to the name ("Trays, Bowls & Objects").
func ParseValues(v url.Values) (Spec, error) {
	var spec Spec
	var err error

	spec.Categories = categoryValues(v)

	if spec.Rooms, err = parseList(v, KeyRooms, catalog.ParseRoom); err != nil {
		return Spec{}, err
	}
	if spec.Styles, err = parseList(v, KeyStyles, catalog.ParseStyle); err != nil {
		return Spec{}, err
	}
	if spec.Widths, err = parseList(v, KeyWidth, ParseBucket); err != nil {
		return Spec{}, err
	}
	if spec.Depths, err = parseList(v, KeyDepth, ParseBucket); err != nil {
		return Spec{}, err
	}
	if spec.Heights, err = parseList(v, KeyHeight, ParseBucket); err != nil {
		return Spec{}, err
	}
	if spec.MinPrice, err = parsePrice(v, KeyMinPrice); err != nil {
		return Spec{}, err
	}
	if spec.MaxPrice, err = parsePrice(v, KeyMaxPrice); err != nil {
		return Spec{}, err
	}

	spec.Query = strings.TrimSpace(v.Get(KeySearch))

	var ok bool
	if spec.Sort, ok = ParseSort(v.Get(KeySort)); !ok {
		return Spec{}, fmt.Errorf("invalid %s %q", KeySort, v.Get(KeySort))
	}

	if raw := strings.TrimSpace(v.Get(KeyLimit)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Spec{}, fmt.Errorf("invalid %s %q", KeyLimit, raw)
		}
		spec.Limit = n
	}
	return spec, nil
}

// Values encodes spec as URL query values. Unset fields and the default
// sort are omitted.
func (s Spec) Values() url.Values {
	v := url.Values{}
	for _, c := range s.Categories {
		v.Add(KeyCategories, c)
	}
	setList(v, KeyRooms, stringsOf(s.Rooms))
	setList(v, KeyStyles, stringsOf(s.Styles))
	setList(v, KeyWidth, stringsOf(s.Widths))
	setList(v, KeyDepth, stringsOf(s.Depths))
	setList(v, KeyHeight, stringsOf(s.Heights))
	if s.MinPrice != nil {
		v.Set(KeyMinPrice, strconv.FormatFloat(*s.MinPrice, 'f', -1, 64))
	}
	if s.MaxPrice != nil {
		v.Set(KeyMaxPrice, strconv.FormatFloat(*s.MaxPrice, 'f', -1, 64))
	}
	if q := strings.TrimSpace(s.Query); q != "" {
		v.Set(KeySearch, q)
	}
	if s.Sort != SortNewest {
		v.Set(KeySort, s.Sort.String())
	}
	if s.Limit > 0 {
		v.Set(KeyLimit, strconv.Itoa(s.Limit))
	}
	return v
}

func listValues(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func categoryValues(v url.Values) []string {
	var out []string
	for _, raw := range v[KeyCategories] {
		start := 0
		for i := 0; i <= len(raw); i++ {
			if i < len(raw) && (raw[i] != ',' || (i+1 < len(raw) && raw[i+1] == ' ')) {
				continue
			}
			if part := strings.TrimSpace(raw[start:i]); part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}

func parseList[T any](v url.Values, key string, parse func(string) (T, bool)) ([]T, error) {
	var out []T
	for _, raw := range listValues(v, key) {
		item, ok := parse(raw)
		if !ok {
			return nil, fmt.Errorf("invalid %s value %q", key, raw)
		}
		out = append(out, item)
	}
	return out, nil
}

func parsePrice(v url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &f, nil
}

func setList(v url.Values, key string, items []string) {
	if len(items) > 0 {
		v.Set(key, strings.Join(items, ","))
	}
}

func stringsOf[T fmt.Stringer](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}
