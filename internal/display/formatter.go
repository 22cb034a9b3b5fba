// Package display renders catalog views for the terminal and as JSON.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/enrich"
	"github.com/swilhoit/sunbeam/internal/filter"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	saleTag      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	soldTag      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	attrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// DetailJSON is the JSON output shape for a single product.
type DetailJSON struct {
	Product catalog.EnrichedProduct   `json:"product"`
	Related []catalog.EnrichedProduct `json:"related"`
}

// PrintProducts renders a list of products. total is the size of the
// unfiltered catalog.
func PrintProducts(w io.Writer, products []catalog.EnrichedProduct, total int) {
	count := fmt.Sprintf("%d items", len(products))
	if total > len(products) {
		count = fmt.Sprintf("%d of %d items", len(products), total)
	}
	fmt.Fprintf(w, "\n%s - %s\n\n", headerStyle.Render("Sunbeam Vintage"), cyanStyle.Render(count))

	for _, p := range products {
		printProduct(w, p)
		fmt.Fprintln(w)
	}
}

// PrintProductsJSON renders products as a JSON array.
func PrintProductsJSON(w io.Writer, products []catalog.EnrichedProduct) error {
	if products == nil {
		products = []catalog.EnrichedProduct{}
	}
	return encode(w, products)
}

// PrintProductDetail renders one product in full, followed by related items.
func PrintProductDetail(w io.Writer, p catalog.EnrichedProduct, related []catalog.EnrichedProduct) {
	fmt.Fprintln(w)
	printProduct(w, p)

	if p.Vendor != "" {
		fmt.Fprintf(w, "    %s %s\n", dimStyle.Render("Vendor:"), p.Vendor)
	}
	if len(p.Materials) > 0 {
		fmt.Fprintf(w, "    %s %s\n", dimStyle.Render("Materials:"), strings.Join(p.Materials, ", "))
	}
	if dims := FormatDimensions(p.Dimensions); dims != "" {
		fmt.Fprintf(w, "    %s %s\n", dimStyle.Render("Dimensions:"), dims)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "    %s %s\n", dimStyle.Render("Tags:"), strings.Join(p.Tags, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n    %s\n", wordWrap(p.Description, 72, "    "))
	}

	if len(related) > 0 {
		fmt.Fprintf(w, "\n  %s\n", titleStyle.Render("Related"))
		for _, r := range related {
			fmt.Fprintf(w, "    %s  %s  %s\n",
				cyanStyle.Render(r.Handle), r.Title, priceStyle.Render(FormatPrice(r.Price)))
		}
	}
	fmt.Fprintln(w)
}

// PrintProductDetailJSON renders a product and its related items as JSON.
func PrintProductDetailJSON(w io.Writer, p catalog.EnrichedProduct, related []catalog.EnrichedProduct) error {
	if related == nil {
		related = []catalog.EnrichedProduct{}
	}
	return encode(w, DetailJSON{Product: p, Related: related})
}

// PrintFacets renders the filter choices available in a catalog.
func PrintFacets(w io.Writer, f filter.Facets) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Available filters"))

	printList(w, "Categories", f.Categories)
	printList(w, "Rooms", labels(f.Rooms))
	printList(w, "Styles", labels(f.Styles))
	printList(w, "Width", bucketLabels(f.DimensionRanges.Width))
	printList(w, "Depth", bucketLabels(f.DimensionRanges.Depth))
	printList(w, "Height", bucketLabels(f.DimensionRanges.Height))
	fmt.Fprintf(w, "  %s: %s - %s\n\n", cyanStyle.Render("Price"),
		FormatPrice(f.PriceRange.Min), FormatPrice(f.PriceRange.Max))
}

// PrintFacetsJSON renders facets as JSON.
func PrintFacetsJSON(w io.Writer, f filter.Facets) error {
	return encode(w, f)
}

// PrintStats renders enrichment coverage.
func PrintStats(w io.Writer, s enrich.Stats, rejected int) {
	fmt.Fprintf(w, "\n%s - %s\n\n", headerStyle.Render("Enrichment summary"),
		cyanStyle.Render(fmt.Sprintf("%d products", s.Total)))

	rows := []struct {
		name string
		n    int
	}{
		{"Rooms", s.WithRooms},
		{"Style", s.WithStyle},
		{"Condition", s.WithCondition},
		{"Era", s.WithEra},
		{"Materials", s.WithMaterials},
		{"Dimensions", s.WithDimensions},
		{"On sale", s.OnSale},
		{"Sold", s.Sold},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-12s %5d  %s\n", r.name, r.n, dimStyle.Render(fmt.Sprintf("(%d%%)", s.Percent(r.n))))
	}
	fmt.Fprintf(w, "  %-12s %5d\n", "Categories", len(s.Categories))
	if rejected > 0 {
		fmt.Fprintf(w, "\n  %s\n", warningStyle.Render(fmt.Sprintf("%d records skipped", rejected)))
	}
	fmt.Fprintln(w)
}

// PrintStatsJSON renders enrichment coverage as JSON.
func PrintStatsJSON(w io.Writer, s enrich.Stats, rejected int) error {
	if s.Categories == nil {
		s.Categories = []string{}
	}
	return encode(w, struct {
		enrich.Stats
		Rejected int `json:"rejected"`
	}{s, rejected})
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// FormatPrice renders a price in dollars, dropping zero cents.
func FormatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatDimensions renders the known measurements of d, or "" when none.
func FormatDimensions(d *catalog.Dimensions) string {
	if d == nil {
		return ""
	}
	var parts []string
	add := func(name string, v *float64) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s %s\"", name, trimFloat(*v)))
		}
	}
	add("W", d.Width)
	add("D", d.Depth)
	add("H", d.Height)
	add("Seat", d.SeatHeight)
	add("Dia", d.Diameter)
	return strings.Join(parts, " x ")
}

// Summary is the one-line attribute summary shown under a product title.
func Summary(p catalog.EnrichedProduct) string {
	var parts []string
	if p.NormalizedCategory != "" {
		parts = append(parts, p.NormalizedCategory)
	}
	if p.Style != catalog.StyleNone {
		parts = append(parts, p.Style.String())
	}
	if p.Era != catalog.EraNone {
		parts = append(parts, p.Era.String())
	}
	if p.Condition != catalog.ConditionNone {
		parts = append(parts, p.Condition.String()+" condition")
	}
	if len(p.Rooms) > 0 {
		parts = append(parts, strings.Join(labels(p.Rooms), ", "))
	}
	return strings.Join(parts, " | ")
}

// SavingsPercent is the discount off the compare-at price, rounded.
func SavingsPercent(p catalog.EnrichedProduct) int {
	if !p.IsOnSale || p.CompareAtPrice == nil || *p.CompareAtPrice <= 0 {
		return 0
	}
	return int((*p.CompareAtPrice-p.Price)/(*p.CompareAtPrice)*100 + 0.5)
}

func printProduct(w io.Writer, p catalog.EnrichedProduct) {
	title := p.Title
	if title == "" {
		title = p.Handle
	}

	tag := ""
	switch {
	case p.IsSold:
		tag = soldTag.Render("SOLD") + " "
	case p.IsOnSale:
		tag = saleTag.Render("SALE") + " "
	}
	fmt.Fprintf(w, "  %s%s\n", tag, titleStyle.Render(title))

	price := priceStyle.Render(FormatPrice(p.Price))
	if p.IsOnSale && p.CompareAtPrice != nil {
		price += " " + dimStyle.Render(fmt.Sprintf("was %s, %d%% off", FormatPrice(*p.CompareAtPrice), SavingsPercent(p)))
	}
	fmt.Fprintf(w, "    %s  %s\n", price, dimStyle.Render(p.Handle))

	if s := Summary(p); s != "" {
		fmt.Fprintf(w, "    %s\n", attrStyle.Render(s))
	}
}

func printList(w io.Writer, name string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(w, "  %s: %s\n", cyanStyle.Render(name), dimStyle.Render("none"))
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", cyanStyle.Render(name), strings.Join(values, ", "))
}

func labels[T fmt.Stringer](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func bucketLabels(buckets []filter.Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label()
	}
	return out
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func wordWrap(text string, width int, indent string) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var lines []string
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = w
			} else {
				line += " " + w
			}
		}
		lines = append(lines, line)
		out = append(out, strings.Join(lines, "\n"+indent))
	}
	return strings.Join(out, "\n"+indent)
}
