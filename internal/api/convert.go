package api

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

var (
	reSizeSuffix = regexp.MustCompile(`(_\d+x\d+|_small|_medium|_large|_grande)`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// ToRawProduct converts a storefront product into the catalog's raw shape.
func ToRawProduct(p Product) catalog.RawProduct {
	raw := catalog.RawProduct{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Description: HTMLToText(p.BodyHTML),
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        append([]string{}, p.Tags...),
		Images:      make([]catalog.Image, 0, len(p.Images)),
		Variants:    make([]catalog.Variant, 0, len(p.Variants)),
		Options:     make([]catalog.Option, 0, len(p.Options)),
	}

	for i, img := range p.Images {
		original := HighResImageURL(img.Src)
		raw.Images = append(raw.Images, catalog.Image{
			Original: original,
			Local:    path.Join("images", p.Handle, strconv.Itoa(i+1)+imageExt(original)),
			Width:    img.Width,
			Height:   img.Height,
		})
	}

	for _, v := range p.Variants {
		raw.Variants = append(raw.Variants, catalog.Variant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     parsePrice(v.Price),
			SKU:       v.SKU,
			Available: v.Available,
			Options:   variantOptions(v, p.Options),
		})
	}

	for _, o := range p.Options {
		raw.Options = append(raw.Options, catalog.Option{Name: o.Name, Values: append([]string{}, o.Values...)})
	}

	if len(p.Variants) > 0 {
		first := p.Variants[0]
		raw.Price = parsePrice(first.Price)
		if first.CompareAtPrice != nil && strings.TrimSpace(*first.CompareAtPrice) != "" {
			if v, err := strconv.ParseFloat(strings.TrimSpace(*first.CompareAtPrice), 64); err == nil {
				raw.CompareAtPrice = &v
			}
		}
	}
	return raw
}

// ToRawProducts converts products, keeping their order.
func ToRawProducts(products []Product) []catalog.RawProduct {
	out := make([]catalog.RawProduct, len(products))
	for i, p := range products {
		out[i] = ToRawProduct(p)
	}
	return out
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func variantOptions(v Variant, defs []Option) map[string]string {
	out := make(map[string]string)
	for i, sel := range []*string{v.Option1, v.Option2, v.Option3} {
		if sel == nil || *sel == "" || i >= len(defs) {
			continue
		}
		out[defs[i].Name] = *sel
	}
	return out
}

// HighResImageURL strips CDN size suffixes such as "_1024x1024" or
// "_grande" to get the original upload.
func HighResImageURL(src string) string {
	return reSizeSuffix.ReplaceAllString(src, "")
}

func imageExt(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ".jpg"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".jpg"
}

// HTMLToText flattens a product description to plain text. Line breaks
// become newlines, paragraphs end with a blank line, and entities are
// decoded.
func HTMLToText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return strings.TrimSpace(body)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").AppendHtml("\n\n")

	text := strings.ReplaceAll(doc.Text(), "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
