package enrich

import "github.com/swilhoit/sunbeam/internal/catalog"

// categoryTable groups near-duplicate storefront product types under one
// canonical label.
var categoryTable = map[string]string{
	"Accent Chairs":                "Accent Chairs",
	"Accent & Arm Chairs":          "Accent Chairs",
	"Sectionals & Modular Seating": "Sectionals & Modular",
	"Sofas & Loveseats":            "Sofas",
	"Sofas & Couches":              "Sofas",
	"Loveseats & Settees":          "Loveseats",
	"Office Chairs":                "Office Chairs",
	"Dining Chairs":                "Dining Chairs",
	"Bar Stools":                   "Bar Stools",
	"Coffee Tables":                "Coffee Tables",
	"Side Tables":                  "Side Tables",
	"Nightstands":                  "Nightstands",
	"Dining Tables":                "Dining Tables",
	"Dining Sets":                  "Dining Sets",
	"Tables":                       "Tables",
	"Desks":                        "Desks",
	"Dressers & Chests":            "Dressers",
	"Consoles & Media Storage":     "Media Consoles",
	"Bookcases & Shelving":         "Bookcases",
	"Bookcases & Shelving Units":   "Bookcases",
	"Floor Lamps":                  "Floor Lamps",
	"Table & Desk Lamps":           "Table Lamps",
	"Pendants & Chandeliers":       "Pendants & Chandeliers",
	"Art & Wall Hangings":          "Wall Art",
	"Rugs":                         "Rugs",
	"Vases & Sculptures":           "Decorative Objects",
	"Trays, Bowls & Objects":       "Decorative Objects",
	"Serveware & Entertaining":     "Serveware",
}

var vendorStyles = map[string]catalog.Style{
	"Vintage":                  catalog.StyleVintage,
	"Modern":                   catalog.StyleModern,
	"Contemporary":             catalog.StyleContemporary,
	"Contemporary, Newly Made": catalog.StyleContemporary,
	"Sunbeam Exclusive":        catalog.StyleVintage,
	"Sunbeam Vintage":          catalog.StyleVintage,
}

// materialVocabulary is searched in order; results follow this order.
var materialVocabulary = [...]string{
	"walnut", "oak", "teak", "mahogany", "pine", "cherry", "maple", "rosewood",
	"bamboo", "rattan", "wicker",
	"brass", "chrome", "steel", "iron", "copper", "gold", "aluminum",
	"velvet", "leather", "linen", "cotton", "wool", "silk", "bouclé", "boucle", "tweed",
	"glass", "ceramic", "marble", "granite", "travertine",
	"lucite", "acrylic", "plastic", "resin",
	"lacquer", "laminate", "veneer", "upholstered", "cork", "tile", "wood",
}

// conditionPhrases are checked in priority order when no CONDITION section
// is present.
var conditionPhrases = [...]struct {
	phrase    string
	condition catalog.Condition
}{
	{"excellent condition", catalog.ConditionExcellent},
	{"good condition", catalog.ConditionGood},
	{"fair condition", catalog.ConditionFair},
	{"as found", catalog.ConditionAsFound},
	{"as-found", catalog.ConditionAsFound},
}
