package filter

import "strings"

var categorySynonyms = map[string][]string{
	"sofa":                  {"couch", "couches", "davenport"},
	"loveseat":              {"love seat", "settee"},
	"accent chair":          {"armchair", "arm chair", "lounge chair", "club chair"},
	"dining chair":          {"side chair"},
	"bar stool":             {"stool", "counter stool"},
	"coffee table":          {"cocktail table"},
	"side table":            {"end table", "accent table"},
	"nightstand":            {"night stand", "bedside table"},
	"dresser":               {"chest", "bureau", "chest of drawers", "highboy", "lowboy"},
	"media console":         {"credenza", "sideboard", "buffet", "tv stand", "media cabinet"},
	"bookcase":              {"bookshelf", "shelf", "shelving", "etagere"},
	"table lamp":            {"desk lamp", "lamp"},
	"pendants & chandelier": {"pendant", "chandelier", "ceiling light"},
	"wall art":              {"art", "painting", "print", "wall hanging"},
	"decorative object":     {"decor", "vase", "sculpture", "bowl", "tray"},
	"sectionals & modular":  {"sectional", "modular sofa"},
}

type categoryMatcher struct {
	exactAliases []string
	normalized   map[string]struct{}
}

func newCategoryMatcher(wanted string) categoryMatcher {
	aliases := categoryAliasList(wanted)
	if len(aliases) == 0 {
		return categoryMatcher{}
	}

	normalized := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		normalized[foldCategory(alias)] = struct{}{}
	}

	return categoryMatcher{
		exactAliases: aliases,
		normalized:   normalized,
	}
}

func categoryAliasList(wanted string) []string {
	raw := strings.TrimSpace(wanted)
	group := resolveCategoryGroup(wanted)
	if raw == "" && group == "" {
		return nil
	}

	out := make([]string, 0, 1+len(categorySynonyms[group]))
	addAlias := func(alias string) {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return
		}
		for _, existing := range out {
			if strings.EqualFold(existing, alias) {
				return
			}
		}
		out = append(out, alias)
	}

	addAlias(raw)
	addAlias(group)

	if synonyms, ok := categorySynonyms[group]; ok {
		out = append(out, synonyms...)
	}
	return out
}

func resolveCategoryGroup(wanted string) string {
	norm := foldCategory(wanted)
	if norm == "" {
		return ""
	}

	if _, ok := categorySynonyms[norm]; ok {
		return norm
	}
	for key, synonyms := range categorySynonyms {
		for _, s := range synonyms {
			if foldCategory(s) == norm {
				return key
			}
		}
	}
	return norm
}

func (m categoryMatcher) matches(category string) bool {
	trimmed := strings.TrimSpace(category)
	for _, alias := range m.exactAliases {
		if strings.EqualFold(trimmed, alias) {
			return true
		}
	}

	norm := foldCategory(trimmed)
	_, ok := m.normalized[norm]
	return ok
}

// foldCategory lowercases, collapses separators and strips a plural suffix
// so "Bar-Stools" and "bar stool" compare equal.
func foldCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "ies"):
		s = strings.TrimSuffix(s, "ies") + "y"
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		s = strings.TrimSuffix(s, "s")
	}
	return s
}

// ResolveCategories maps loosely typed category input ("couch",
// "bar-stools") onto the categories present in available. Input that
// matches nothing is returned unchanged.
func ResolveCategories(inputs []string, available []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, in := range inputs {
		m := newCategoryMatcher(in)
		matched := false
		for _, c := range available {
			if m.matches(c) {
				add(c)
				matched = true
			}
		}
		if !matched && strings.TrimSpace(in) != "" {
			add(strings.TrimSpace(in))
		}
	}
	return out
}
