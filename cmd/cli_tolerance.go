package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliVocabulary is what argument repair may rewrite to. It is read off the
// registered commands, so a new flag is picked up without a second table.
type cliVocabulary struct {
	flags      map[string]bool // long name -> takes a value
	shorthands map[byte]bool
	commands   []string
	flagNames  []string
}

var vocabulary = sync.OnceValue(func() cliVocabulary {
	return buildVocabulary(rootCmd)
})

func buildVocabulary(root *cobra.Command) cliVocabulary {
	v := cliVocabulary{
		flags:      map[string]bool{"help": false},
		shorthands: map[byte]bool{'h': false},
		// cobra registers these lazily on the first Execute.
		commands: []string{"completion", "help"},
	}
	collect := func(f *pflag.Flag) {
		takesValue := f.NoOptDefVal == ""
		v.flags[f.Name] = takesValue
		if len(f.Shorthand) == 1 {
			v.shorthands[f.Shorthand[0]] = takesValue
		}
	}
	root.PersistentFlags().VisitAll(collect)
	root.Flags().VisitAll(collect)
	for _, sub := range root.Commands() {
		if sub.Hidden {
			continue
		}
		v.commands = append(v.commands, sub.Name())
		v.commands = append(v.commands, sub.Aliases...)
		sub.Flags().VisitAll(collect)
	}
	v.commands = lo.Uniq(v.commands)
	slices.Sort(v.commands)
	v.flagNames = slices.Sorted(maps.Keys(v.flags))
	return v
}

var flagAliases = map[string]string{
	"categories":    "category",
	"type":          "category",
	"rooms":         "room",
	"styles":        "style",
	"min":           "min-price",
	"minprice":      "min-price",
	"price-min":     "min-price",
	"max":           "max-price",
	"maxprice":      "max-price",
	"price-max":     "max-price",
	"keyword":       "query",
	"order":         "sort",
	"count":         "limit",
	"snapshot-path": "snapshot",
	"addr":          "listen",
}

// argToken is one argument after repair.
type argToken struct {
	text       string
	note       string
	flag       bool
	takesValue bool
	command    bool
}

// argScanner tracks where in the command line the next token sits.
type argScanner struct {
	command        string
	nestedAllowed  bool
	nestedSeen     bool
	bareFlagsOK    bool
	expectingValue bool
	passthrough    bool
}

func (s *argScanner) commandSlotOpen() bool {
	return s.command == "" || (s.nestedAllowed && !s.nestedSeen)
}

func (s *argScanner) accept(tok argToken, last bool) {
	if tok.command {
		if s.command == "" {
			s.command = tok.text
			s.bareFlagsOK = bareFlagRewriteAllowed(tok.text)
			s.nestedAllowed = allowsNestedCommandArg(tok.text)
			return
		}
		s.nestedSeen = true
	}
	if tok.flag && tok.takesValue && !strings.Contains(tok.text, "=") && !last {
		s.expectingValue = true
	}
}

// normalizeCLIArgs repairs near-miss flag and command spellings. It returns
// the rewritten arguments and one note per rewrite.
func normalizeCLIArgs(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	var notes []string
	s := argScanner{bareFlagsOK: true}

	for i, raw := range args {
		switch {
		case s.passthrough:
			out = append(out, raw)
			continue
		case s.expectingValue:
			out = append(out, raw)
			s.expectingValue = false
			continue
		case raw == "--":
			out = append(out, raw)
			s.passthrough = true
			continue
		}

		tok := repairToken(raw, s.commandSlotOpen(), s.bareFlagsOK)
		if tok.note != "" {
			notes = append(notes, tok.note)
		}
		out = append(out, tok.text)
		s.accept(tok, i == len(args)-1)
	}
	return out, notes
}

func repairToken(raw string, commandSlot, bareFlagsOK bool) argToken {
	v := vocabulary()

	switch {
	case strings.HasPrefix(raw, "--"):
		name, rest := splitFlag(strings.TrimPrefix(raw, "--"))
		if canonical, ok := resolveFlagName(name); ok {
			return flagToken(raw, "--"+canonical+rest, v.flags[canonical])
		}
		return argToken{text: raw, flag: true}

	case len(raw) == 2 && raw[0] == '-':
		takesValue, known := v.shorthands[raw[1]]
		return argToken{text: raw, flag: known, takesValue: takesValue}

	case strings.HasPrefix(raw, "-") && len(raw) > 2:
		// Single-dash long flags like -category.
		name, rest := splitFlag(strings.TrimPrefix(raw, "-"))
		if canonical, ok := resolveFlagName(name); ok {
			return flagToken(raw, "--"+canonical+rest, v.flags[canonical])
		}
		return argToken{text: raw, flag: true}

	case strings.HasPrefix(raw, "-"):
		return argToken{text: raw}
	}

	if strings.Contains(raw, "=") {
		name, rest := splitFlag(raw)
		if canonical, ok := resolveFlagName(name); ok {
			return flagToken(raw, "--"+canonical+rest, v.flags[canonical])
		}
	}

	if commandSlot {
		if corrected, ok := resolveCommand(raw); ok {
			tok := argToken{text: corrected, command: true}
			if corrected != raw {
				tok.note = fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", raw, corrected, corrected)
			}
			return tok
		}
	}

	if bareFlagsOK {
		if canonical, ok := resolveFlagName(raw); ok {
			return flagToken(raw, "--"+canonical, v.flags[canonical])
		}
	}
	return argToken{text: raw}
}

func flagToken(raw, rewritten string, takesValue bool) argToken {
	tok := argToken{text: rewritten, flag: true, takesValue: takesValue}
	if rewritten != raw {
		tok.note = fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", raw, rewritten, rewritten)
	}
	return tok
}

// bareFlagRewriteAllowed reports whether a bare `json` means `--json` for
// command. Commands taking positional arguments keep their words.
func bareFlagRewriteAllowed(command string) bool {
	switch command {
	case "products", "list", "facets", "filters", "fetch", "enrich", "serve", "tui":
		return true
	default:
		return false
	}
}

func allowsNestedCommandArg(command string) bool {
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	v := vocabulary()
	if _, ok := v.flags[name]; ok {
		return name, true
	}
	return closestMatch(name, v.flagNames, 2)
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	commands := vocabulary().commands
	if slices.Contains(commands, name) {
		return name, true
	}
	return closestMatch(name, commands, 2)
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	name, rest, found := strings.Cut(value, "=")
	if !found {
		return value, ""
	}
	return name, "=" + rest
}

// extractUnknownValue pulls the offending token out of a cobra message such
// as `unknown flag: --catgory` or `unknown command "serch" for "sunbeam"`.
func extractUnknownValue(msg, marker string) string {
	_, after, found := strings.Cut(msg, marker)
	if !found {
		return ""
	}
	after = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(after), ":"))

	for _, quote := range []string{`"`, "`"} {
		if rest, ok := strings.CutPrefix(after, quote); ok {
			if value, _, closed := strings.Cut(rest, quote); closed {
				return value
			}
		}
	}
	if fields := strings.Fields(after); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

// closestMatch returns the candidate within maxDistance edits of target.
// Ties go to the earliest candidate.
func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1
	for _, candidate := range candidates {
		if d := levenshtein(target, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, bestDist <= maxDistance
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
