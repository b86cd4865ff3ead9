// Package labels turns raw metric column names into display labels.
package labels

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLexicon is the vocabulary used to split run-together column names
// such as "Leadershipandprojectmanagement".
var DefaultLexicon = []string{
	"and", "to", "new",
	"attitude", "awareness", "citizen", "collaboration", "collective",
	"communication", "competence", "confidence", "creativity", "critical",
	"decode", "dedication", "emotions", "encode", "exploration", "global",
	"growth", "initiative", "intercultural", "leadership", "management",
	"minded", "open", "openness", "personal", "perspectives", "plan",
	"positive", "problem", "project", "reflection", "responsibility", "self",
	"show", "solving", "taking", "thinking",
}

// Formatter is safe for concurrent use.
type Formatter struct {
	words  map[string]bool
	maxLen int
}

func New(lexicon []string) *Formatter {
	f := &Formatter{words: make(map[string]bool, len(lexicon))}
	for _, w := range lexicon {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		f.words[w] = true
		if len(w) > f.maxLen {
			f.maxLen = len(w)
		}
	}
	return f
}

var std = New(DefaultLexicon)

// Format formats an identifier with the default lexicon.
func Format(identifier string) string {
	return std.Format(identifier)
}

// FormatAll formats each identifier, keeping order.
func FormatAll(identifiers []string) []string {
	out := make([]string, len(identifiers))
	for i, id := range identifiers {
		out[i] = std.Format(id)
	}
	return out
}

// Format strips the "avg " prefix, splits the identifier into words,
// replaces " and " with " & " and title-cases the result.
func (f *Formatter) Format(identifier string) string {
	s := strings.TrimPrefix(identifier, "avg ")
	tokens := strings.Fields(splitWords(s))
	for i, tok := range tokens {
		tokens[i] = f.segment(tok)
	}
	s = strings.ReplaceAll(strings.Join(tokens, " "), " and ", " & ")
	// cases.Caser keeps state, so one per call.
	return cases.Title(language.English).String(s)
}

// splitWords turns hyphens and underscores into spaces and opens a gap
// before an uppercase letter that follows a lowercase letter or digit.
func splitWords(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// segment splits a single-cased token into lexicon words when the whole
// token can be covered by two or more of them. Fewest words wins.
func (f *Formatter) segment(tok string) string {
	if len(f.words) == 0 || len(tok) < 4 {
		return tok
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return tok
		}
	}
	lower := strings.ToLower(tok)
	n := len(lower)

	const unreachable = 1 << 30
	best := make([]int, n+1)
	from := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = unreachable
	}
	for end := 1; end <= n; end++ {
		start := end - f.maxLen
		if start < 0 {
			start = 0
		}
		for ; start < end; start++ {
			if best[start] == unreachable || !f.words[lower[start:end]] {
				continue
			}
			if best[start]+1 < best[end] {
				best[end] = best[start] + 1
				from[end] = start
			}
		}
	}
	if best[n] == unreachable || best[n] < 2 {
		return tok
	}

	parts := make([]string, best[n])
	for end, k := n, best[n]-1; end > 0; k-- {
		parts[k] = lower[from[end]:end]
		end = from[end]
	}
	return strings.Join(parts, " ")
}
