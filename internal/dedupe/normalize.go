package dedupe

import (
	"net/url"
	"strings"

	"github.com/agext/levenshtein"
)

// peSuffixes are trailing words dropped from PE firm names before comparing.
var peSuffixes = map[string]bool{
	"capital": true, "partners": true, "group": true, "holdings": true,
	"equity": true, "management": true, "investments": true, "investment": true,
	"advisors": true, "advisers": true, "ventures": true, "fund": true,
	"funds": true, "associates": true, "company": true, "co": true,
	"llc": true, "inc": true, "lp": true, "llp": true, "ltd": true,
	"corp": true, "corporation": true, "the": true,
}

// NormalizeDomain reduces a website to its bare lowercase host: no scheme,
// www prefix, port or path.
func NormalizeDomain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimSuffix(host, ".")
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// NormalizePEName lowercases a PE firm name, drops trailing firm-type words
// such as "Capital Partners" and strips non-alphanumerics. The first word
// is always kept.
func NormalizePEName(name string) string {
	words := strings.Fields(alnumSpace(name))
	for len(words) > 1 && peSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	if len(words) > 1 && words[0] == "the" {
		words = words[1:]
	}
	return strings.Join(words, "")
}

// NormalizePlatformName lowercases a name and strips non-alphanumerics.
func NormalizePlatformName(name string) string {
	return strings.Join(strings.Fields(alnumSpace(name)), "")
}

func alnumSpace(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "&", " and ")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, s)
}

// Similarity decides whether two normalized names refer to the same company.
type Similarity struct {
	MaxEditDistance int
	EditRatio       float64
}

// DefaultSimilarity allows at most 3 edits and 20% of the longer name.
func DefaultSimilarity() Similarity {
	return Similarity{MaxEditDistance: 3, EditRatio: 0.2}
}

// Similar reports whether a and b are equal, one contains the other, or
// their edit distance is within min(MaxEditDistance, floor(EditRatio*maxlen)).
// Two empty names are similar; one empty name is not.
func (s Similarity) Similar(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	limit := min(s.MaxEditDistance, int(s.EditRatio*float64(longest)))
	if limit <= 0 {
		return false
	}
	return levenshtein.Distance(a, b, nil) <= limit
}
