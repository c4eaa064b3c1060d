package geo

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NationalStateThreshold is the "<N> states" count at which a footprint is
// treated as effectively national. Smaller counts are dropped because the
// states themselves are unknown.
const NationalStateThreshold = 30

const (
	minTokenLen = 2
	maxTokenLen = 100
)

var (
	// tokenSplitter separates entries that pack several locations together.
	tokenSplitter = regexp.MustCompile(`(?i)\s*(?:[,;|\n/]|\s&\s|\sand\s)\s*`)

	nStatesPattern = regexp.MustCompile(`^(?:in |over |across |operating in |serving |presence in )?(\d{1,3})\s*\+?\s*(?:us |u\.s\. )?states?$`)
	digitsOnly     = regexp.MustCompile(`^[\d\s\-.()+]+$`)
	parenthetical  = regexp.MustCompile(`\s*\([^)]*\)`)
	zipSuffix      = regexp.MustCompile(`\s+\d{5}(?:-\d{4})?$`)
	multiSpace     = regexp.MustCompile(`\s{2,}`)

	garbagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`https?://`),
		regexp.MustCompile(`^www\.`),
		regexp.MustCompile(`\.(?:com|net|org|io|co)\b`),
		regexp.MustCompile(`@`),
		regexp.MustCompile(`find a (?:shop|location|store|branch)`),
		regexp.MustCompile(`(?:locations?|shops?|stores?) near`),
		regexp.MustCompile(`click here|learn more|see (?:all|map)|view (?:all|map)`),
		regexp.MustCompile(`^(?:n/?a|none|unknown|tbd|various|other|multiple|-+)$`),
	}
)

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases s, strips diacritics and collapses whitespace.
func fold(s string) string {
	if folded, _, err := transform.String(diacritics, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return multiSpace.ReplaceAllString(s, " ")
}

// Normalize converts free-text geography entries into a sorted, de-duplicated
// list of US state codes. Entries may hold several comma-separated tokens.
// Tokens that cannot be resolved are dropped; Normalize never fails.
func Normalize(entries ...string) []string {
	set := make(map[string]bool)
	for _, entry := range entries {
		for _, tok := range dropCountrySuffix(splitTokens(entry), isUSQualifier) {
			for _, code := range resolveToken(tok) {
				set[code] = true
			}
		}
	}
	return sortedKeys(set)
}

// NormalizeAny accepts the loosely typed geography values found in JSON
// payloads: a string, a list of strings, a list of arbitrary values, or nil.
func NormalizeAny(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return Normalize(t)
	case []string:
		return Normalize(t...)
	case []any:
		entries := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				entries = append(entries, s)
			}
		}
		return Normalize(entries...)
	default:
		return []string{}
	}
}

// NormalizeProvinces extracts Canadian province codes from free-text entries.
// "Canada" and its synonyms expand to every province.
func NormalizeProvinces(entries ...string) []string {
	set := make(map[string]bool)
	for _, entry := range entries {
		for _, tok := range dropCountrySuffix(splitTokens(entry), isCanadaQualifier) {
			for _, code := range resolveProvince(fold(tok)) {
				set[code] = true
			}
		}
	}
	return sortedKeys(set)
}

func splitTokens(entry string) []string {
	parts := tokenSplitter.Split(entry, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dropCountrySuffix removes a trailing country name from a multi-token
// entry: "Austin, TX, USA" names a city, not the whole country.
func dropCountrySuffix(tokens []string, isCountry func(string) bool) []string {
	if len(tokens) > 1 && isCountry(tokens[len(tokens)-1]) {
		return tokens[:len(tokens)-1]
	}
	return tokens
}

func isUSQualifier(tok string) bool {
	switch strings.TrimRight(fold(tok), ".") {
	case "us", "u.s", "usa", "u.s.a", "united states", "united states of america":
		return true
	}
	return false
}

var usQualifierSuffixes = []string{
	" united states of america", " united states", " u.s.a", " usa", " u.s", " us",
}

// trimUSQualifier drops a trailing country word from a folded key:
// "southeast us" becomes "southeast".
func trimUSQualifier(key string) string {
	for _, suffix := range usQualifierSuffixes {
		if rest, ok := strings.CutSuffix(key, suffix); ok && rest != "" {
			return strings.TrimRight(strings.TrimSpace(rest), ",")
		}
	}
	return key
}

func isCanadaQualifier(tok string) bool {
	return canadaSynonyms[strings.TrimRight(fold(tok), ".")]
}

// resolveToken maps one token to zero or more state codes.
func resolveToken(raw string) []string {
	tok := strings.TrimSpace(raw)
	if len(tok) < minTokenLen || len(tok) > maxTokenLen {
		return nil
	}
	key := strings.TrimRight(fold(tok), ".")
	if isGarbage(key) {
		return nil
	}

	if codes := resolveKey(key); codes != nil {
		return codes
	}
	if stripped := trimUSQualifier(key); stripped != key {
		if codes := resolveKey(stripped); codes != nil {
			return codes
		}
		key = stripped
	}

	// "<N> states": only a near-national count says anything about which states.
	if m := nStatesPattern.FindStringSubmatch(key); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= NationalStateThreshold {
			return AllStates()
		}
		return nil
	}

	if codes := resolveSuffix(key); codes != nil {
		return codes
	}

	if codes := resolveCodeList(key); codes != nil {
		return codes
	}

	zap.L().Debug("geo: unrecognized geography token", zap.String("token", tok))
	return nil
}

// resolveKey tries the direct lookups: code, full name, misspelling, region
// and national synonyms.
func resolveKey(key string) []string {
	if len(key) == 2 {
		if code := strings.ToUpper(key); IsStateCode(code) {
			return []string{code}
		}
	}
	if code, ok := nameToCode[key]; ok {
		return []string{code}
	}
	if code, ok := misspellings[key]; ok {
		return []string{code}
	}
	if states, ok := regionExpansions[key]; ok {
		return slices.Clone(states)
	}
	if stripped := strings.TrimPrefix(key, "the "); stripped != key {
		if states, ok := regionExpansions[stripped]; ok {
			return slices.Clone(states)
		}
	}
	if nationalSynonyms[key] {
		return AllStates()
	}
	return nil
}

// resolveSuffix handles "City, State", "City State" and "City (State)" by
// resolving the trailing state name or code. The remaining prefix must
// contain a word that is not itself a state code, otherwise the token is
// a code list and is left to resolveCodeList.
func resolveSuffix(key string) []string {
	if idx := strings.LastIndex(key, ","); idx >= 0 {
		suffix := strings.TrimSpace(key[idx+1:])
		suffix = zipSuffix.ReplaceAllString(suffix, "")
		if codes := resolveKey(strings.TrimSpace(parenthetical.ReplaceAllString(suffix, ""))); codes != nil {
			return codes
		}
	}

	// A parenthetical can hold the state: "Charlotte (North Carolina)".
	if open := strings.LastIndex(key, "("); open >= 0 {
		if closing := strings.LastIndex(key, ")"); closing > open {
			if codes := resolveKey(strings.TrimSpace(key[open+1 : closing])); codes != nil {
				return codes
			}
		}
	}

	key = strings.TrimSpace(parenthetical.ReplaceAllString(key, ""))
	key = zipSuffix.ReplaceAllString(key, "")
	words := strings.Fields(key)
	if len(words) < 2 {
		return nil
	}
	// Longest suffix first so "new york" wins over "york".
	for n := min(3, len(words)-1); n >= 1; n-- {
		prefix := words[:len(words)-n]
		if !hasNonCodeWord(prefix) {
			continue
		}
		suffix := strings.Join(words[len(words)-n:], " ")
		if code := singleState(suffix); code != "" {
			return []string{code}
		}
	}
	return nil
}

// singleState resolves a suffix to one state: a code, name or misspelling.
func singleState(s string) string {
	s = strings.TrimRight(s, ".")
	if len(s) == 2 {
		if code := strings.ToUpper(s); IsStateCode(code) {
			return code
		}
		return ""
	}
	if code, ok := nameToCode[s]; ok {
		return code
	}
	return misspellings[s]
}

// resolveCodeList handles space-separated code lists such as "TX OK AR LA".
// Every word must be a valid code.
func resolveCodeList(key string) []string {
	words := strings.Fields(key)
	if len(words) < 2 {
		return nil
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		code := strings.ToUpper(w)
		if len(w) != 2 || !IsStateCode(code) {
			return nil
		}
		out = append(out, code)
	}
	return out
}

func resolveProvince(key string) []string {
	key = strings.TrimRight(key, ".")
	if len(key) < minTokenLen || len(key) > maxTokenLen || isGarbage(key) {
		return nil
	}
	if canadaSynonyms[key] {
		return allProvinces()
	}
	if code := provinceCode(key); code != "" {
		return []string{code}
	}
	if open := strings.LastIndex(key, "("); open >= 0 {
		if closing := strings.LastIndex(key, ")"); closing > open {
			if code := provinceCode(strings.TrimSpace(key[open+1 : closing])); code != "" {
				return []string{code}
			}
		}
	}
	words := strings.Fields(parenthetical.ReplaceAllString(key, ""))
	for n := min(4, len(words)-1); n >= 1; n-- {
		if code := provinceCode(strings.Join(words[len(words)-n:], " ")); code != "" {
			return []string{code}
		}
	}
	return nil
}

func provinceCode(s string) string {
	if len(s) == 2 {
		if code := strings.ToUpper(s); IsCanadianProvince(code) {
			return code
		}
		return ""
	}
	return provinceNameToCode[s]
}

func allProvinces() []string {
	out := make([]string, 0, len(canadianProvinces))
	for code := range canadianProvinces {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

func hasNonCodeWord(words []string) bool {
	for _, w := range words {
		if len(w) != 2 || !IsStateCode(strings.ToUpper(w)) {
			return true
		}
	}
	return false
}

func isGarbage(key string) bool {
	if digitsOnly.MatchString(key) {
		return true
	}
	for _, p := range garbagePatterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
