package geo

import "strings"

// ParseHeadquarters extracts the state code from a "City, State" headquarters
// string. It accepts a trailing zip code and a parenthetical after the state,
// and returns "" when no state can be resolved.
func ParseHeadquarters(hq string) string {
	hq = strings.TrimSpace(hq)
	if hq == "" {
		return ""
	}
	key := strings.TrimRight(fold(hq), ".")

	candidate := key
	if idx := strings.LastIndex(key, ","); idx >= 0 {
		candidate = strings.TrimSpace(key[idx+1:])
		// "Austin, TX, USA" leaves the state one comma earlier.
		if nationalSynonyms[strings.TrimRight(candidate, ".")] {
			if prev := strings.LastIndex(key[:idx], ","); prev >= 0 {
				candidate = strings.TrimSpace(key[prev+1 : idx])
			} else {
				candidate = strings.TrimSpace(key[:idx])
			}
		}
	}
	candidate = zipSuffix.ReplaceAllString(candidate, "")
	candidate = strings.TrimSpace(parenthetical.ReplaceAllString(candidate, ""))

	if code := singleState(candidate); code != "" {
		return code
	}
	if codes := resolveSuffix(key); len(codes) == 1 {
		return codes[0]
	}
	return ""
}
