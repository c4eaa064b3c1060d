// Package geo normalizes free-text geography into US state codes and scores
// buyer/deal geographic fit using state adjacency.
package geo

import "sort"

// stateNames maps each US state code (plus DC) to its lowercase full name.
var stateNames = map[string]string{
	"AL": "alabama", "AK": "alaska", "AZ": "arizona", "AR": "arkansas",
	"CA": "california", "CO": "colorado", "CT": "connecticut", "DE": "delaware",
	"FL": "florida", "GA": "georgia", "HI": "hawaii", "ID": "idaho",
	"IL": "illinois", "IN": "indiana", "IA": "iowa", "KS": "kansas",
	"KY": "kentucky", "LA": "louisiana", "ME": "maine", "MD": "maryland",
	"MA": "massachusetts", "MI": "michigan", "MN": "minnesota", "MS": "mississippi",
	"MO": "missouri", "MT": "montana", "NE": "nebraska", "NV": "nevada",
	"NH": "new hampshire", "NJ": "new jersey", "NM": "new mexico", "NY": "new york",
	"NC": "north carolina", "ND": "north dakota", "OH": "ohio", "OK": "oklahoma",
	"OR": "oregon", "PA": "pennsylvania", "RI": "rhode island", "SC": "south carolina",
	"SD": "south dakota", "TN": "tennessee", "TX": "texas", "UT": "utah",
	"VT": "vermont", "VA": "virginia", "WA": "washington", "WV": "west virginia",
	"WI": "wisconsin", "WY": "wyoming", "DC": "district of columbia",
}

// nameToCode maps lowercase full names (and a few formal aliases) to codes.
var nameToCode = func() map[string]string {
	m := make(map[string]string, len(stateNames)+5)
	for code, name := range stateNames {
		m[name] = code
	}
	m["washington dc"] = "DC"
	m["washington d.c"] = "DC"
	m["d.c"] = "DC"
	m["state of washington"] = "WA"
	return m
}()

// allStates is the sorted list of the 50 states. DC is a valid code but is
// not part of a national expansion.
var allStates = func() []string {
	out := make([]string, 0, 50)
	for code := range stateNames {
		if code != "DC" {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}()

// misspellings corrects common state-name typos seen in scraped and pasted data.
var misspellings = map[string]string{
	"conneticut":     "CT",
	"conecticut":     "CT",
	"connecticutt":   "CT",
	"conneticutt":    "CT",
	"massachusets":   "MA",
	"massachussets":  "MA",
	"massachussetts": "MA",
	"masachusetts":   "MA",
	"massachusettes": "MA",
	"pennsylvannia":  "PA",
	"pensylvania":    "PA",
	"pennsilvania":   "PA",
	"tennesee":       "TN",
	"tenessee":       "TN",
	"tennessse":      "TN",
	"missisippi":     "MS",
	"mississipi":     "MS",
	"missisipi":      "MS",
	"louisianna":     "LA",
	"lousiana":       "LA",
	"arizonia":       "AZ",
	"califronia":     "CA",
	"californa":      "CA",
	"flordia":        "FL",
	"floida":         "FL",
	"geogia":         "GA",
	"gerogia":        "GA",
	"illnois":        "IL",
	"illinios":       "IL",
	"minnesotta":     "MN",
	"wisconson":      "WI",
	"virgina":        "VA",
	"west virgina":   "WV",
	"north carolia":  "NC",
	"south carolia":  "SC",
	"oklahome":       "OK",
	"colorada":       "CO",
	"kentuckey":      "KY",
	"michagan":       "MI",
	"new jersy":      "NJ",
	"new mexcio":     "NM",
	"nevade":         "NV",
	"alabamma":       "AL",
	"arkansaw":       "AR",
	"oregan":         "OR",
	"texes":          "TX",
}

// IsStateCode reports whether code is a valid US state code (DC included).
func IsStateCode(code string) bool {
	_, ok := stateNames[code]
	return ok
}

// AllStates returns a copy of the 50 state codes, sorted.
func AllStates() []string {
	out := make([]string, len(allStates))
	copy(out, allStates)
	return out
}

// canadianProvinces maps province and territory codes to lowercase names.
var canadianProvinces = map[string]string{
	"AB": "alberta",
	"BC": "british columbia",
	"MB": "manitoba",
	"NB": "new brunswick",
	"NL": "newfoundland and labrador",
	"NS": "nova scotia",
	"NT": "northwest territories",
	"NU": "nunavut",
	"ON": "ontario",
	"PE": "prince edward island",
	"QC": "quebec",
	"SK": "saskatchewan",
	"YT": "yukon",
}

var provinceNameToCode = func() map[string]string {
	m := make(map[string]string, len(canadianProvinces)+4)
	for code, name := range canadianProvinces {
		m[name] = code
	}
	m["newfoundland"] = "NL"
	m["labrador"] = "NL"
	m["pei"] = "PE"
	m["yukon territory"] = "YT"
	return m
}()

// canadaSynonyms expand to every province.
var canadaSynonyms = map[string]bool{
	"canada":        true,
	"all of canada": true,
	"canada-wide":   true,
	"canada wide":   true,
}

// IsCanadianProvince reports whether code is a Canadian province or territory code.
func IsCanadianProvince(code string) bool {
	_, ok := canadianProvinces[code]
	return ok
}
