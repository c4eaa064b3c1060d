package geo

import (
	"slices"
	"sort"
)

// adjacency lists the land-bordering states of each state and DC. Borders
// that touch only at a point (Four Corners) and water-only borders are
// excluded. AK and HI have no neighbors.
var adjacency = map[string][]string{
	"AL": {"FL", "GA", "MS", "TN"},
	"AK": {},
	"AZ": {"CA", "NM", "NV", "UT"},
	"AR": {"LA", "MO", "MS", "OK", "TN", "TX"},
	"CA": {"AZ", "NV", "OR"},
	"CO": {"KS", "NE", "NM", "OK", "UT", "WY"},
	"CT": {"MA", "NY", "RI"},
	"DE": {"MD", "NJ", "PA"},
	"DC": {"MD", "VA"},
	"FL": {"AL", "GA"},
	"GA": {"AL", "FL", "NC", "SC", "TN"},
	"HI": {},
	"ID": {"MT", "NV", "OR", "UT", "WA", "WY"},
	"IL": {"IA", "IN", "KY", "MO", "WI"},
	"IN": {"IL", "KY", "MI", "OH"},
	"IA": {"IL", "MN", "MO", "NE", "SD", "WI"},
	"KS": {"CO", "MO", "NE", "OK"},
	"KY": {"IL", "IN", "MO", "OH", "TN", "VA", "WV"},
	"LA": {"AR", "MS", "TX"},
	"ME": {"NH"},
	"MD": {"DC", "DE", "PA", "VA", "WV"},
	"MA": {"CT", "NH", "NY", "RI", "VT"},
	"MI": {"IN", "OH", "WI"},
	"MN": {"IA", "ND", "SD", "WI"},
	"MS": {"AL", "AR", "LA", "TN"},
	"MO": {"AR", "IA", "IL", "KS", "KY", "NE", "OK", "TN"},
	"MT": {"ID", "ND", "SD", "WY"},
	"NE": {"CO", "IA", "KS", "MO", "SD", "WY"},
	"NV": {"AZ", "CA", "ID", "OR", "UT"},
	"NH": {"MA", "ME", "VT"},
	"NJ": {"DE", "NY", "PA"},
	"NM": {"AZ", "CO", "OK", "TX"},
	"NY": {"CT", "MA", "NJ", "PA", "VT"},
	"NC": {"GA", "SC", "TN", "VA"},
	"ND": {"MN", "MT", "SD"},
	"OH": {"IN", "KY", "MI", "PA", "WV"},
	"OK": {"AR", "CO", "KS", "MO", "NM", "TX"},
	"OR": {"CA", "ID", "NV", "WA"},
	"PA": {"DE", "MD", "NJ", "NY", "OH", "WV"},
	"RI": {"CT", "MA"},
	"SC": {"GA", "NC"},
	"SD": {"IA", "MN", "MT", "ND", "NE", "WY"},
	"TN": {"AL", "AR", "GA", "KY", "MO", "MS", "NC", "VA"},
	"TX": {"AR", "LA", "NM", "OK"},
	"UT": {"AZ", "CO", "ID", "NV", "WY"},
	"VT": {"MA", "NH", "NY"},
	"VA": {"DC", "KY", "MD", "NC", "TN", "WV"},
	"WA": {"ID", "OR"},
	"WV": {"KY", "MD", "OH", "PA", "VA"},
	"WI": {"IA", "IL", "MI", "MN"},
	"WY": {"CO", "ID", "MT", "NE", "SD", "UT"},
}

// Neighbors returns a copy of the states bordering code. Unknown codes have
// no neighbors.
func Neighbors(code string) []string {
	return slices.Clone(adjacency[code])
}

// AreAdjacent reports whether a and b share a land border.
func AreAdjacent(a, b string) bool {
	return slices.Contains(adjacency[a], b)
}

// Region is a census-like grouping of states used for region filters.
type Region string

const (
	RegionNortheast   Region = "Northeast"
	RegionSoutheast   Region = "Southeast"
	RegionMidwest     Region = "Midwest"
	RegionSouthwest   Region = "Southwest"
	RegionWest        Region = "West"
	RegionMidAtlantic Region = "Mid-Atlantic"
	RegionNewEngland  Region = "New England"
)

// regionStates groups states for query-layer filtering. Regions overlap:
// New England and Mid-Atlantic states are also Northeast states.
var regionStates = map[Region][]string{
	RegionNortheast:   {"CT", "MA", "ME", "NH", "NJ", "NY", "PA", "RI", "VT"},
	RegionSoutheast:   {"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "SC", "TN", "VA", "WV"},
	RegionMidwest:     {"IA", "IL", "IN", "KS", "MI", "MN", "MO", "ND", "NE", "OH", "SD", "WI"},
	RegionSouthwest:   {"AZ", "NM", "OK", "TX"},
	RegionWest:        {"AK", "CA", "CO", "HI", "ID", "MT", "NV", "OR", "UT", "WA", "WY"},
	RegionMidAtlantic: {"DC", "DE", "MD", "NJ", "NY", "PA"},
	RegionNewEngland:  {"CT", "MA", "ME", "NH", "RI", "VT"},
}

// Regions returns every region name, sorted.
func Regions() []Region {
	out := make([]Region, 0, len(regionStates))
	for r := range regionStates {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// StatesInRegion returns the states in region r. The lookup is
// case-insensitive; unknown regions return nil.
func StatesInRegion(r string) []string {
	key := fold(r)
	for region, states := range regionStates {
		if fold(string(region)) == key {
			return slices.Clone(states)
		}
	}
	return nil
}

// RegionsOf returns the regions containing the given state code, sorted.
func RegionsOf(code string) []Region {
	var out []Region
	for region, states := range regionStates {
		if slices.Contains(states, code) {
			out = append(out, region)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
