package geo

// regionExpansions maps free-text region phrases to the states they cover.
// Lists are sorted so expansions are stable.
var regionExpansions = map[string][]string{
	"southeast":           {"AL", "FL", "GA", "KY", "MS", "NC", "SC", "TN", "VA", "WV"},
	"south east":          {"AL", "FL", "GA", "KY", "MS", "NC", "SC", "TN", "VA", "WV"},
	"southeastern us":     {"AL", "FL", "GA", "KY", "MS", "NC", "SC", "TN", "VA", "WV"},
	"southeastern":        {"AL", "FL", "GA", "KY", "MS", "NC", "SC", "TN", "VA", "WV"},
	"northeast":           {"CT", "MA", "ME", "NH", "NJ", "NY", "PA", "RI", "VT"},
	"north east":          {"CT", "MA", "ME", "NH", "NJ", "NY", "PA", "RI", "VT"},
	"northeastern":        {"CT", "MA", "ME", "NH", "NJ", "NY", "PA", "RI", "VT"},
	"new england":         {"CT", "MA", "ME", "NH", "RI", "VT"},
	"mid-atlantic":        {"DE", "MD", "NJ", "NY", "PA"},
	"mid atlantic":        {"DE", "MD", "NJ", "NY", "PA"},
	"midatlantic":         {"DE", "MD", "NJ", "NY", "PA"},
	"midwest":             {"IA", "IL", "IN", "KS", "MI", "MN", "MO", "ND", "NE", "OH", "SD", "WI"},
	"mid-west":            {"IA", "IL", "IN", "KS", "MI", "MN", "MO", "ND", "NE", "OH", "SD", "WI"},
	"midwestern":          {"IA", "IL", "IN", "KS", "MI", "MN", "MO", "ND", "NE", "OH", "SD", "WI"},
	"upper midwest":       {"IA", "MI", "MN", "ND", "SD", "WI"},
	"southwest":           {"AZ", "NM", "OK", "TX"},
	"south west":          {"AZ", "NM", "OK", "TX"},
	"southwestern":        {"AZ", "NM", "OK", "TX"},
	"west":                {"AZ", "CA", "CO", "ID", "MT", "NM", "NV", "OR", "UT", "WA", "WY"},
	"western us":          {"AZ", "CA", "CO", "ID", "MT", "NM", "NV", "OR", "UT", "WA", "WY"},
	"west coast":          {"CA", "OR", "WA"},
	"pacific northwest":   {"ID", "OR", "WA"},
	"pnw":                 {"ID", "OR", "WA"},
	"mountain west":       {"CO", "ID", "MT", "NV", "UT", "WY"},
	"rocky mountains":     {"CO", "ID", "MT", "UT", "WY"},
	"rocky mountain":      {"CO", "ID", "MT", "UT", "WY"},
	"east coast":          {"CT", "DE", "FL", "GA", "MA", "MD", "ME", "NC", "NH", "NJ", "NY", "PA", "RI", "SC", "VA"},
	"eastern seaboard":    {"CT", "DE", "FL", "GA", "MA", "MD", "ME", "NC", "NH", "NJ", "NY", "PA", "RI", "SC", "VA"},
	"south":               {"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "OK", "SC", "TN", "TX", "VA", "WV"},
	"southern us":         {"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "OK", "SC", "TN", "TX", "VA", "WV"},
	"tri-state":           {"CT", "NJ", "NY"},
	"tristate":            {"CT", "NJ", "NY"},
	"tri state":           {"CT", "NJ", "NY"},
	"tri-state area":      {"CT", "NJ", "NY"},
	"sun belt":            {"AL", "AZ", "CA", "FL", "GA", "LA", "MS", "NC", "NM", "NV", "SC", "TN", "TX"},
	"sunbelt":             {"AL", "AZ", "CA", "FL", "GA", "LA", "MS", "NC", "NM", "NV", "SC", "TN", "TX"},
	"gulf coast":          {"AL", "FL", "LA", "MS", "TX"},
	"gulf states":         {"AL", "FL", "LA", "MS", "TX"},
	"great lakes":         {"IL", "IN", "MI", "MN", "NY", "OH", "PA", "WI"},
	"rust belt":           {"IL", "IN", "MI", "NY", "OH", "PA", "WI"},
	"great plains":        {"KS", "ND", "NE", "OK", "SD"},
	"plains":              {"KS", "ND", "NE", "OK", "SD"},
	"carolinas":           {"NC", "SC"},
	"the carolinas":       {"NC", "SC"},
	"dakotas":             {"ND", "SD"},
	"the dakotas":         {"ND", "SD"},
	"dmv":                 {"DC", "MD", "VA"},
	"dfw":                 {"TX"},
	"bay area":            {"CA"},
	"socal":               {"CA"},
	"norcal":              {"CA"},
	"southern california": {"CA"},
	"northern california": {"CA"},
	"inland empire":       {"CA"},
	"florida panhandle":   {"FL"},
	"texas panhandle":     {"TX"},
	"upstate new york":    {"NY"},
	"long island":         {"NY"},
	"new york metro":      {"CT", "NJ", "NY"},
}

// nationalSynonyms expand to all 50 states.
var nationalSynonyms = map[string]bool{
	"national":           true,
	"nationwide":         true,
	"nation wide":        true,
	"nation-wide":        true,
	"nationally":         true,
	"usa":                true,
	"u.s":                true,
	"u.s.a":              true,
	"us":                 true,
	"united states":      true,
	"all states":         true,
	"all us states":      true,
	"all 50 states":      true,
	"lower 48":           true,
	"continental us":     true,
	"contiguous us":      true,
	"coast to coast":     true,
	"across the us":      true,
	"across the country": true,
	"throughout the us":  true,
	"entire us":          true,
	"north america":      true,
}
