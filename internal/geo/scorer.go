package geo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sells-group/buyer-match/internal/config"
	"github.com/sells-group/buyer-match/internal/model"
)

// DefaultGeographyConfig returns the standard score table: proximity-gated
// deals below three locations, multi-location platforms at three or more.
func DefaultGeographyConfig() config.GeographyConfig {
	return config.GeographyConfig{
		LocationThreshold: 3,
		LocalExact:        95,
		LocalAdjacent:     75,
		MultiExact:        90,
		MultiAdjacent:     70,
		MultiDistant:      40,
		Unknown:           50,
		CrossBorder:       25,
	}
}

// BuyerProfile carries the free-text geography signals of one buyer.
type BuyerProfile struct {
	HQ                  string   `json:"hq"`
	TargetGeographies   []string `json:"target_geographies"`
	ServiceRegions      []string `json:"service_regions"`
	GeographicFootprint []string `json:"geographic_footprint"`
}

// ProfileFromBuyer builds a geography profile from a buyer record.
func ProfileFromBuyer(b *model.Buyer) BuyerProfile {
	hq := strings.TrimSpace(b.HQCity)
	if b.HQState != "" {
		if hq != "" {
			hq += ", "
		}
		hq += strings.TrimSpace(b.HQState)
	}
	return BuyerProfile{
		HQ:                  hq,
		TargetGeographies:   b.TargetGeographies,
		ServiceRegions:      b.ServiceRegions,
		GeographicFootprint: b.GeographicFootprint,
	}
}

func (p BuyerProfile) regionEntries() []string {
	out := make([]string, 0, len(p.TargetGeographies)+len(p.ServiceRegions)+len(p.GeographicFootprint))
	out = append(out, p.TargetGeographies...)
	out = append(out, p.ServiceRegions...)
	out = append(out, p.GeographicFootprint...)
	return out
}

func (p BuyerProfile) entries() []string {
	if p.HQ == "" {
		return p.regionEntries()
	}
	return append([]string{p.HQ}, p.regionEntries()...)
}

// States returns the union of the profile's resolvable US states. The
// headquarters contributes only its state, never its city.
func (p BuyerProfile) States() []string {
	entries := p.regionEntries()
	if code := ParseHeadquarters(p.HQ); code != "" {
		entries = append(entries, code)
	}
	return Normalize(entries...)
}

// Provinces returns the profile's resolvable Canadian provinces.
func (p BuyerProfile) Provinces() []string {
	return NormalizeProvinces(p.entries()...)
}

// DealStates resolves a deal's states from its geography entries and the
// state suffix of its headquarters.
func DealStates(d *model.Deal) []string {
	entries := slices.Clone(d.Geography)
	if code := ParseHeadquarters(d.Headquarters); code != "" {
		entries = append(entries, code)
	}
	return Normalize(entries...)
}

// GeoResult is the geography fit of one buyer for one deal.
type GeoResult struct {
	Score           float64  `json:"score"`
	Disqualified    bool     `json:"disqualified"`
	Reason          *string  `json:"reason"`
	Explanation     string   `json:"explanation"`
	BuyerStates     []string `json:"buyer_states"`
	DealStates      []string `json:"deal_states"`
	ExactMatches    []string `json:"exact_matches"`
	AdjacentMatches []string `json:"adjacent_matches"`
}

// Scorer scores buyer geography against deal geography.
type Scorer struct {
	cfg config.GeographyConfig
}

// NewScorer creates a Scorer using the given score table.
func NewScorer(cfg config.GeographyConfig) *Scorer {
	if cfg.LocationThreshold < 1 {
		cfg.LocationThreshold = DefaultGeographyConfig().LocationThreshold
	}
	return &Scorer{cfg: cfg}
}

// ScoreDeal scores a buyer record against a deal record.
func (s *Scorer) ScoreDeal(b *model.Buyer, d *model.Deal) GeoResult {
	return s.ScoreBuyer(ProfileFromBuyer(b), DealStates(d), d.Locations())
}

// ScoreBuyer decides the geography fit for a buyer profile. Deals below the
// location threshold require an exact or adjacent state match; larger deals
// only lose points for distance. Missing geography on either side yields the
// neutral score and never disqualifies.
func (s *Scorer) ScoreBuyer(p BuyerProfile, dealStates []string, dealLocationCount int) GeoResult {
	deal := Normalize(dealStates...)
	buyer := p.States()
	local := dealLocationCount < s.cfg.LocationThreshold

	res := GeoResult{
		BuyerStates:     buyer,
		DealStates:      deal,
		ExactMatches:    []string{},
		AdjacentMatches: []string{},
	}

	if len(deal) == 0 {
		res.Score = s.cfg.Unknown
		res.Explanation = "Deal geography is unknown; neutral score."
		return res
	}

	if len(buyer) == 0 {
		if provinces := p.Provinces(); len(provinces) > 0 {
			if local {
				res.Disqualified = true
				res.Reason = reason(fmt.Sprintf(
					"Buyer operates only in Canada (%s); a %s deal in %s needs in-country proximity.",
					strings.Join(provinces, ", "), locationsLabel(dealLocationCount), strings.Join(deal, ", ")))
				res.Explanation = *res.Reason
				return res
			}
			res.Score = s.cfg.CrossBorder
			res.Explanation = fmt.Sprintf(
				"Buyer operates only in Canada (%s); a %d-location US deal could justify market entry.",
				strings.Join(provinces, ", "), dealLocationCount)
			return res
		}
		res.Score = s.cfg.Unknown
		res.Explanation = "Buyer geography is unknown; neutral score."
		return res
	}

	res.ExactMatches = intersect(deal, buyer)
	res.AdjacentMatches = adjacentMatches(deal, buyer)

	switch {
	case local && len(res.ExactMatches) > 0:
		res.Score = s.cfg.LocalExact
		res.Explanation = fmt.Sprintf("Buyer is present in the deal's state (%s).", strings.Join(res.ExactMatches, ", "))
	case local && len(res.AdjacentMatches) > 0:
		res.Score = s.cfg.LocalAdjacent
		res.Explanation = fmt.Sprintf("Buyer is present in a bordering state (%s).", strings.Join(res.AdjacentMatches, ", "))
	case local:
		res.Disqualified = true
		res.Reason = reason(fmt.Sprintf(
			"No buyer presence in or next to %s (buyer states: %s); a %s deal requires proximity.",
			strings.Join(deal, ", "), strings.Join(buyer, ", "), locationsLabel(dealLocationCount)))
		res.Explanation = *res.Reason
	case len(res.ExactMatches) > 0:
		res.Score = s.cfg.MultiExact
		res.Explanation = fmt.Sprintf("Buyer overlaps the deal footprint in %s.", strings.Join(res.ExactMatches, ", "))
	case len(res.AdjacentMatches) > 0:
		res.Score = s.cfg.MultiAdjacent
		res.Explanation = fmt.Sprintf("Buyer is present in bordering states (%s).", strings.Join(res.AdjacentMatches, ", "))
	default:
		res.Score = s.cfg.MultiDistant
		res.Explanation = fmt.Sprintf(
			"Buyer operates in %s, away from the deal; a %d-location platform could justify expansion.",
			strings.Join(buyer, ", "), dealLocationCount)
	}
	return res
}

func intersect(a, b []string) []string {
	out := []string{}
	for _, s := range a {
		if slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}

// adjacentMatches returns buyer states that border any deal state and are
// not deal states themselves.
func adjacentMatches(deal, buyer []string) []string {
	set := make(map[string]bool)
	for _, d := range deal {
		for _, n := range adjacency[d] {
			if slices.Contains(buyer, n) && !slices.Contains(deal, n) {
				set[n] = true
			}
		}
	}
	return sortedKeys(set)
}

func locationsLabel(n int) string {
	if n <= 1 {
		return "single-location"
	}
	return fmt.Sprintf("%d-location", n)
}

func reason(s string) *string { return &s }
